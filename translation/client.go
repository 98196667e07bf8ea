package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrLookupFailed marks any upstream failure: network error, non-200 status,
// or a body the client cannot use. Handlers surface it as a "translation
// unavailable" condition rather than a server fault.
var ErrLookupFailed = errors.New("translation lookup failed")

const defaultTimeout = 10 * time.Second

// Result holds the upstream's answer for a single word.
type Result struct {
	TranslatedText string
	Pronunciation  string
}

// Client looks up translations and pronunciations from the configured
// translation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given service base URL with the default
// request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Lookup resolves word from sourceLang into destLang. A single attempt is
// made; any failure wraps ErrLookupFailed. Callers must not hold a store
// transaction open across this call.
func (c *Client) Lookup(ctx context.Context, word, sourceLang, destLang string) (*Result, error) {
	q := url.Values{}
	q.Set("word", word)
	q.Set("sl", sourceLang)
	q.Set("dl", destLang)
	reqURL := c.baseURL + "/translate?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrLookupFailed, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrLookupFailed, err)
	}
	if apiResp.TranslatedText == "" {
		return nil, fmt.Errorf("%w: empty translation in response", ErrLookupFailed)
	}

	return &Result{
		TranslatedText: apiResp.TranslatedText,
		Pronunciation:  apiResp.Pronunciation,
	}, nil
}
