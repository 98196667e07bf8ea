package translation

// apiResponse is the JSON shape the translation service returns for a
// single-word lookup.
type apiResponse struct {
	TranslatedText string `json:"translatedText"`
	Pronunciation  string `json:"pronunciation"`
}
