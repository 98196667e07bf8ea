package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/auth"
	"github.com/hanzicards/hanzicards-api/middleware"
	"github.com/hanzicards/hanzicards-api/models"
	"github.com/hanzicards/hanzicards-api/translation"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.FlashcardSet{}, &models.Flashcard{}))
	return db
}

// newTestMux wires the handler into the same route table main.go uses.
func newTestMux(t *testing.T, db *gorm.DB, translateURL string) *http.ServeMux {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	h := &DBHandler{DB: db, Translator: translation.NewClient(translateURL)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", h.AddUser)
	mux.HandleFunc("POST /api/sets/create/", middleware.CurrentUser(db, h.CreateFlashCardSet))
	mux.HandleFunc("GET /api/sets/get/{$}", middleware.CurrentUser(db, h.GetUserFlashcardSets))
	mux.HandleFunc("GET /api/sets/{setID}", middleware.OptionalUser(db, h.GetSetByID))
	mux.HandleFunc("DELETE /api/sets/{setID}", middleware.CurrentUser(db, h.DeleteSetByID))
	mux.HandleFunc("GET /api/categories", h.GetCategories)
	mux.HandleFunc("DELETE /api/categories/{categoryID}", middleware.CurrentUser(db, h.DeleteCategory))
	mux.HandleFunc("POST /api/flashcard/create/", middleware.CurrentUser(db, h.CreateFlashCard))
	mux.HandleFunc("GET /api/sets/{setID}/flashcards", middleware.OptionalUser(db, h.GetFlashcardsForSet))
	mux.HandleFunc("PUT /api/sets/{setID}/flashcards/{flashcardID}", middleware.CurrentUser(db, h.UpdateFlashCardByID))
	mux.HandleFunc("DELETE /api/sets/{setID}/flashcards/{flashcardID}", middleware.CurrentUser(db, h.DeleteFlashCardByID))
	return mux
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func authCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	tokenString, err := auth.CreateToken(user.ID, user.Username)
	require.NoError(t, err)
	return &http.Cookie{Name: "auth_token", Value: tokenString}
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func createSet(t *testing.T, db *gorm.DB, user *models.User, publicID, name string, createdAt time.Time) *models.FlashcardSet {
	t.Helper()
	set := models.FlashcardSet{
		PublicID:   publicID,
		Name:       name,
		Difficulty: models.DifficultyBeginner,
		UserID:     user.ID,
	}
	set.CreatedAt = createdAt
	require.NoError(t, db.Create(&set).Error)
	return &set
}

func createCard(t *testing.T, db *gorm.DB, setID uint, publicID, word string, mastered bool) *models.Flashcard {
	t.Helper()
	card := models.Flashcard{
		PublicID:    publicID,
		Word:        word,
		Translation: "translation",
		Pinyin:      "pinyin",
		Mastered:    mastered,
		SetID:       setID,
	}
	require.NoError(t, db.Create(&card).Error)
	return &card
}

func setCounters(t *testing.T, db *gorm.DB, setID uint) (total, learning, mastered int) {
	t.Helper()
	var set models.FlashcardSet
	require.NoError(t, db.First(&set, setID).Error)
	return set.TotalCards, set.StillLearning, set.Mastered
}

// translationStub serves a fixed lookup response.
func translationStub(t *testing.T, translatedText, pronunciation string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"translatedText": translatedText,
			"pronunciation":  pronunciation,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// brokenTranslationStub always fails.
func brokenTranslationStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}
