package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/hanzicards/hanzicards-api/models"
	"github.com/hanzicards/hanzicards-api/stats"
	"github.com/hanzicards/hanzicards-api/validation"
)

// CreateFlashCard handles POST /api/flashcard/create/. Caller-supplied
// translation and pinyin win; the upstream lookup only fills in fields the
// caller left blank.
func (db *DBHandler) CreateFlashCard(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var reqData struct {
		Word            string `json:"word"`
		Translation     string `json:"translation"`
		Pinyin          string `json:"pinyin"`
		Definition      string `json:"definition"`
		ExampleSentence string `json:"example_sentence"`
		AudioURL        string `json:"audio_url"`
		HSKLevel        *int   `json:"hsk_level"`
		Mastered        bool   `json:"mastered"`
		FlashcardSetID  string `json:"flashcard_set_id"`
		SourceLang      string `json:"source_lang"`
		DestLang        string `json:"dest_lang"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqData); err != nil {
		respondError(w, http.StatusBadRequest, "Could not decode request")
		return
	}

	var set models.FlashcardSet
	if err := db.Where("public_id = ?", reqData.FlashcardSetID).First(&set).Error; err != nil {
		respondFieldErrors(w, validation.FieldErrors{
			"flashcard_set_id": {"flashcard set does not exist"},
		})
		return
	}

	if set.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Forbidden: you do not own this set")
		return
	}

	input := validation.FlashcardInput{
		Word:            reqData.Word,
		Translation:     reqData.Translation,
		Pinyin:          reqData.Pinyin,
		Definition:      reqData.Definition,
		ExampleSentence: reqData.ExampleSentence,
		AudioURL:        reqData.AudioURL,
		HSKLevel:        reqData.HSKLevel,
		Mastered:        reqData.Mastered,
	}

	// Resolve missing translation/pinyin upstream before validating, and
	// never inside the store transaction.
	if err := db.fillFromLookup(r, &input, reqData.SourceLang, reqData.DestLang); err != nil {
		log.Println("Translation lookup failed:", err)
		respondError(w, http.StatusBadGateway, "translation unavailable")
		return
	}

	normalized, fieldErrs := validation.ValidateFlashcard(input)
	if fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate ID")
		return
	}

	flashcard := models.Flashcard{
		PublicID:        publicID,
		Word:            normalized.Word,
		Translation:     normalized.Translation,
		Pinyin:          normalized.Pinyin,
		Definition:      normalized.Definition,
		ExampleSentence: normalized.ExampleSentence,
		AudioURL:        normalized.AudioURL,
		HSKLevel:        normalized.HSKLevel,
		Mastered:        normalized.Mastered,
		SetID:           set.ID,
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondStorageError(w, tx.Error)
		return
	}
	if err := tx.Create(&flashcard).Error; err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := stats.Recompute(tx, set.ID); err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondStorageError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, flashcard)
}

// fillFromLookup asks the translation service for whatever the caller left
// blank. A lookup error leaves the input untouched. Words that cannot pass
// validation anyway (blank, or no Chinese characters) never reach the
// upstream: their rejection must come back as field errors, not as a lookup
// failure.
func (db *DBHandler) fillFromLookup(r *http.Request, input *validation.FlashcardInput, sourceLang, destLang string) error {
	word := strings.TrimSpace(input.Word)
	if word == "" || !validation.ContainsHanzi(word) {
		return nil
	}

	needTranslation := strings.TrimSpace(input.Translation) == ""
	needPinyin := strings.TrimSpace(input.Pinyin) == ""
	if !needTranslation && !needPinyin {
		return nil
	}

	if sourceLang == "" {
		sourceLang = "zh"
	}
	if destLang == "" {
		destLang = "en"
	}

	result, err := db.Translator.Lookup(r.Context(), word, sourceLang, destLang)
	if err != nil {
		return err
	}

	if needTranslation {
		input.Translation = result.TranslatedText
	}
	if needPinyin {
		input.Pinyin = result.Pronunciation
	}
	return nil
}

// UpdateFlashCardByID handles PUT /api/sets/{setID}/flashcards/{flashcardID}.
// Only supplied fields change; the merged card is revalidated in full.
func (db *DBHandler) UpdateFlashCardByID(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	setID := r.PathValue("setID")
	flashcardID := r.PathValue("flashcardID")

	var set models.FlashcardSet
	if err := db.Where("public_id = ?", setID).First(&set).Error; err != nil {
		respondError(w, http.StatusNotFound, "Flashcard set not found")
		return
	}
	if set.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Forbidden: you do not own this set")
		return
	}

	var flashcard models.Flashcard
	if err := db.Where("public_id = ? AND set_id = ?", flashcardID, set.ID).First(&flashcard).Error; err != nil {
		respondError(w, http.StatusNotFound, "Flashcard not found")
		return
	}

	var reqData struct {
		Word            *string `json:"word,omitempty"`
		Translation     *string `json:"translation,omitempty"`
		Pinyin          *string `json:"pinyin,omitempty"`
		Definition      *string `json:"definition,omitempty"`
		ExampleSentence *string `json:"example_sentence,omitempty"`
		AudioURL        *string `json:"audio_url,omitempty"`
		HSKLevel        *int    `json:"hsk_level,omitempty"`
		Mastered        *bool   `json:"mastered,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqData); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := validation.FlashcardInput{
		Word:            flashcard.Word,
		Translation:     flashcard.Translation,
		Pinyin:          flashcard.Pinyin,
		Definition:      flashcard.Definition,
		ExampleSentence: flashcard.ExampleSentence,
		AudioURL:        flashcard.AudioURL,
		HSKLevel:        flashcard.HSKLevel,
		Mastered:        flashcard.Mastered,
	}
	if reqData.Word != nil {
		input.Word = *reqData.Word
	}
	if reqData.Translation != nil {
		input.Translation = *reqData.Translation
	}
	if reqData.Pinyin != nil {
		input.Pinyin = *reqData.Pinyin
	}
	if reqData.Definition != nil {
		input.Definition = *reqData.Definition
	}
	if reqData.ExampleSentence != nil {
		input.ExampleSentence = *reqData.ExampleSentence
	}
	if reqData.AudioURL != nil {
		input.AudioURL = *reqData.AudioURL
	}
	if reqData.HSKLevel != nil {
		input.HSKLevel = reqData.HSKLevel
	}
	if reqData.Mastered != nil {
		input.Mastered = *reqData.Mastered
	}

	normalized, fieldErrs := validation.ValidateFlashcard(input)
	if fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	flashcard.Word = normalized.Word
	flashcard.Translation = normalized.Translation
	flashcard.Pinyin = normalized.Pinyin
	flashcard.Definition = normalized.Definition
	flashcard.ExampleSentence = normalized.ExampleSentence
	flashcard.AudioURL = normalized.AudioURL
	flashcard.HSKLevel = normalized.HSKLevel
	flashcard.Mastered = normalized.Mastered

	tx := db.Begin()
	if tx.Error != nil {
		respondStorageError(w, tx.Error)
		return
	}
	if err := tx.Save(&flashcard).Error; err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := stats.Recompute(tx, set.ID); err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondStorageError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, flashcard)
}

// DeleteFlashCardByID handles DELETE /api/sets/{setID}/flashcards/{flashcardID}.
func (db *DBHandler) DeleteFlashCardByID(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	setID := r.PathValue("setID")
	flashcardID := r.PathValue("flashcardID")

	var set models.FlashcardSet
	if err := db.Where("public_id = ?", setID).First(&set).Error; err != nil {
		respondError(w, http.StatusNotFound, "Flashcard set not found")
		return
	}
	if set.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Forbidden: you do not own this set")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondStorageError(w, tx.Error)
		return
	}
	result := tx.Where("public_id = ? AND set_id = ?", flashcardID, set.ID).Delete(&models.Flashcard{})
	if result.Error != nil {
		tx.Rollback()
		respondStorageError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		respondError(w, http.StatusNotFound, "Flashcard not found")
		return
	}
	if err := stats.Recompute(tx, set.ID); err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondStorageError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetFlashcardsForSet lists the cards of a set. Private sets are only
// readable by their owner.
func (db *DBHandler) GetFlashcardsForSet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")

	var set models.FlashcardSet
	if err := db.Where("public_id = ?", setID).First(&set).Error; err != nil {
		respondError(w, http.StatusNotFound, "Flashcard set not found")
		return
	}

	if !set.IsPublic {
		user, ok := userFromContext(r)
		if !ok || user.ID != set.UserID {
			respondError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	var flashcards []models.Flashcard
	if err := db.Where("set_id = ?", set.ID).Order("created_at ASC").Find(&flashcards).Error; err != nil {
		respondStorageError(w, err)
		return
	}

	if len(flashcards) == 0 {
		flashcards = []models.Flashcard{}
	}

	respondJSON(w, http.StatusOK, flashcards)
}
