package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/models"
	"github.com/hanzicards/hanzicards-api/validation"
)

// getOrCreateCategory finds a category by exact name, creating it when
// missing. A unique-violation on insert means another request created the
// row first; it is fetched and reused rather than treated as an error.
func getOrCreateCategory(db *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := db.Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		// Lost the get-or-create race: fetch the winner's row.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(err.Error(), "duplicate key") {
			var existing models.Category
			if fetchErr := db.Where("name = ?", name).First(&existing).Error; fetchErr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &category, nil
}

// CreateFlashCardSet handles POST /api/sets/create/.
func (db *DBHandler) CreateFlashCardSet(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var reqData struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Difficulty  string `json:"difficulty"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reqData); err != nil {
		respondError(w, http.StatusBadRequest, "Could not decode request")
		return
	}

	if strings.TrimSpace(reqData.Name) == "" {
		respondError(w, http.StatusBadRequest, "Set name is required")
		return
	}

	normalized, fieldErrs := validation.ValidateFlashcardSet(validation.SetInput{
		Name:        reqData.Name,
		Description: reqData.Description,
		Category:    reqData.Category,
		Difficulty:  reqData.Difficulty,
		IsPublic:    reqData.IsPublic,
	})
	if fieldErrs != nil {
		respondFieldErrors(w, fieldErrs)
		return
	}

	var categoryID *uint
	if normalized.Category != "" {
		category, err := getOrCreateCategory(db.DB, normalized.Category)
		if err != nil {
			respondStorageError(w, err)
			return
		}
		categoryID = &category.ID
	}

	publicID, err := gonanoid.New()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate ID")
		return
	}

	flashcardSet := models.FlashcardSet{
		PublicID:    publicID,
		Name:        normalized.Name,
		Description: normalized.Description,
		CategoryID:  categoryID,
		Difficulty:  normalized.Difficulty,
		IsPublic:    normalized.IsPublic,
		UserID:      user.ID,
	}
	if err := db.Create(&flashcardSet).Error; err != nil {
		respondStorageError(w, err)
		return
	}

	if err := db.Preload("Category").First(&flashcardSet, flashcardSet.ID).Error; err != nil {
		respondStorageError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, flashcardSet)
}

// GetUserFlashcardSets handles GET /api/sets/get/: the caller's own sets,
// newest first.
func (db *DBHandler) GetUserFlashcardSets(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var flashcardSets []models.FlashcardSet
	result := db.
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Preload("Category").
		Find(&flashcardSets)
	if result.Error != nil {
		respondStorageError(w, result.Error)
		return
	}

	// Return an empty array instead of null
	if len(flashcardSets) == 0 {
		flashcardSets = []models.FlashcardSet{}
	}

	respondJSON(w, http.StatusOK, flashcardSets)
}

// GetSetByID returns one set with its cards. Private sets are only visible
// to their owner.
func (db *DBHandler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	if setID == "" {
		respondError(w, http.StatusBadRequest, "Set ID is required")
		return
	}

	var flashcardSet models.FlashcardSet
	result := db.
		Where("public_id = ?", setID).
		Preload("Category").
		Preload("Flashcards").
		First(&flashcardSet)
	if result.Error != nil {
		respondError(w, http.StatusNotFound, "Flashcard set not found")
		return
	}

	if !flashcardSet.IsPublic {
		user, ok := userFromContext(r)
		if !ok || user.ID != flashcardSet.UserID {
			respondError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	respondJSON(w, http.StatusOK, flashcardSet)
}

// DeleteSetByID removes a set and all of its cards. Owner only.
func (db *DBHandler) DeleteSetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	setID := r.PathValue("setID")
	var flashcardSet models.FlashcardSet
	if err := db.Where("public_id = ?", setID).First(&flashcardSet).Error; err != nil {
		respondError(w, http.StatusNotFound, "Flashcard set not found")
		return
	}

	if flashcardSet.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Forbidden: you do not own this set")
		return
	}

	// Cards go first, then the set; one transaction. The parent is gone so
	// no counter recomputation applies.
	tx := db.Begin()
	if tx.Error != nil {
		respondStorageError(w, tx.Error)
		return
	}
	if err := tx.Where("set_id = ?", flashcardSet.ID).Delete(&models.Flashcard{}).Error; err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := tx.Delete(&flashcardSet).Error; err != nil {
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
