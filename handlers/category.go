package handlers

import (
	"net/http"
	"strconv"

	"github.com/hanzicards/hanzicards-api/models"
)

// GetCategories lists every category, for the set-creation picker.
func (db *DBHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := db.Order("name ASC").Find(&categories).Error; err != nil {
		respondStorageError(w, err)
		return
	}
	if len(categories) == 0 {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

// DeleteCategory removes a category. Sets that referenced it keep existing
// with a cleared category; nothing cascades.
func (db *DBHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := userFromContext(r); !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	idStr := r.PathValue("categoryID")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var category models.Category
	if err := db.First(&category, uint(id)).Error; err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondStorageError(w, tx.Error)
		return
	}
	err = tx.Model(&models.FlashcardSet{}).
		Where("category_id = ?", category.ID).
		Update("category_id", nil).Error
	if err != nil {
		tx.Rollback()
		respondStorageError(w, err)
		return
	}
	if err := tx.Delete(&category).Error; err != nil {
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
