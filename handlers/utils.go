package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/middleware"
	"github.com/hanzicards/hanzicards-api/models"
	"github.com/hanzicards/hanzicards-api/translation"
	"github.com/hanzicards/hanzicards-api/validation"
)

type DBHandler struct {
	*gorm.DB
	Translator *translation.Client
}

func userFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
	return user, ok
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Failed to encode response:", err)
	}
}

// respondError writes a {"error": msg} body for client-fixable conditions.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondFieldErrors writes the field-keyed validation error map.
func respondFieldErrors(w http.ResponseWriter, errs validation.FieldErrors) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// respondStorageError logs the underlying failure and returns a generic 500.
// Persistence details never reach the client.
func respondStorageError(w http.ResponseWriter, err error) {
	log.Println("Storage error:", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
