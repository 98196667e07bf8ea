package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/auth"
	"github.com/hanzicards/hanzicards-api/config"
	"github.com/hanzicards/hanzicards-api/models"
)

func setAuthCookie(w http.ResponseWriter, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    tokenString,
		Path:     "/",
		Domain:   config.Env.Domain,
		HttpOnly: true,
		Secure:   config.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})
}

// AddUser registers a new user, or logs an existing one in when the password
// matches, and sets the auth cookie either way.
func (db *DBHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var reqData struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&reqData); err != nil {
		respondError(w, http.StatusBadRequest, "Could not decode request")
		return
	}
	if reqData.Username == "" || reqData.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var existingUser models.User
	err := db.Where("username = ?", reqData.Username).First(&existingUser).Error
	if err == nil {
		// User already exists: treat as login.
		if !auth.CheckPassword(existingUser.PasswordHash, reqData.Password) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		tokenString, err := auth.CreateToken(existingUser.ID, existingUser.Username)
		if err != nil {
			log.Println("Token generation error:", err)
			respondError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}

		setAuthCookie(w, tokenString)
		respondJSON(w, http.StatusOK, map[string]interface{}{"user": existingUser})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondStorageError(w, err)
		return
	}

	hash, err := auth.HashPassword(reqData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := models.User{
		Username:     reqData.Username,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		respondStorageError(w, err)
		return
	}
	log.Printf("Created new user: %s\n", user.Username)

	tokenString, err := auth.CreateToken(user.ID, user.Username)
	if err != nil {
		log.Println("Token generation error:", err)
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	setAuthCookie(w, tokenString)
	respondJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}
