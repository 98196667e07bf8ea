package middleware

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/auth"
	"github.com/hanzicards/hanzicards-api/models"
)

type contextKey string

// UserContextKey is where CurrentUser stores the authenticated *models.User.
const UserContextKey contextKey = "user"

// CurrentUser verifies the auth_token cookie and attaches the matching user
// row to the request context. Requests without a valid token get a 401.
func CurrentUser(db *gorm.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("auth_token")
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		userID, err := auth.VerifyToken(cookie.Value)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalUser attaches the user when a valid auth_token cookie is present
// and passes the request through untouched otherwise. For routes that serve
// both public and owner-only content.
func OptionalUser(db *gorm.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("auth_token")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := auth.VerifyToken(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
