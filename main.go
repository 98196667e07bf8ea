package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/hanzicards/hanzicards-api/config"
	"github.com/hanzicards/hanzicards-api/handlers"
	"github.com/hanzicards/hanzicards-api/middleware"
	"github.com/hanzicards/hanzicards-api/translation"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection
	if err := config.Connect(); err != nil {
		log.Fatal(err)
	}

	translateURL := os.Getenv("TRANSLATE_API_URL")
	if translateURL == "" {
		log.Println("Warning: TRANSLATE_API_URL not set, translation lookups will fail")
	}

	DBHandler := &handlers.DBHandler{
		DB:         config.Database,
		Translator: translation.NewClient(translateURL),
	}
	db := config.Database
	mux := http.NewServeMux()

	// Users
	mux.HandleFunc("POST /api/users", DBHandler.AddUser)

	// Sets
	mux.HandleFunc("POST /api/sets/create/", middleware.CurrentUser(db, DBHandler.CreateFlashCardSet))
	mux.HandleFunc("GET /api/sets/get/{$}", middleware.CurrentUser(db, DBHandler.GetUserFlashcardSets))
	mux.HandleFunc("GET /api/sets/{setID}", middleware.OptionalUser(db, DBHandler.GetSetByID))
	mux.HandleFunc("DELETE /api/sets/{setID}", middleware.CurrentUser(db, DBHandler.DeleteSetByID))

	// Categories
	mux.HandleFunc("GET /api/categories", DBHandler.GetCategories)
	mux.HandleFunc("DELETE /api/categories/{categoryID}", middleware.CurrentUser(db, DBHandler.DeleteCategory))

	// Flashcards
	mux.HandleFunc("POST /api/flashcard/create/", middleware.CurrentUser(db, DBHandler.CreateFlashCard))
	mux.HandleFunc("GET /api/sets/{setID}/flashcards", middleware.OptionalUser(db, DBHandler.GetFlashcardsForSet))
	mux.HandleFunc("PUT /api/sets/{setID}/flashcards/{flashcardID}", middleware.CurrentUser(db, DBHandler.UpdateFlashCardByID))
	mux.HandleFunc("DELETE /api/sets/{setID}/flashcards/{flashcardID}", middleware.CurrentUser(db, DBHandler.DeleteFlashCardByID))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	// Server configuration

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	log.Println("Listening on", serverAddr)
	http.ListenAndServe(serverAddr, corsHandler)
}
