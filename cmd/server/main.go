package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/config"
	"github.com/campushq/campus-events-api/internal/database"
	"github.com/campushq/campus-events-api/internal/handlers"
	"github.com/campushq/campus-events-api/internal/notifier"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Handlers
	var announcer notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordAnnounceChannelID)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	} else {
		announcer = discordNotifier
	}

	authHandler := auth.NewAuthHandler(cfg, db)
	h := handlers.Handlers{
		Colleges:      handlers.NewCollegeHandler(db, authHandler),
		Students:      handlers.NewStudentHandler(db, authHandler),
		Events:        handlers.NewEventHandler(db, announcer, authHandler),
		Registrations: handlers.NewRegistrationHandler(db, authHandler),
		Attendance:    handlers.NewAttendanceHandler(db, authHandler),
		Feedback:      handlers.NewFeedbackHandler(db, authHandler),
		Reports:       handlers.NewReportsHandler(db, authHandler),
		APIKeys:       handlers.NewAPIKeyHandler(db, authHandler),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
