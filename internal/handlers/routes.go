package handlers

import (
	"net/http"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Colleges      *CollegeHandler
	Students      *StudentHandler
	Events        *EventHandler
	Registrations *RegistrationHandler
	Attendance    *AttendanceHandler
	Feedback      *FeedbackHandler
	Reports       *ReportsHandler
	APIKeys       *APIKeyHandler
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
}

func RegisterRoutes(r *chi.Mux, authHandler *auth.AuthHandler, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Campus Events API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-Key",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Auth routes
	huma.Post(api, "/api/auth/admin/login", authHandler.HandleAdminLogin)
	huma.Post(api, "/api/auth/student/login", authHandler.HandleStudentLogin)
	huma.Get(api, "/api/auth/me", authHandler.HandleMe, secured)

	// Colleges
	huma.Get(api, "/api/colleges", h.Colleges.HandleList, secured)
	huma.Post(api, "/api/colleges", h.Colleges.HandleCreate, created, secured)
	huma.Get(api, "/api/colleges/{id}", h.Colleges.HandleGet)
	huma.Put(api, "/api/colleges/{id}", h.Colleges.HandleUpdate, secured)
	huma.Delete(api, "/api/colleges/{id}", h.Colleges.HandleDelete, secured)
	huma.Get(api, "/api/reports/colleges/{id}/summary", h.Reports.HandleCollegeSummary, secured)

	// Students
	huma.Get(api, "/api/students", h.Students.HandleList, secured)
	huma.Post(api, "/api/students", h.Students.HandleCreate, created, secured)
	huma.Get(api, "/api/students/{id}", h.Students.HandleGet, secured)
	huma.Put(api, "/api/students/{id}", h.Students.HandleUpdate, secured)
	huma.Delete(api, "/api/students/{id}", h.Students.HandleDelete, secured)
	huma.Get(api, "/api/students/{id}/profile", h.Students.HandleProfile, secured)
	huma.Get(api, "/api/students/{id}/events", h.Students.HandleEvents, secured)
	huma.Get(api, "/api/students/{id}/attendance", h.Students.HandleAttendance, secured)
	huma.Get(api, "/api/students/{id}/feedback", h.Students.HandleFeedback, secured)

	// Events
	huma.Get(api, "/api/events", h.Events.HandleList)
	huma.Post(api, "/api/events", h.Events.HandleCreate, created, secured)
	huma.Get(api, "/api/events/{id}", h.Events.HandleGet)
	huma.Put(api, "/api/events/{id}", h.Events.HandleUpdate, secured)
	huma.Delete(api, "/api/events/{id}", h.Events.HandleDelete, secured)
	huma.Post(api, "/api/events/{id}/cancel", h.Events.HandleCancel, secured)
	huma.Post(api, "/api/events/{id}/complete", h.Events.HandleComplete, secured)
	huma.Get(api, "/api/events/{id}/registrations", h.Events.HandleRegistrations, secured)
	huma.Get(api, "/api/events/{id}/attendance", h.Events.HandleAttendance, secured)
	huma.Get(api, "/api/events/{id}/feedback", h.Events.HandleFeedback, secured)

	// Event flows
	huma.Post(api, "/api/events/{id}/register", h.Events.HandleRegister, created)
	huma.Post(api, "/api/events/{id}/checkin", h.Events.HandleCheckIn, created, secured)
	huma.Post(api, "/api/events/{id}/checkout", h.Events.HandleCheckOut, secured)
	huma.Post(api, "/api/events/{id}/feedback/submit", h.Events.HandleSubmitFeedback, created)

	// Registrations
	huma.Get(api, "/api/registrations", h.Registrations.HandleList, secured)
	huma.Post(api, "/api/registrations", h.Registrations.HandleCreate, created, secured)
	huma.Get(api, "/api/registrations/{id}", h.Registrations.HandleGet, secured)
	huma.Put(api, "/api/registrations/{id}", h.Registrations.HandleUpdate, secured)
	huma.Delete(api, "/api/registrations/{id}", h.Registrations.HandleDelete, secured)

	// Attendance
	huma.Get(api, "/api/attendance", h.Attendance.HandleList, secured)
	huma.Get(api, "/api/attendance/{id}", h.Attendance.HandleGet, secured)
	huma.Put(api, "/api/attendance/{id}", h.Attendance.HandleUpdate, secured)
	huma.Delete(api, "/api/attendance/{id}", h.Attendance.HandleDelete, secured)

	// Feedback
	huma.Get(api, "/api/feedback", h.Feedback.HandleList, secured)
	huma.Get(api, "/api/feedback/{id}", h.Feedback.HandleGet, secured)
	huma.Put(api, "/api/feedback/{id}", h.Feedback.HandleUpdate, secured)
	huma.Delete(api, "/api/feedback/{id}", h.Feedback.HandleDelete, secured)

	// Reports
	huma.Get(api, "/api/reports/events/popularity", h.Reports.HandlePopularity)
	huma.Get(api, "/api/reports/students/participation", h.Reports.HandleParticipation, secured)
	huma.Get(api, "/api/reports/attendance/summary", h.Reports.HandleAttendanceSummary, secured)
	huma.Get(api, "/api/reports/feedback/scores", h.Reports.HandleFeedbackScores, secured)
	huma.Get(api, "/api/reports/dashboard/summary", h.Reports.HandleDashboard)

	// API keys
	huma.Get(api, "/api/auth/keys", h.APIKeys.HandleList, secured)
	huma.Post(api, "/api/auth/keys", h.APIKeys.HandleCreate, created, secured)
	huma.Delete(api, "/api/auth/keys/{id}", h.APIKeys.HandleDelete, secured)
}
