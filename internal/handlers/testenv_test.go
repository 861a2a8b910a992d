package handlers

import (
	"testing"
	"time"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/config"
	"github.com/campushq/campus-events-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires an in-memory database with a logged-in admin session, the
// common starting point of the handler tests.
type testEnv struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
	admin       models.AdminUser
	adminAuth   auth.AuthInput
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.College{}, &models.Student{}, &models.Event{},
		&models.EventRegistration{}, &models.Attendance{}, &models.Feedback{},
		&models.AdminUser{}, &models.APIKey{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db)

	admin := models.AdminUser{Username: "registrar", Role: models.AdminRoleAdmin, Active: true}
	if err := admin.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	token, err := authHandler.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	return &testEnv{
		db:          db,
		authHandler: authHandler,
		admin:       admin,
		adminAuth:   auth.AuthInput{Cookie: auth.CookieName + "=" + token},
	}
}

func (e *testEnv) createCollege(t *testing.T, code string) models.College {
	t.Helper()
	college := models.College{Code: code, Name: code + " Institute"}
	if err := e.db.Create(&college).Error; err != nil {
		t.Fatalf("failed to create college: %v", err)
	}
	return college
}

func (e *testEnv) createStudent(t *testing.T, college models.College, studentID string) models.Student {
	t.Helper()
	student := models.Student{
		StudentID: studentID,
		CollegeID: college.ID,
		FirstName: "Test",
		LastName:  studentID,
		Email:     studentID + "@example.edu",
	}
	if err := e.db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return student
}

func (e *testEnv) createEvent(t *testing.T, college models.College, maxParticipants *int) models.Event {
	t.Helper()
	event := models.Event{
		CollegeID:       college.ID,
		Title:           "Test Workshop",
		EventType:       "workshop",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(28 * time.Hour),
		MaxParticipants: maxParticipants,
	}
	if err := e.db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}
