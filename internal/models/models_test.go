package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&College{}, &Student{}, &Event{}, &EventRegistration{}, &Attendance{}, &Feedback{}, &AdminUser{}, &APIKey{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createCollege(t *testing.T, db *gorm.DB, code string) College {
	t.Helper()
	college := College{Code: code, Name: code + " Institute"}
	if err := db.Create(&college).Error; err != nil {
		t.Fatalf("failed to create college: %v", err)
	}
	return college
}

func createStudent(t *testing.T, db *gorm.DB, college College, studentID string) Student {
	t.Helper()
	student := Student{
		StudentID: studentID,
		CollegeID: college.ID,
		FirstName: "Test",
		LastName:  studentID,
		Email:     studentID + "@example.edu",
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return student
}

func TestEventCodeGeneration(t *testing.T) {
	db := testDB(t)
	college := createCollege(t, db, "TECH")

	start := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	event := Event{
		CollegeID: college.ID,
		Title:     "Annual Conference",
		EventType: "conference",
		StartDate: start,
		EndDate:   start.Add(8 * time.Hour),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	if event.EventCode != "TECH-CONF-20250315-001" {
		t.Errorf("expected code TECH-CONF-20250315-001, got %s", event.EventCode)
	}

	// Same college, type and day increments the sequence.
	second := Event{
		CollegeID: college.ID,
		Title:     "Afternoon Conference",
		EventType: "conference",
		StartDate: start.Add(4 * time.Hour),
		EndDate:   start.Add(10 * time.Hour),
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("failed to create second event: %v", err)
	}
	if second.EventCode != "TECH-CONF-20250315-002" {
		t.Errorf("expected code TECH-CONF-20250315-002, got %s", second.EventCode)
	}

	// A different type starts its own sequence.
	hack := Event{
		CollegeID: college.ID,
		Title:     "Spring Hackathon",
		EventType: "hackathon",
		StartDate: start,
		EndDate:   start.Add(24 * time.Hour),
	}
	if err := db.Create(&hack).Error; err != nil {
		t.Fatalf("failed to create hackathon: %v", err)
	}
	if hack.EventCode != "TECH-HACK-20250315-001" {
		t.Errorf("expected code TECH-HACK-20250315-001, got %s", hack.EventCode)
	}
}

func TestEventCodePreserved(t *testing.T) {
	db := testDB(t)
	college := createCollege(t, db, "ARTS")

	event := Event{
		CollegeID: college.ID,
		EventCode: "CUSTOM-CODE-001",
		Title:     "Custom",
		EventType: "workshop",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(26 * time.Hour),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	if event.EventCode != "CUSTOM-CODE-001" {
		t.Errorf("expected preset code to survive, got %s", event.EventCode)
	}
}

func TestRegistrationOpen(t *testing.T) {
	now := time.Now()
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	event := Event{Status: EventStatusActive, StartDate: future}
	if !event.RegistrationOpen(now) {
		t.Error("expected registration open for active future event")
	}

	event.Status = EventStatusCancelled
	if event.RegistrationOpen(now) {
		t.Error("expected registration closed for cancelled event")
	}

	event.Status = EventStatusActive
	event.RegistrationStartDate = &future
	if event.RegistrationOpen(now) {
		t.Error("expected registration closed before registration start date")
	}

	event.RegistrationStartDate = &past
	if !event.RegistrationOpen(now) {
		t.Error("expected registration open after registration start date")
	}

	event.RegistrationDeadline = &past
	if event.RegistrationOpen(now) {
		t.Error("expected registration closed after deadline")
	}

	deadline := now.Add(time.Hour)
	event.RegistrationDeadline = &deadline
	if !event.RegistrationOpen(now) {
		t.Error("expected registration open before deadline")
	}

	// No deadline: the window closes at the event start.
	event.RegistrationDeadline = nil
	event.StartDate = past
	if event.RegistrationOpen(now) {
		t.Error("expected registration closed after event start")
	}
}

func TestWaitlistDemotion(t *testing.T) {
	db := testDB(t)
	college := createCollege(t, db, "ENG")
	alice := createStudent(t, db, college, "ENG001")
	bob := createStudent(t, db, college, "ENG002")

	capacity := 1
	event := Event{
		CollegeID:       college.ID,
		Title:           "Small Workshop",
		EventType:       "workshop",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(26 * time.Hour),
		MaxParticipants: &capacity,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	first := EventRegistration{EventID: event.ID, StudentID: alice.ID}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("failed to create first registration: %v", err)
	}
	if first.Status != RegistrationStatusRegistered {
		t.Errorf("expected first registration registered, got %s", first.Status)
	}

	second := EventRegistration{EventID: event.ID, StudentID: bob.ID}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("failed to create second registration: %v", err)
	}
	if second.Status != RegistrationStatusWaitlisted {
		t.Errorf("expected second registration waitlisted, got %s", second.Status)
	}

	// Cancelled rows never count toward capacity.
	count, err := event.RegisteredCount(db)
	if err != nil {
		t.Fatalf("RegisteredCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 registered, got %d", count)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	db := testDB(t)
	college := createCollege(t, db, "SCI")
	student := createStudent(t, db, college, "SCI001")

	event := Event{
		CollegeID: college.ID,
		Title:     "Seminar",
		EventType: "seminar",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(26 * time.Hour),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	if err := db.Create(&EventRegistration{EventID: event.ID, StudentID: student.ID}).Error; err != nil {
		t.Fatalf("failed to create registration: %v", err)
	}
	if err := db.Create(&EventRegistration{EventID: event.ID, StudentID: student.ID}).Error; err == nil {
		t.Error("expected unique index violation on duplicate registration")
	}
}

func TestFeedbackRatingValidation(t *testing.T) {
	db := testDB(t)
	college := createCollege(t, db, "MED")
	student := createStudent(t, db, college, "MED001")
	event := Event{
		CollegeID: college.ID,
		Title:     "Tech Talk",
		EventType: "tech_talk",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(26 * time.Hour),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	for _, rating := range []int{0, 6, -1} {
		feedback := Feedback{EventID: event.ID, StudentID: student.ID, Rating: rating}
		if err := db.Create(&feedback).Error; err == nil {
			t.Errorf("expected rating %d to be rejected", rating)
		}
	}

	feedback := Feedback{EventID: event.ID, StudentID: student.ID, Rating: 4, Comments: "Good talk"}
	if err := db.Create(&feedback).Error; err != nil {
		t.Fatalf("expected rating 4 to be accepted: %v", err)
	}

	// Updates go through the same validation.
	feedback.Rating = 6
	if err := db.Save(&feedback).Error; err == nil {
		t.Error("expected rating 6 to be rejected on update")
	}
}

func TestAttendanceCheckInAndDuration(t *testing.T) {
	db := testDB(t)
	college := createCollege(t, db, "LAW")
	student := createStudent(t, db, college, "LAW001")
	event := Event{
		CollegeID: college.ID,
		Title:     "Moot Court",
		EventType: "competition",
		StartDate: time.Now().Add(24 * time.Hour),
		EndDate:   time.Now().Add(30 * time.Hour),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	attendance := Attendance{EventID: event.ID, StudentID: student.ID}
	if err := db.Create(&attendance).Error; err != nil {
		t.Fatalf("failed to create attendance: %v", err)
	}
	if attendance.CheckInTime.IsZero() {
		t.Error("expected check-in time to be stamped")
	}
	if attendance.Status != AttendanceStatusPresent {
		t.Errorf("expected default status present, got %s", attendance.Status)
	}
	if attendance.Duration() != nil {
		t.Error("expected nil duration before check-out")
	}

	checkOut := attendance.CheckInTime.Add(90 * time.Minute)
	attendance.CheckOutTime = &checkOut
	d := attendance.Duration()
	if d == nil || *d != 90*time.Minute {
		t.Errorf("expected 90m duration, got %v", d)
	}
}

func TestAdminPassword(t *testing.T) {
	admin := AdminUser{Username: "registrar"}
	if err := admin.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if admin.PasswordHash == "s3cret" {
		t.Error("expected password to be hashed")
	}
	if !admin.CheckPassword("s3cret") {
		t.Error("expected correct password to verify")
	}
	if admin.CheckPassword("wrong") {
		t.Error("expected wrong password to fail")
	}
}
