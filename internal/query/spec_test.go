package query

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type course struct {
	gorm.Model
	Title      string
	Department string
	Seats      int
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&course{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	seed := []course{
		{Title: "Distributed Systems", Department: "CS", Seats: 40},
		{Title: "Databases", Department: "CS", Seats: 60},
		{Title: "Thermodynamics", Department: "ME", Seats: 30},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return db
}

func TestApplyFilters(t *testing.T) {
	db := testDB(t)

	spec := ListSpec{Filters: []Filter{{Column: "department", Value: "CS"}}}
	var got []course
	if err := spec.Apply(db.Model(&course{})).Find(&got).Error; err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 CS courses, got %d", len(got))
	}
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	db := testDB(t)

	spec := ListSpec{SearchTerm: "DATA", SearchColumns: []string{"title"}}
	var got []course
	if err := spec.Apply(db.Model(&course{})).Find(&got).Error; err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Databases" {
		t.Errorf("expected Databases, got %+v", got)
	}
}

func TestApplyOrderAndPagination(t *testing.T) {
	db := testDB(t)

	spec := ListSpec{OrderBy: "seats", Descending: true, Limit: 2, Offset: 1}
	var got []course
	if err := spec.Apply(db.Model(&course{})).Find(&got).Error; err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Seats != 40 || got[1].Seats != 30 {
		t.Errorf("expected seats 40,30; got %d,%d", got[0].Seats, got[1].Seats)
	}
}

func TestOrderAllowList(t *testing.T) {
	allowed := map[string]string{"title": "title", "seats": "seats"}

	column, desc := Order("seats", allowed, "title", false)
	if column != "seats" || desc {
		t.Errorf("expected seats asc, got %s desc=%v", column, desc)
	}

	column, desc = Order("-title", allowed, "title", false)
	if column != "title" || !desc {
		t.Errorf("expected title desc, got %s desc=%v", column, desc)
	}

	// Unknown keys fall back instead of reaching the database.
	column, desc = Order("drop table", allowed, "title", true)
	if column != "title" || !desc {
		t.Errorf("expected fallback title desc, got %s desc=%v", column, desc)
	}
}
