package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/jobtrack/internal/apperror"
	"github.com/sakif/jobtrack/internal/model"
)

// createTestApplication creates an application for the given user and fails
// the test if it errors.
func createTestApplication(t *testing.T, db *DB, userID, company, appliedDate string) *model.Application {
	t.Helper()
	app := &model.Application{
		UserID:      userID,
		Company:     company,
		Role:        "Backend Engineer",
		Status:      model.StatusApplied,
		AppliedDate: appliedDate,
		Source:      "LinkedIn",
	}
	if err := db.Create(context.Background(), app); err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestApplicationCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Owner", "owner@example.com")

	app := &model.Application{
		UserID:      user.ID,
		Company:     "Acme Corp",
		Role:        "Go Developer",
		Status:      model.StatusInterview,
		AppliedDate: "2024-03-10",
		Source:      "Referral",
		Notes:       "phone screen scheduled",
	}

	err := db.Create(context.Background(), app)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if app.ID == "" {
		t.Error("Create() did not set app.ID")
	}
	if app.CreatedAt.IsZero() {
		t.Error("Create() did not set app.CreatedAt")
	}
	if !app.UpdatedAt.Equal(app.CreatedAt) {
		t.Error("Create() should set UpdatedAt equal to CreatedAt")
	}

	// Round-trip through GetByUser to confirm everything was stored
	found, err := db.GetByUser(context.Background(), user.ID, app.ID)
	if err != nil {
		t.Fatalf("GetByUser() after Create: %v", err)
	}
	if found.Company != "Acme Corp" {
		t.Errorf("Company = %q, want %q", found.Company, "Acme Corp")
	}
	if found.Status != model.StatusInterview {
		t.Errorf("Status = %q, want %q", found.Status, model.StatusInterview)
	}
	if found.AppliedDate != "2024-03-10" {
		t.Errorf("AppliedDate = %q, want %q", found.AppliedDate, "2024-03-10")
	}
	if found.Notes != "phone screen scheduled" {
		t.Errorf("Notes = %q, want %q", found.Notes, "phone screen scheduled")
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestApplicationListByUser_OrderedByAppliedDateDesc(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Lister", "lister@example.com")

	// Inserted out of order on purpose
	createTestApplication(t, db, user.ID, "Oldest", "2024-01-05")
	createTestApplication(t, db, user.ID, "Newest", "2024-03-20")
	createTestApplication(t, db, user.ID, "Middle", "2024-02-14")

	apps, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(apps) != 3 {
		t.Fatalf("ListByUser() returned %d applications, want 3", len(apps))
	}
	wantOrder := []string{"Newest", "Middle", "Oldest"}
	for i, want := range wantOrder {
		if apps[i].Company != want {
			t.Errorf("apps[%d].Company = %q, want %q", i, apps[i].Company, want)
		}
	}
}

func TestApplicationListByUser_OnlyOwnRecords(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	createTestApplication(t, db, alice.ID, "Alice Corp", "2024-01-10")
	createTestApplication(t, db, bob.ID, "Bob Inc", "2024-01-11")
	createTestApplication(t, db, bob.ID, "Bob LLC", "2024-01-12")

	apps, err := db.ListByUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("ListByUser() returned %d applications, want 1", len(apps))
	}
	if apps[0].Company != "Alice Corp" {
		t.Errorf("Company = %q, want %q", apps[0].Company, "Alice Corp")
	}
}

func TestApplicationListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Empty", "empty@example.com")

	apps, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	// Empty slice, not nil — serializes as [] instead of null
	if apps == nil {
		t.Error("ListByUser() returned nil, want empty slice")
	}
	if len(apps) != 0 {
		t.Errorf("ListByUser() returned %d applications, want 0", len(apps))
	}
}

// =========================================================================
// OWNERSHIP TESTS
// =========================================================================

func TestApplicationGetByUser_OtherUsersRecordIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	app := createTestApplication(t, db, alice.ID, "Secret Startup", "2024-02-02")

	// Bob asks for Alice's record by its real ID — must look like it
	// doesn't exist, not like it's forbidden.
	_, err := db.GetByUser(context.Background(), bob.ID, app.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUser() error = %v, want ErrNotFound", err)
	}
}

func TestApplicationUpdate_OtherUsersRecordIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	app := createTestApplication(t, db, alice.ID, "Secret Startup", "2024-02-02")

	tampered := *app
	tampered.Company = "Hijacked"
	err := db.Update(context.Background(), bob.ID, &tampered)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}

	// Alice's record must be untouched
	found, err := db.GetByUser(context.Background(), alice.ID, app.ID)
	if err != nil {
		t.Fatalf("GetByUser() error = %v", err)
	}
	if found.Company != "Secret Startup" {
		t.Errorf("Company = %q, want %q (record was modified across users)", found.Company, "Secret Startup")
	}
}

func TestApplicationDelete_OtherUsersRecordIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	app := createTestApplication(t, db, alice.ID, "Secret Startup", "2024-02-02")

	err := db.Delete(context.Background(), bob.ID, app.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}

	// Record still exists for Alice
	if _, err := db.GetByUser(context.Background(), alice.ID, app.ID); err != nil {
		t.Errorf("GetByUser() after failed cross-user delete: %v", err)
	}
}

// =========================================================================
// UPDATE / DELETE TESTS
// =========================================================================

func TestApplicationUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Updater", "updater@example.com")
	app := createTestApplication(t, db, user.ID, "Before Corp", "2024-01-01")

	app.Company = "After Corp"
	app.Status = model.StatusOffer
	app.Notes = "got the offer!"
	if err := db.Update(context.Background(), user.ID, app); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.GetByUser(context.Background(), user.ID, app.ID)
	if err != nil {
		t.Fatalf("GetByUser() after Update: %v", err)
	}
	if found.Company != "After Corp" {
		t.Errorf("Company = %q, want %q", found.Company, "After Corp")
	}
	if found.Status != model.StatusOffer {
		t.Errorf("Status = %q, want %q", found.Status, model.StatusOffer)
	}
	if found.Notes != "got the offer!" {
		t.Errorf("Notes = %q, want %q", found.Notes, "got the offer!")
	}
	// CreatedAt is immutable; only UpdatedAt moves
	if !found.CreatedAt.Equal(app.CreatedAt) {
		t.Errorf("Update() changed CreatedAt: got %v, want %v", found.CreatedAt, app.CreatedAt)
	}
}

func TestApplicationUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Updater", "updater@example.com")

	ghost := &model.Application{
		ID:          "nonexistent-id",
		Company:     "Ghost Corp",
		Role:        "Ghost",
		Status:      model.StatusApplied,
		AppliedDate: "2024-01-01",
		Source:      "Nowhere",
	}
	err := db.Update(context.Background(), user.ID, ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestApplicationDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Deleter", "deleter@example.com")
	app := createTestApplication(t, db, user.ID, "Doomed Corp", "2024-01-01")

	if err := db.Delete(context.Background(), user.ID, app.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByUser(context.Background(), user.ID, app.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUser() after Delete: error = %v, want ErrNotFound", err)
	}
}

func TestApplicationDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Deleter", "deleter@example.com")

	err := db.Delete(context.Background(), user.ID, "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
