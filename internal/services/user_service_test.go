package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jvilloslada/taskdeck-be/internal/apperr"
	"github.com/jvilloslada/taskdeck-be/internal/database"
)

// minCost keeps bcrypt cheap in tests.
const minCost = 4

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, minCost, NewEventService(db))
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada@Example.com ", "secret1", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}
	if user.PasswordHash != "" {
		t.Error("password hash must not leave the service")
	}

	got, err := svc.Authenticate(ctx, "ADA@example.COM", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated wrong user: %s", got.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, minCost, nil)
	ctx := context.Background()

	cases := []struct {
		name                  string
		email, password, uname string
	}{
		{"bad email", "not-an-email", "secret1", "Ada"},
		{"short password", "ada@example.com", "12345", "Ada"},
		{"empty name", "ada@example.com", "secret1", "  "},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Register(ctx, c.email, c.password, c.uname)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, minCost, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "secret1", "Ada"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Any case variant of the same address collides.
	_, err := svc.Register(ctx, "ADA@Example.com", "secret2", "Other Ada")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("want ConflictError, got %v", err)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, minCost, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "secret1", "Ada"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Authenticate(ctx, "ada@example.com", "wrong")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "secret1")

	if !apperr.IsKind(wrongPassword, apperr.KindAuth) || !apperr.IsKind(unknownEmail, apperr.KindAuth) {
		t.Fatalf("want AuthError for both, got %v and %v", wrongPassword, unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestResolveUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, minCost, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "secret1", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resolved, err := svc.ResolveUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved == nil || resolved.Email != "ada@example.com" {
		t.Errorf("unexpected resolution: %+v", resolved)
	}

	// Absence is a nil user, not an error.
	missing, err := svc.ResolveUser(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("resolve missing: %v", err)
	}
	if missing != nil {
		t.Errorf("want nil for unknown id, got %+v", missing)
	}
}
