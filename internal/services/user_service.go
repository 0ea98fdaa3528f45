package services

import (
	"context"
	"database/sql"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jvilloslada/taskdeck-be/internal/apperr"
	"github.com/jvilloslada/taskdeck-be/internal/models"
)

// invalidCredentials is the single message returned for every failed login,
// whether the email is unknown or the password is wrong.
const invalidCredentials = "Invalid email or password"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, email, password, name string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	ResolveUser(ctx context.Context, id string) (*models.User, error)
}

// UserService provides registration, authentication, and identity lookups.
type UserService struct {
	db         *sql.DB
	bcryptCost int
	events     EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, bcryptCost int, events EventServiceProvider) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost, events: events}
}

// NormalizeEmail trims surrounding whitespace and lowercases an email so
// lookups and the uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, hashes the password, and persists a new user.
func (s *UserService) Register(ctx context.Context, email, password, name string) (models.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return models.User{}, apperr.Validation("Invalid email address")
	}
	if len(password) < 6 {
		return models.User{}, apperr.Validation("Password must be at least 6 characters")
	}
	if name == "" {
		return models.User{}, apperr.Validation("Name is required")
	}

	var existingID string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	switch {
	case err == nil:
		return models.User{}, apperr.Conflict("User with this email already exists")
	case err != sql.ErrNoRows:
		return models.User{}, apperr.Storage(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, apperr.Storage(err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, email, name, password_hash, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// Two concurrent registrations can both pass the lookup above; the
		// unique index decides the loser.
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.User{}, apperr.Conflict("User with this email already exists")
		}
		return models.User{}, apperr.Storage(err)
	}

	if s.events != nil {
		s.events.Record(ctx, user.ID, nil, "user.registered", "info", "Account created for "+user.Email)
	}

	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = NormalizeEmail(email)

	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.Auth(invalidCredentials)
		}
		return models.User{}, apperr.Storage(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, apperr.Auth(invalidCredentials)
	}

	user.PasswordHash = ""
	return user, nil
}

// ResolveUser looks up a user by id. A missing user yields (nil, nil); errors
// are storage failures only.
func (s *UserService) ResolveUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, created_at, updated_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperr.Storage(err)
	}
	return &user, nil
}
