package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a registered user of the WordVault application.
// Besides authentication details it carries the practice streak state
// updated as a side effect of completed practice sessions.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Password        string     `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword  string     `json:"-"` // Never expose password hash in JSON
	StreakCount     int        `json:"streak_count"`
	LastPracticedAt *time.Time `json:"last_practiced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given email and password.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUser(email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !emailRegex.MatchString(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		// bcrypt truncates input beyond 72 bytes
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// RecordPractice folds a session completion timestamp into the user's
// practice streak: a completion on the same day as the last one is a no-op,
// a completion on the following day extends the streak, anything else
// starts a new streak of one.
func (u *User) RecordPractice(completedAt time.Time) {
	day := completedAt.UTC().Truncate(24 * time.Hour)

	if u.LastPracticedAt != nil {
		lastDay := u.LastPracticedAt.UTC().Truncate(24 * time.Hour)
		switch {
		case day.Equal(lastDay):
			return
		case day.Equal(lastDay.Add(24 * time.Hour)):
			u.StreakCount++
		default:
			u.StreakCount = 1
		}
	} else {
		u.StreakCount = 1
	}

	t := completedAt.UTC()
	u.LastPracticedAt = &t
	u.UpdatedAt = time.Now().UTC()
}
