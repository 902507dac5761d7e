package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Collection-specific validation errors
var (
	ErrEmptyCollectionID     = errors.New("collection ID cannot be empty")
	ErrEmptyCollectionUserID = errors.New("collection user ID cannot be empty")
	ErrEmptyCollectionName   = errors.New("collection name cannot be empty")
)

// Collection represents a named set of words owned by a user. Membership
// is tracked separately (a word may belong to several collections), and
// attaching a word already present is a no-op.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCollection creates a new Collection with the given owner and name.
// Returns an error if validation fails.
func NewCollection(userID uuid.UUID, name string) (*Collection, error) {
	collection := &Collection{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := collection.Validate(); err != nil {
		return nil, err
	}

	return collection, nil
}

// Validate checks if the Collection has valid data.
func (c *Collection) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCollectionID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyCollectionUserID
	}

	if c.Name == "" {
		return ErrEmptyCollectionName
	}

	return nil
}
