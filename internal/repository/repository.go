package repository

import (
	"github.com/vastsea/vastsea-api/internal/models"
)

// ProblemFilter holds the conjunctive filters for listing problems
type ProblemFilter struct {
	// TextQuery matches title or description, case-insensitive substring
	TextQuery string
	// Language keeps problems whose snippet for that language is non-empty
	Language *models.Language
	// Tag keeps problems whose tag list contains exactly this tag
	Tag string
	// AuthorID keeps problems created by this user
	AuthorID *uint64

	Page     int
	PageSize int
}

// AuthorCount is one row of the per-author problem count aggregation
type AuthorCount struct {
	AuthorID uint64
	Count    int64
}

// ProblemRepository defines the interface for problem data access
type ProblemRepository interface {
	// Create creates a new problem
	Create(problem *models.Problem) error

	// FindByID finds a problem by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Problem, error)

	// List retrieves problems matching the filter, newest first
	List(filter ProblemFilter) ([]models.Problem, int64, error)

	// Update updates a problem
	Update(problem *models.Problem) error

	// Delete hard deletes a problem
	Delete(id uint64) error

	// CountByAuthor returns per-author problem counts
	CountByAuthor() ([]AuthorCount, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// List returns all users
	List() ([]models.User, error)
}
