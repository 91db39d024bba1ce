package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/vastsea/vastsea-api/internal/cache"
	"github.com/vastsea/vastsea-api/internal/constants"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProblemNotFound     = errors.New("problem not found")
	ErrNotProblemAuthor    = errors.New("only the author can modify this problem")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleLength         = errors.New("title must be between 3 and 100 characters")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooShort = errors.New("description must be at least 10 characters")
	ErrInvalidLanguage     = errors.New("unsupported language key")
)

// ProblemService handles problem queries and author-gated mutations
type ProblemService struct {
	problemRepo repository.ProblemRepository
	cache       cache.Cache
}

// NewProblemService creates a new ProblemService. The cache is optional and
// only used to invalidate the leaderboard on count-changing mutations.
func NewProblemService(problemRepo repository.ProblemRepository, c cache.Cache) *ProblemService {
	return &ProblemService{
		problemRepo: problemRepo,
		cache:       c,
	}
}

// ListProblemsInput represents filters for listing problems.
// All supplied filters must hold (conjunctive).
type ListProblemsInput struct {
	TextQuery string
	Language  string
	Tag       string
	Page      int
	PageSize  int
}

// CreateProblemInput represents input for creating a problem
type CreateProblemInput struct {
	Title       string
	Description string
	Codes       models.CodeSet
	Tags        []string
}

// UpdateProblemInput is the allow-listed patch for updating a problem.
// Only fields that are present are applied.
type UpdateProblemInput struct {
	Title       *string
	Description *string
	Codes       *models.CodeSet
	Tags        *[]string
}

// ListProblems returns problems matching the filters, newest first
func (s *ProblemService) ListProblems(input ListProblemsInput) ([]models.Problem, int64, error) {
	filter := repository.ProblemFilter{
		TextQuery: strings.TrimSpace(input.TextQuery),
		Tag:       strings.TrimSpace(input.Tag),
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	if input.Language != "" {
		lang := models.Language(input.Language)
		if !lang.Valid() {
			return nil, 0, ErrInvalidLanguage
		}
		filter.Language = &lang
	}

	problems, total, err := s.problemRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list problems: %w", err)
	}

	return problems, total, nil
}

// ListByAuthor returns the problems created by one user, newest first
func (s *ProblemService) ListByAuthor(authorID uint64) ([]models.Problem, error) {
	filter := repository.ProblemFilter{
		AuthorID: &authorID,
	}

	problems, _, err := s.problemRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems by author: %w", err)
	}

	return problems, nil
}

// GetProblem returns a problem with its author joined
func (s *ProblemService) GetProblem(id uint64) (*models.Problem, error) {
	problem, err := s.problemRepo.FindByID(id, "Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}

	return problem, nil
}

// CreateProblem validates the input and persists a new problem owned by authorID
func (s *ProblemService) CreateProblem(authorID uint64, input CreateProblemInput) (*models.Problem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	problem := &models.Problem{
		Title:       title,
		Description: description,
		Codes:       input.Codes,
		Tags:        models.StringList(input.Tags),
		AuthorID:    authorID,
	}

	if err := s.problemRepo.Create(problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	s.invalidateLeaderboard()

	return s.problemRepo.FindByID(problem.ID, "Author")
}

// UpdateProblem applies the patch to an existing problem if callerID is its author
func (s *ProblemService) UpdateProblem(callerID, id uint64, input UpdateProblemInput) (*models.Problem, error) {
	problem, err := s.problemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to find problem: %w", err)
	}

	if problem.AuthorID != callerID {
		return nil, ErrNotProblemAuthor
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		problem.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		problem.Description = description
	}
	if input.Codes != nil {
		problem.Codes = *input.Codes
	}
	if input.Tags != nil {
		problem.Tags = models.StringList(*input.Tags)
	}

	if err := s.problemRepo.Update(problem); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}

	return s.problemRepo.FindByID(problem.ID, "Author")
}

// DeleteProblem deletes a problem if callerID is its author
func (s *ProblemService) DeleteProblem(callerID, id uint64) error {
	problem, err := s.problemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProblemNotFound
		}
		return fmt.Errorf("failed to find problem: %w", err)
	}

	if problem.AuthorID != callerID {
		return ErrNotProblemAuthor
	}

	if err := s.problemRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}

	s.invalidateLeaderboard()

	return nil
}

func (s *ProblemService) invalidateLeaderboard() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), leaderboardCacheKey); err != nil {
		log.Printf("Failed to invalidate leaderboard cache: %v", err)
	}
}

func validateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < constants.MinTitleLength || length > constants.MaxTitleLength {
		return ErrTitleLength
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) < constants.MinDescriptionLength {
		return ErrDescriptionTooShort
	}
	return nil
}
