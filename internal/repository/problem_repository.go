package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vastsea/vastsea-api/internal/database"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/utils"
	"gorm.io/gorm"
)

// GormProblemRepository is a GORM implementation of ProblemRepository
type GormProblemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new ProblemRepository
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &GormProblemRepository{db: db}
}

// Create creates a new problem
func (r *GormProblemRepository) Create(problem *models.Problem) error {
	return r.db.Create(problem).Error
}

// FindByID finds a problem by ID with optional preloading
func (r *GormProblemRepository) FindByID(id uint64, preload ...string) (*models.Problem, error) {
	var problem models.Problem
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&problem, id).Error; err != nil {
		return nil, err
	}

	return &problem, nil
}

// List retrieves problems matching the filter, newest first
func (r *GormProblemRepository) List(filter ProblemFilter) ([]models.Problem, int64, error) {
	var problems []models.Problem

	query := r.db.Model(&models.Problem{})

	if filter.TextQuery != "" {
		pattern := "%" + strings.ToLower(filter.TextQuery) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.Language != nil {
		query = query.Where(fmt.Sprintf("%s <> ''", filter.Language.Column()))
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; the quoted encoding of the tag
		// matches exact elements only.
		encoded, err := json.Marshal(filter.Tag)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		query = query.Where("tags LIKE ?", "%"+string(encoded)+"%")
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC, id ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Author").Find(&problems).Error; err != nil {
		return nil, 0, err
	}

	return problems, total, nil
}

// Update updates a problem
func (r *GormProblemRepository) Update(problem *models.Problem) error {
	return r.db.Save(problem).Error
}

// Delete hard deletes a problem
func (r *GormProblemRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Problem{}, id).Error
}

// CountByAuthor returns per-author problem counts
func (r *GormProblemRepository) CountByAuthor() ([]AuthorCount, error) {
	var counts []AuthorCount
	err := r.db.Model(&models.Problem{}).
		Select("author_id, COUNT(*) AS count").
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
