package dto

import (
	"time"

	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/utils"
)

// ProblemDTO represents a problem in API responses
type ProblemDTO struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Codes       models.CodeSet `json:"codes"`
	Tags        []string       `json:"tags"`
	Author      *AuthorDTO     `json:"author,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ProblemListResponse represents a paginated list of problems
type ProblemListResponse struct {
	Problems   []ProblemDTO             `json:"problems"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProblemDTO converts a Problem model to ProblemDTO
func ToProblemDTO(problem models.Problem) ProblemDTO {
	dto := ProblemDTO{
		ID:          problem.ID,
		Title:       problem.Title,
		Description: problem.Description,
		Codes:       problem.Codes,
		Tags:        problem.Tags,
		CreatedAt:   problem.CreatedAt,
		UpdatedAt:   problem.UpdatedAt,
	}
	if dto.Tags == nil {
		dto.Tags = []string{}
	}

	// Include author identity if preloaded
	if problem.Author.ID != 0 {
		author := ToAuthorDTO(problem.Author)
		dto.Author = &author
	}

	return dto
}

// ToProblemDTOs converts a slice of problems
func ToProblemDTOs(problems []models.Problem) []ProblemDTO {
	dtos := make([]ProblemDTO, len(problems))
	for i, problem := range problems {
		dtos[i] = ToProblemDTO(problem)
	}
	return dtos
}

// ToProblemListResponse builds the paginated list envelope
func ToProblemListResponse(problems []models.Problem, params utils.PaginationParams, total int64) ProblemListResponse {
	return ProblemListResponse{
		Problems: ToProblemDTOs(problems),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
