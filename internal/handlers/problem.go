package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vastsea/vastsea-api/internal/dto"
	apierrors "github.com/vastsea/vastsea-api/internal/errors"
	"github.com/vastsea/vastsea-api/internal/middleware"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/services"
	"github.com/vastsea/vastsea-api/internal/utils"
)

// ProblemHandler coordinates problem-related HTTP handlers.
type ProblemHandler struct {
	problemService *services.ProblemService
}

// NewProblemHandler creates a new ProblemHandler.
func NewProblemHandler(problemService *services.ProblemService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
	}
}

// ListProblems returns problems matching the query/language/tag filters.
// Public; no session required.
func (h *ProblemHandler) ListProblems(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	problems, total, err := h.problemService.ListProblems(services.ListProblemsInput{
		TextQuery: c.Query("query"),
		Language:  c.Query("language"),
		Tag:       c.Query("tag"),
		Page:      params.Page,
		PageSize:  params.Limit,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidLanguage) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to fetch problems")
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemListResponse(problems, params, total))
}

// GetProblem returns a single problem by ID. Public; no session required.
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	problem, err := h.problemService.GetProblem(id)
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem))
}

// CreateProblem creates a new problem owned by the session user.
func (h *ProblemHandler) CreateProblem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProblemRequest struct {
		Title       string         `json:"title" binding:"required"`
		Description string         `json:"description" binding:"required"`
		Codes       models.CodeSet `json:"codes"`
		Tags        []string       `json:"tags"`
	}

	var req CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Title and description are required")
		return
	}

	problem, err := h.problemService.CreateProblem(userID, services.CreateProblemInput{
		Title:       req.Title,
		Description: req.Description,
		Codes:       req.Codes,
		Tags:        req.Tags,
	})
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProblemDTO(*problem))
}

// UpdateProblem applies a partial update to a problem owned by the session user.
func (h *ProblemHandler) UpdateProblem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	type UpdateProblemRequest struct {
		Title       *string         `json:"title"`
		Description *string         `json:"description"`
		Codes       *models.CodeSet `json:"codes"`
		Tags        *[]string       `json:"tags"`
	}

	var req UpdateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	problem, err := h.problemService.UpdateProblem(userID, id, services.UpdateProblemInput{
		Title:       req.Title,
		Description: req.Description,
		Codes:       req.Codes,
		Tags:        req.Tags,
	})
	if err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProblemDTO(*problem))
}

// DeleteProblem deletes a problem owned by the session user.
func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseProblemID(c)
	if !ok {
		return
	}

	if err := h.problemService.DeleteProblem(userID, id); err != nil {
		respondProblemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Problem deleted successfully",
	})
}

// parseProblemID rejects malformed ids before any store access
func parseProblemID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.InvalidID(c, "Invalid problem ID")
		return 0, false
	}
	return id, true
}

func respondProblemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProblemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProblemAuthor):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleLength),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrDescriptionTooShort),
		errors.Is(err, services.ErrInvalidLanguage):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
