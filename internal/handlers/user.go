package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastsea/vastsea-api/internal/dto"
	apierrors "github.com/vastsea/vastsea-api/internal/errors"
	"github.com/vastsea/vastsea-api/internal/middleware"
	"github.com/vastsea/vastsea-api/internal/models"
	"github.com/vastsea/vastsea-api/internal/services"
)

// UserHandler serves the dashboard/profile surface for the session user.
type UserHandler struct {
	authService    *services.AuthService
	problemService *services.ProblemService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, problemService *services.ProblemService) *UserHandler {
	return &UserHandler{
		authService:    authService,
		problemService: problemService,
	}
}

// ListOwnProblems returns the problems created by the session user, newest first.
func (h *UserHandler) ListOwnProblems(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	problems, err := h.problemService.ListByAuthor(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch problems")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": dto.ToProblemDTOs(problems),
	})
}

// GetProfile returns the session user's account data together with their
// problems. A failed problems lookup degrades to an empty collection instead
// of failing the whole request.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	problems, err := h.problemService.ListByAuthor(userID)
	if err != nil {
		log.Printf("Failed to fetch problems for profile of user %d: %v", userID, err)
		problems = []models.Problem{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     dto.ToUserDTO(*user),
		"problems": dto.ToProblemDTOs(problems),
	})
}

// UpdateProfile updates the session user's name, email or password.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    dto.ToUserDTO(*user),
	})
}
