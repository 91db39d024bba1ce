package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vastsea/vastsea-api/internal/dto"
	apierrors "github.com/vastsea/vastsea-api/internal/errors"
	"github.com/vastsea/vastsea-api/internal/services"
)

// LeaderboardHandler serves the ranked user leaderboard.
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard returns users ranked by authored-problem count.
// Public; no session required.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.BuildLeaderboard(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch leaderboard")
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardResponse{
		Leaderboard: entries,
	})
}
