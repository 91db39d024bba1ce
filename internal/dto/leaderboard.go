package dto

import "time"

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	UserID       uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProblemCount int64     `json:"problem_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// LeaderboardResponse wraps the ranked entries
type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
