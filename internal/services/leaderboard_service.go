package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/vastsea/vastsea-api/internal/cache"
	"github.com/vastsea/vastsea-api/internal/dto"
	"github.com/vastsea/vastsea-api/internal/repository"
)

const leaderboardCacheKey = "leaderboard:v1"

// LeaderboardService ranks users by the number of problems they authored
type LeaderboardService struct {
	userRepo    repository.UserRepository
	problemRepo repository.ProblemRepository
	cache       cache.Cache
	cacheTTL    time.Duration
}

// NewLeaderboardService creates a new LeaderboardService. The cache is optional;
// without one every call recomputes from the store.
func NewLeaderboardService(userRepo repository.UserRepository, problemRepo repository.ProblemRepository, c cache.Cache, cacheTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{
		userRepo:    userRepo,
		problemRepo: problemRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
	}
}

// BuildLeaderboard computes per-author problem counts, joins them onto the
// user list and returns the ranked entries. Users with no problems appear
// with a zero count; counts whose author no longer exists are dropped.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	if s.cache != nil {
		var cached []dto.LeaderboardEntry
		err := s.cache.GetJSON(ctx, leaderboardCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache trouble is not a request failure; fall through to the store.
			log.Printf("Leaderboard cache read failed: %v", err)
		}
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	counts, err := s.problemRepo.CountByAuthor()
	if err != nil {
		return nil, fmt.Errorf("failed to count problems by author: %w", err)
	}

	countsByAuthor := make(map[uint64]int64, len(counts))
	for _, c := range counts {
		countsByAuthor[c.AuthorID] = c.Count
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, dto.LeaderboardEntry{
			UserID:       user.ID,
			Name:         user.Name,
			Email:        user.Email,
			ProblemCount: countsByAuthor[user.ID],
			CreatedAt:    user.CreatedAt,
		})
	}

	// Rank by count; ties go to the earlier-registered user, then lower id,
	// so repeated calls always produce the same order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ProblemCount != entries[j].ProblemCount {
			return entries[i].ProblemCount > entries[j].ProblemCount
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, leaderboardCacheKey, entries, s.cacheTTL); err != nil {
			log.Printf("Leaderboard cache write failed: %v", err)
		}
	}

	return entries, nil
}
