package services

import (
	"context"
	"sort"

	"galaxymath/db"
	"galaxymath/internal/cache"
	"galaxymath/models"

	"go.uber.org/zap"
)

// LeaderboardSize is how many pilots a leaderboard shows
const LeaderboardSize = 10

// BuildLeaderboard ranks each account by its best score for game (any game when game is empty).
// Accounts without a matching score are left out; ties are ordered by username.
func BuildLeaderboard(users []models.User, game string, limit int) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		best, bestGame, found := 0, "", false
		for _, s := range u.Scores {
			if game != "" && s.Game != game {
				continue
			}
			if !found || s.Score > best {
				best, bestGame, found = s.Score, s.Game, true
			}
		}
		if !found {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{Username: u.Username, Score: best, Game: bestGame})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

type LeaderboardService struct {
	accounts db.AccountStore
	cache    *cache.LeaderboardCache
	logger   *zap.Logger
}

func NewLeaderboardService(accounts db.AccountStore, c *cache.LeaderboardCache, logger *zap.Logger) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{accounts: accounts, cache: c, logger: logger}
}

// Top returns the leaderboard for game, served from Redis while the cached copy is fresh
func (s *LeaderboardService) Top(ctx context.Context, game string) ([]models.LeaderboardEntry, error) {
	if game != "" && !IsStage(game) {
		return nil, ErrUnknownGame
	}

	entries, ok, err := s.cache.Get(ctx, game)
	if err != nil {
		s.logger.Warn("leaderboard cache read failed", zap.String("game", game), zap.Error(err))
	} else if ok {
		return entries, nil
	}

	users, err := s.accounts.ListScoreboards(ctx)
	if err != nil {
		return nil, err
	}
	entries = BuildLeaderboard(users, game, LeaderboardSize)

	if err := s.cache.Set(ctx, game, entries); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.String("game", game), zap.Error(err))
	}
	return entries, nil
}
