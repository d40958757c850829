package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galaxymath/db"
	"galaxymath/internal/cache"
	"galaxymath/internal/clock"
	"galaxymath/internal/games"
	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// WinThreshold is the score that earns the coin bonus and unlocks the next planet
	WinThreshold = 5
	CoinBonus    = 10
	// MasteryThreshold is the score that earns a per-game badge
	MasteryThreshold  = 10
	CoinLordThreshold = 1000
	MaxScore          = 1000

	maxSaveAttempts = 5
)

var (
	ErrUnknownGame       = errors.New("unknown game")
	ErrInvalidScore      = errors.New("score out of range")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrRateLimited       = errors.New("too many score saves")
	ErrSaveContention    = errors.New("account is busy, try again")
)

// EventPublisher delivers progression events to the account's live connections
type EventPublisher interface {
	Publish(event models.GamificationEvent)
}

// ScoreSubmission is one completed round as reported by a game client
type ScoreSubmission struct {
	Game       string
	Score      int
	Difficulty string
	RequestID  string
}

func (s *ScoreSubmission) validate() error {
	if !IsStage(s.Game) {
		return fmt.Errorf("%w: %q", ErrUnknownGame, s.Game)
	}
	if s.Score < 0 || s.Score > MaxScore {
		return fmt.Errorf("%w: %d", ErrInvalidScore, s.Score)
	}
	d, err := games.ParseDifficulty(s.Difficulty)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, s.Difficulty)
	}
	s.Difficulty = string(d)
	return nil
}

// SaveResult is the account state after a saved round
type SaveResult struct {
	Streak          int      `json:"streak"`
	Coins           int      `json:"coins"`
	CoinsAwarded    int      `json:"coinsAwarded"`
	Badges          []string `json:"badges"`
	NewBadges       []string `json:"newBadges"`
	UnlockedPlanets []string `json:"unlockedPlanets"`
	NewPlanets      []string `json:"newPlanets"`
	Duplicate       bool     `json:"duplicate,omitempty"`
}

// NextStreak returns the streak after playing on today, given the previous streak and last play date
func NextStreak(current int, lastPlayed string, today time.Time) int {
	switch lastPlayed {
	case today.Format(clock.DateLayout):
		return current
	case clock.Yesterday(today):
		return current + 1
	default:
		return 1
	}
}

// EvaluateRound computes everything one round changes on user. It never mutates user.
func EvaluateRound(user *models.User, sub ScoreSubmission, now time.Time) models.ProgressChange {
	change := models.ProgressChange{
		Score: models.ScoreEntry{
			Game:       sub.Game,
			Score:      sub.Score,
			Difficulty: sub.Difficulty,
			PlayedAt:   now,
		},
		Streak:         NextStreak(user.Streak, user.LastPlayedDate, now),
		LastPlayedDate: now.Format(clock.DateLayout),
		NewBadges:      []string{},
		NewPlanets:     []string{},
		RequestID:      sub.RequestID,
	}
	if sub.Score >= WinThreshold {
		change.CoinDelta = CoinBonus
	}

	award := func(badge string) {
		if !user.HasBadge(badge) {
			change.NewBadges = append(change.NewBadges, badge)
		}
	}
	if change.Streak >= 3 {
		award("streak-3")
	}
	if change.Streak >= 7 {
		award("streak-7")
	}
	if user.Coins+change.CoinDelta >= CoinLordThreshold {
		award("coin-lord")
	}
	if sub.Score >= MasteryThreshold {
		switch sub.Game {
		case "counting":
			award("counting-cmder")
		case "pattern":
			award("pattern-pro")
		case "addition", "subtraction":
			award("math-explorer")
		}
	}

	if idx := PlanetIndex(sub.Game); idx >= 0 && idx < len(Planets)-1 && sub.Score >= WinThreshold && user.HasPlanet(sub.Game) {
		if next := Planets[idx+1].ID; !user.HasPlanet(next) {
			change.NewPlanets = append(change.NewPlanets, next)
		}
	}
	return change
}

type ProgressionDeps struct {
	Accounts db.AccountStore
	Missions *MissionService
	Clock    clock.Clock
	Limiter  *cache.ScoreLimiter
	Boards   *cache.LeaderboardCache
	Events   EventPublisher
	Logger   *zap.Logger
}

// ProgressionService owns every write that follows a finished round
type ProgressionService struct {
	accounts db.AccountStore
	missions *MissionService
	clock    clock.Clock
	limiter  *cache.ScoreLimiter
	boards   *cache.LeaderboardCache
	events   EventPublisher
	logger   *zap.Logger
}

func NewProgressionService(d ProgressionDeps) *ProgressionService {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = clock.New(nil)
	}
	return &ProgressionService{
		accounts: d.Accounts,
		missions: d.Missions,
		clock:    d.Clock,
		limiter:  d.Limiter,
		boards:   d.Boards,
		events:   d.Events,
		logger:   d.Logger,
	}
}

// SaveScore validates a round, applies streak, coins, badges and unlocks in one guarded
// update, then fans the result out to the leaderboard cache, missions and live clients.
func (s *ProgressionService) SaveScore(ctx context.Context, userID primitive.ObjectID, sub ScoreSubmission) (*SaveResult, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}

	allowed, err := s.limiter.Allow(ctx, userID.Hex())
	if err != nil {
		s.logger.Warn("score limiter unavailable", zap.String("userId", userID.Hex()), zap.Error(err))
	} else if !allowed {
		return nil, ErrRateLimited
	}

	now := s.clock.Now()
	for attempt := 1; ; attempt++ {
		user, err := s.accounts.FindUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.SeenRequest(sub.RequestID) {
			res := resultFor(user, models.ProgressChange{})
			res.Duplicate = true
			return res, nil
		}

		change := EvaluateRound(user, sub, now)
		updated, err := s.accounts.ApplyProgress(ctx, userID, user.Revision, change)
		if err == nil {
			s.afterSave(ctx, user, updated, change)
			return resultFor(updated, change), nil
		}
		if !errors.Is(err, db.ErrRevisionConflict) {
			return nil, err
		}
		if attempt == maxSaveAttempts {
			s.logger.Warn("score save gave up after revision conflicts",
				zap.String("userId", userID.Hex()), zap.Int("attempts", attempt))
			return nil, ErrSaveContention
		}
		s.logger.Debug("revision conflict, retrying score save",
			zap.String("userId", userID.Hex()), zap.Int("attempt", attempt))
	}
}

func (s *ProgressionService) afterSave(ctx context.Context, before, after *models.User, change models.ProgressChange) {
	game := change.Score.Game
	if err := s.boards.Invalidate(ctx, game); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", zap.String("game", game), zap.Error(err))
	}

	if s.missions != nil {
		if err := s.missions.RecordRound(ctx, before, change.LastPlayedDate, change.CoinDelta, change.Streak); err != nil {
			s.logger.Warn("failed to record mission progress", zap.String("userId", after.ID.Hex()), zap.Error(err))
		}
	}

	if s.events == nil {
		return
	}
	userID := after.ID.Hex()
	now := change.Score.PlayedAt
	s.events.Publish(models.GamificationEvent{
		Type: models.EventScoreSaved, UserID: userID, Game: game,
		Points: change.Score.Score, Coins: after.Coins, Streak: after.Streak, Timestamp: now,
	})
	if change.CoinDelta != 0 {
		s.events.Publish(models.GamificationEvent{
			Type: models.EventCoinsChanged, UserID: userID, Game: game,
			Points: change.CoinDelta, Coins: after.Coins, Timestamp: now,
		})
	}
	for _, badge := range change.NewBadges {
		s.events.Publish(models.GamificationEvent{
			Type: models.EventBadgeAwarded, UserID: userID, BadgeName: badge, Coins: after.Coins, Timestamp: now,
		})
	}
	for _, planet := range change.NewPlanets {
		s.events.Publish(models.GamificationEvent{
			Type: models.EventPlanetUnlocked, UserID: userID, Planet: planet, Coins: after.Coins, Timestamp: now,
		})
	}
}

func resultFor(user *models.User, change models.ProgressChange) *SaveResult {
	newBadges, newPlanets := change.NewBadges, change.NewPlanets
	if newBadges == nil {
		newBadges = []string{}
	}
	if newPlanets == nil {
		newPlanets = []string{}
	}
	return &SaveResult{
		Streak:          user.Streak,
		Coins:           user.Coins,
		CoinsAwarded:    change.CoinDelta,
		Badges:          user.Badges,
		NewBadges:       newBadges,
		UnlockedPlanets: user.UnlockedPlanets,
		NewPlanets:      newPlanets,
	}
}
