package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"galaxymath/db"
	"galaxymath/internal/cache"
	"galaxymath/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNextStreak(t *testing.T) {
	today := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		current    int
		lastPlayed string
		want       int
	}{
		{"already played today", 4, "2025-01-01", 4},
		{"played yesterday across a year boundary", 4, "2024-12-31", 5},
		{"gap of two days", 4, "2024-12-30", 1},
		{"never played", 0, "", 1},
		{"future date", 4, "2025-01-02", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.current, tt.lastPlayed, today))
		})
	}
}

func TestEvaluateRound(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	fresh := func() *models.User { return models.NewUser("nova", "hash", now) }

	t.Run("first round below mastery", func(t *testing.T) {
		change := EvaluateRound(fresh(), ScoreSubmission{Game: "counting", Score: 8, Difficulty: "easy"}, now)
		assert.Equal(t, 1, change.Streak)
		assert.Equal(t, "2025-03-14", change.LastPlayedDate)
		assert.Equal(t, CoinBonus, change.CoinDelta)
		assert.Empty(t, change.NewBadges)
		assert.Empty(t, change.NewPlanets, "counting is not unlocked yet")
	})

	t.Run("losing round earns nothing", func(t *testing.T) {
		change := EvaluateRound(fresh(), ScoreSubmission{Game: "learning", Score: 4}, now)
		assert.Zero(t, change.CoinDelta)
		assert.Empty(t, change.NewPlanets)
	})

	t.Run("winning an unlocked stage unlocks the next", func(t *testing.T) {
		change := EvaluateRound(fresh(), ScoreSubmission{Game: "learning", Score: 5}, now)
		assert.Equal(t, []string{"counting"}, change.NewPlanets)
	})

	t.Run("last stage has no successor", func(t *testing.T) {
		u := fresh()
		u.UnlockedPlanets = []string{"learning", "memory"}
		change := EvaluateRound(u, ScoreSubmission{Game: "memory", Score: 50}, now)
		assert.Empty(t, change.NewPlanets)
	})

	t.Run("mastery badges per game", func(t *testing.T) {
		cases := map[string]string{
			"counting":    "counting-cmder",
			"pattern":     "pattern-pro",
			"addition":    "math-explorer",
			"subtraction": "math-explorer",
		}
		for game, badge := range cases {
			change := EvaluateRound(fresh(), ScoreSubmission{Game: game, Score: MasteryThreshold}, now)
			assert.Equal(t, []string{badge}, change.NewBadges, game)
		}
		change := EvaluateRound(fresh(), ScoreSubmission{Game: "division", Score: 40}, now)
		assert.Empty(t, change.NewBadges)
	})

	t.Run("held badges are not granted again", func(t *testing.T) {
		u := fresh()
		u.Badges = []string{"counting-cmder"}
		change := EvaluateRound(u, ScoreSubmission{Game: "counting", Score: 12}, now)
		assert.Empty(t, change.NewBadges)
	})

	t.Run("coin lord uses the balance after the award", func(t *testing.T) {
		u := fresh()
		u.Coins = 995
		change := EvaluateRound(u, ScoreSubmission{Game: "learning", Score: 6}, now)
		assert.Contains(t, change.NewBadges, "coin-lord")

		u.Coins = 995
		change = EvaluateRound(u, ScoreSubmission{Game: "learning", Score: 2}, now)
		assert.NotContains(t, change.NewBadges, "coin-lord")
	})

	t.Run("does not mutate the account", func(t *testing.T) {
		u := fresh()
		EvaluateRound(u, ScoreSubmission{Game: "learning", Score: 9}, now)
		assert.Empty(t, u.Scores)
		assert.Zero(t, u.Coins)
		assert.Equal(t, []string{"learning"}, u.UnlockedPlanets)
	})
}

func (s *ServiceSuite) TestFirstEverRound() {
	id := s.pilot("nova", nil)

	res, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "counting", Score: 8})
	s.Require().NoError(err)
	s.Equal(1, res.Streak)
	s.Equal(10, res.Coins)
	s.Equal(10, res.CoinsAwarded)
	s.NotContains(res.Badges, "counting-cmder")

	u := s.load(id)
	s.Equal(s.today(), u.LastPlayedDate)
	s.Require().Len(u.Scores, 1)
	s.Equal("easy", u.Scores[0].Difficulty)
}

func (s *ServiceSuite) TestSixDayStreakBecomesSeven() {
	id := s.pilot("comet", func(u *models.User) {
		u.Streak = 6
		u.LastPlayedDate = s.yesterday()
		u.Badges = []string{"streak-3"}
	})

	res, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 5})
	s.Require().NoError(err)
	s.Equal(7, res.Streak)
	s.Equal([]string{"streak-7"}, res.NewBadges)
	s.Equal([]string{"streak-3", "streak-7"}, res.Badges)
	s.Equal([]string{"counting"}, res.NewPlanets)
}

func (s *ServiceSuite) TestSecondRoundSameDayKeepsStreak() {
	id := s.pilot("orbit", func(u *models.User) {
		u.Streak = 2
		u.LastPlayedDate = s.yesterday()
	})

	for i := 0; i < 2; i++ {
		res, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 1})
		s.Require().NoError(err)
		s.Equal(3, res.Streak)
	}
	s.Equal([]string{"streak-3"}, s.load(id).Badges)
}

func (s *ServiceSuite) TestRejectsInvalidSubmissions() {
	id := s.pilot("nova", nil)

	_, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "pluto", Score: 3})
	s.ErrorIs(err, ErrUnknownGame)
	_, err = s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "counting", Score: -1})
	s.ErrorIs(err, ErrInvalidScore)
	_, err = s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "counting", Score: MaxScore + 1})
	s.ErrorIs(err, ErrInvalidScore)
	_, err = s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "counting", Score: 3, Difficulty: "expert"})
	s.ErrorIs(err, ErrInvalidDifficulty)

	s.Empty(s.load(id).Scores)
}

func (s *ServiceSuite) TestUnknownAccount() {
	_, err := s.progression.SaveScore(s.ctx, primitive.NewObjectID(), ScoreSubmission{Game: "counting", Score: 3})
	s.ErrorIs(err, db.ErrUserNotFound)
}

func (s *ServiceSuite) TestReplayedRequestIsIgnored() {
	id := s.pilot("nova", nil)
	sub := ScoreSubmission{Game: "learning", Score: 9, RequestID: "round-1"}

	first, err := s.progression.SaveScore(s.ctx, id, sub)
	s.Require().NoError(err)
	s.False(first.Duplicate)

	replay, err := s.progression.SaveScore(s.ctx, id, sub)
	s.Require().NoError(err)
	s.True(replay.Duplicate)
	s.Equal(first.Coins, replay.Coins)
	s.Zero(replay.CoinsAwarded)
	s.Empty(replay.NewPlanets)

	u := s.load(id)
	s.Len(u.Scores, 1)
	s.Equal(CoinBonus, u.Coins)
}

func (s *ServiceSuite) TestRateLimitedSaves() {
	id := s.pilot("nova", nil)
	svc := NewProgressionService(ProgressionDeps{
		Accounts: s.accounts,
		Clock:    s.clock,
		Limiter:  cache.NewScoreLimiter(s.rdb, 2, time.Minute),
	})

	for i := 0; i < 2; i++ {
		_, err := svc.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 1})
		s.Require().NoError(err)
	}
	_, err := svc.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 1})
	s.ErrorIs(err, ErrRateLimited)
	s.Len(s.load(id).Scores, 2)

	s.mini.FastForward(time.Minute + time.Second)
	_, err = svc.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 1})
	s.NoError(err)
}

func (s *ServiceSuite) TestSaveInvalidatesLeaderboardCache() {
	id := s.pilot("nova", nil)
	_, err := s.leaderboard.Top(s.ctx, "learning")
	s.Require().NoError(err)
	_, err = s.leaderboard.Top(s.ctx, "")
	s.Require().NoError(err)
	s.True(s.mini.Exists("leaderboard:learning"))

	_, err = s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 7})
	s.Require().NoError(err)
	s.False(s.mini.Exists("leaderboard:learning"))
	s.False(s.mini.Exists("leaderboard:all"))

	top, err := s.leaderboard.Top(s.ctx, "learning")
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(7, top[0].Score)
}

func (s *ServiceSuite) TestSavePublishesEvents() {
	id := s.pilot("nova", func(u *models.User) { u.Coins = 990 })

	_, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 6})
	s.Require().NoError(err)
	s.Equal([]string{
		models.EventScoreSaved,
		models.EventCoinsChanged,
		models.EventBadgeAwarded,
		models.EventPlanetUnlocked,
	}, s.events.types())
	for _, e := range s.events.events {
		s.Equal(id.Hex(), e.UserID)
		s.Equal(1000, e.Coins)
	}
}

func (s *ServiceSuite) TestSaveRecordsMissionProgress() {
	id := s.pilot("nova", nil)

	_, err := s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 6})
	s.Require().NoError(err)

	board, err := s.boards.FindBoard(s.ctx, id, s.today())
	s.Require().NoError(err)
	s.Equal(1, board.RoundsPlayed)
	s.Equal(CoinBonus, board.CoinsEarned)
	s.Equal(1, board.BestStreak)
	s.Equal(1, board.StreakTarget)
}

// Two first-of-day saves that both evaluate against lastPlayedDate == "" end with streak 1.
// The revision guard keeps both rounds and both coin awards.
func (s *ServiceSuite) TestConcurrentFirstSavesOfDay() {
	id := s.pilot("nova", nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.progression.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 5})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}
	u := s.load(id)
	s.Equal(1, u.Streak)
	s.Equal(s.today(), u.LastPlayedDate)
	s.Len(u.Scores, 2)
	s.Equal(2*CoinBonus, u.Coins)
	s.Equal([]string{"learning", "counting"}, u.UnlockedPlanets)
}

// conflictingStore reports a revision conflict for the first n writes
type conflictingStore struct {
	db.AccountStore
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (c *conflictingStore) ApplyProgress(ctx context.Context, id primitive.ObjectID, revision int64, change models.ProgressChange) (*models.User, error) {
	c.mu.Lock()
	c.calls++
	conflict := c.calls <= c.conflicts
	c.mu.Unlock()
	if conflict {
		return nil, db.ErrRevisionConflict
	}
	return c.AccountStore.ApplyProgress(ctx, id, revision, change)
}

func (s *ServiceSuite) TestRetriesRevisionConflicts() {
	id := s.pilot("nova", nil)
	store := &conflictingStore{AccountStore: s.accounts, conflicts: maxSaveAttempts - 1}
	svc := NewProgressionService(ProgressionDeps{Accounts: store, Clock: s.clock})

	_, err := svc.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 5})
	s.Require().NoError(err)
	s.Equal(maxSaveAttempts, store.calls)
	s.Len(s.load(id).Scores, 1)

	store = &conflictingStore{AccountStore: s.accounts, conflicts: maxSaveAttempts}
	svc = NewProgressionService(ProgressionDeps{Accounts: store, Clock: s.clock})
	_, err = svc.SaveScore(s.ctx, id, ScoreSubmission{Game: "learning", Score: 5})
	s.ErrorIs(err, ErrSaveContention)
	s.Len(s.load(id).Scores, 1)
}
