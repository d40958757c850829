package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galaxymath/db"
	"galaxymath/models"
)

type demoPilot struct {
	username string
	streak   int
	coins    int
	rounds   []models.ScoreEntry
}

var demoPilots = []demoPilot{
	{
		username: "astro_alice",
		streak:   4,
		coins:    120,
		rounds: []models.ScoreEntry{
			{Game: "counting", Score: 12, Difficulty: "easy"},
			{Game: "pattern", Score: 7, Difficulty: "medium"},
		},
	},
	{
		username: "comet_bob",
		streak:   1,
		coins:    40,
		rounds: []models.ScoreEntry{
			{Game: "counting", Score: 8, Difficulty: "easy"},
			{Game: "addition", Score: 11, Difficulty: "hard"},
		},
	},
	{
		username: "nebula_carol",
		streak:   8,
		coins:    310,
		rounds: []models.ScoreEntry{
			{Game: "counting", Score: 15, Difficulty: "hard"},
			{Game: "memory", Score: 6, Difficulty: "medium"},
		},
	},
}

// PopulateTestUsers inserts the demo pilots, skipping any that already exist.
// It returns how many were created.
func PopulateTestUsers(ctx context.Context, store db.AccountStore, password string, now time.Time) (int, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, pilot := range demoPilots {
		user := models.NewUser(pilot.username, hash, now)
		user.Streak = pilot.streak
		user.Coins = pilot.coins
		user.LastPlayedDate = now.Format("2006-01-02")
		for _, round := range pilot.rounds {
			round.PlayedAt = now
			user.Scores = append(user.Scores, round)
		}

		if err := store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, db.ErrUsernameTaken) {
				continue
			}
			return created, fmt.Errorf("create %s: %w", pilot.username, err)
		}
		created++
	}
	return created, nil
}
