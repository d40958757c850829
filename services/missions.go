package services

import (
	"context"
	"errors"
	"fmt"

	"galaxymath/db"
	"galaxymath/internal/clock"
	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	MissionPlay   = "play"
	MissionStreak = "streak"
	MissionCoins  = "coins"

	playTarget  = 1
	coinsTarget = 50
)

var (
	ErrUnknownMission    = errors.New("unknown mission")
	ErrMissionIncomplete = errors.New("mission not complete yet")
)

var missionRewards = map[string]int{
	MissionPlay:   20,
	MissionStreak: 50,
	MissionCoins:  30,
}

// DailyMissions is the client view of today's board
type DailyMissions struct {
	Date     string           `json:"date"`
	Missions []models.Mission `json:"missions"`
}

type ClaimResult struct {
	Mission models.Mission `json:"mission"`
	Reward  int            `json:"reward"`
	Coins   int            `json:"coins"`
}

// MissionService tracks the three daily tasks. Progress is derived from per-day counters
// stored on the board, and rewards are paid through the account store.
type MissionService struct {
	store    db.MissionStore
	accounts db.AccountStore
	clock    clock.Clock
	events   EventPublisher
	logger   *zap.Logger
}

func NewMissionService(store db.MissionStore, accounts db.AccountStore, clk clock.Clock, events EventPublisher, logger *zap.Logger) *MissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New(nil)
	}
	return &MissionService{store: store, accounts: accounts, clock: clk, events: events, logger: logger}
}

// Today returns the account's board for the current date, creating it on first access
func (s *MissionService) Today(ctx context.Context, userID primitive.ObjectID) (*DailyMissions, error) {
	user, err := s.accounts.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	board, err := s.ensureBoard(ctx, user, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}
	return &DailyMissions{Date: board.Date, Missions: BuildMissions(board)}, nil
}

// RecordRound adds one saved round to the board for date. user is the account as it was
// before the round, so a board created here targets the streak it had at the start of the day.
func (s *MissionService) RecordRound(ctx context.Context, user *models.User, date string, coinsEarned, streak int) error {
	if _, err := s.ensureBoard(ctx, user, date); err != nil {
		return err
	}
	return s.store.RecordRound(ctx, user.ID, date, coinsEarned, streak)
}

// Claim pays out a completed mission once
func (s *MissionService) Claim(ctx context.Context, userID primitive.ObjectID, missionID string) (*ClaimResult, error) {
	reward, ok := missionRewards[missionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMission, missionID)
	}

	user, err := s.accounts.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	date := clock.Today(s.clock)
	board, err := s.ensureBoard(ctx, user, date)
	if err != nil {
		return nil, err
	}

	mission := findMission(BuildMissions(board), missionID)
	if mission.Claimed {
		return nil, db.ErrMissionAlreadyClaimed
	}
	if !mission.Complete {
		return nil, ErrMissionIncomplete
	}

	// the store guard decides between racing claims; only the winner is paid
	if _, err := s.store.ClaimMission(ctx, userID, date, missionID); err != nil {
		return nil, err
	}
	updated, err := s.accounts.AddCoins(ctx, userID, reward)
	if err != nil {
		s.logger.Error("mission claimed but reward not credited",
			zap.String("userId", userID.Hex()), zap.String("mission", missionID), zap.Error(err))
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(models.GamificationEvent{
			Type:      models.EventMissionClaimed,
			UserID:    userID.Hex(),
			Mission:   missionID,
			Points:    reward,
			Coins:     updated.Coins,
			Timestamp: s.clock.Now(),
		})
	}

	mission.Claimed = true
	return &ClaimResult{Mission: mission, Reward: reward, Coins: updated.Coins}, nil
}

func (s *MissionService) ensureBoard(ctx context.Context, user *models.User, date string) (*models.MissionBoard, error) {
	board, err := s.store.FindBoard(ctx, user.ID, date)
	if err == nil {
		return board, nil
	}
	if !errors.Is(err, db.ErrBoardNotFound) {
		return nil, err
	}

	board = &models.MissionBoard{
		UserID:       user.ID,
		Date:         date,
		StreakTarget: user.Streak + 1,
		Claimed:      []string{},
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.CreateBoard(ctx, board); err != nil {
		if errors.Is(err, db.ErrBoardExists) {
			return s.store.FindBoard(ctx, user.ID, date)
		}
		return nil, err
	}
	return board, nil
}

// BuildMissions derives the three missions from a board's counters
func BuildMissions(board *models.MissionBoard) []models.Mission {
	missions := []models.Mission{
		{ID: MissionPlay, Text: "Play a Game", Target: playTarget, Progress: board.RoundsPlayed},
		{ID: MissionStreak, Text: fmt.Sprintf("Reach %d Day Streak", board.StreakTarget), Target: board.StreakTarget, Progress: board.BestStreak},
		{ID: MissionCoins, Text: fmt.Sprintf("Earn %d Coins", coinsTarget), Target: coinsTarget, Progress: board.CoinsEarned},
	}
	for i := range missions {
		m := &missions[i]
		m.Progress = min(m.Progress, m.Target)
		m.Reward = missionRewards[m.ID]
		m.Complete = m.Progress >= m.Target
		m.Claimed = board.IsClaimed(m.ID)
	}
	return missions
}

func findMission(missions []models.Mission, id string) models.Mission {
	for _, m := range missions {
		if m.ID == id {
			return m
		}
	}
	return models.Mission{}
}
