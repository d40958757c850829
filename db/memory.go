package db

import (
	"context"
	"strings"
	"sync"
	"time"

	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryAccountStore is an in-process AccountStore for the "memory" driver and for tests.
// It mirrors the conditional-update semantics of MongoAccountStore.
type MemoryAccountStore struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]*models.User
	byUsername map[string]primitive.ObjectID
}

var _ AccountStore = (*MemoryAccountStore)(nil)

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		users:      make(map[primitive.ObjectID]*models.User),
		byUsername: make(map[string]primitive.ObjectID),
	}
}

func (s *MemoryAccountStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return ErrUsernameTaken
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = cloneUser(user)
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *MemoryAccountStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (s *MemoryAccountStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryAccountStore) ApplyProgress(_ context.Context, id primitive.ObjectID, revision int64, change models.ProgressChange) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if user.Revision != revision {
		return nil, ErrRevisionConflict
	}

	user.Scores = append(user.Scores, change.Score)
	user.Streak = change.Streak
	user.LastPlayedDate = change.LastPlayedDate
	user.Coins += change.CoinDelta
	user.Badges = addToSet(user.Badges, change.NewBadges...)
	user.UnlockedPlanets = addToSet(user.UnlockedPlanets, change.NewPlanets...)
	if change.RequestID != "" {
		user.RecentRequests = append(user.RecentRequests, change.RequestID)
		if n := len(user.RecentRequests); n > RecentRequestLimit {
			user.RecentRequests = user.RecentRequests[n-RecentRequestLimit:]
		}
	}
	user.Revision++
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (s *MemoryAccountStore) UpdateAvatar(_ context.Context, id primitive.ObjectID, revision int64, avatar models.Avatar, cost int, newlyOwned []string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if user.Revision != revision {
		return nil, ErrRevisionConflict
	}
	if user.Coins < cost {
		return nil, ErrInsufficientCoins
	}
	user.Avatar = avatar
	user.Coins -= cost
	user.OwnedItems = addToSet(user.OwnedItems, newlyOwned...)
	user.Revision++
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (s *MemoryAccountStore) UpdateSettings(_ context.Context, id primitive.ObjectID, settings models.Settings) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user.Settings = settings
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (s *MemoryAccountStore) AddCoins(_ context.Context, id primitive.ObjectID, amount int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	user.Coins += amount
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (s *MemoryAccountStore) ListScoreboards(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, models.User{
			ID:       user.ID,
			Username: user.Username,
			Scores:   append([]models.ScoreEntry(nil), user.Scores...),
		})
	}
	return out, nil
}

// MemoryMissionStore is the in-process MissionStore
type MemoryMissionStore struct {
	mu     sync.Mutex
	boards map[string]*models.MissionBoard
}

var _ MissionStore = (*MemoryMissionStore)(nil)

func NewMemoryMissionStore() *MemoryMissionStore {
	return &MemoryMissionStore{boards: make(map[string]*models.MissionBoard)}
}

func boardKey(userID primitive.ObjectID, date string) string {
	return strings.Join([]string{userID.Hex(), date}, ":")
}

func (s *MemoryMissionStore) FindBoard(_ context.Context, userID primitive.ObjectID, date string) (*models.MissionBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[boardKey(userID, date)]
	if !ok {
		return nil, ErrBoardNotFound
	}
	return cloneBoard(board), nil
}

func (s *MemoryMissionStore) CreateBoard(_ context.Context, board *models.MissionBoard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := boardKey(board.UserID, board.Date)
	if _, exists := s.boards[key]; exists {
		return ErrBoardExists
	}
	if board.ID.IsZero() {
		board.ID = primitive.NewObjectID()
	}
	if board.Claimed == nil {
		board.Claimed = []string{}
	}
	s.boards[key] = cloneBoard(board)
	return nil
}

func (s *MemoryMissionStore) RecordRound(_ context.Context, userID primitive.ObjectID, date string, coinsEarned, streak int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[boardKey(userID, date)]
	if !ok {
		return ErrBoardNotFound
	}
	board.RoundsPlayed++
	board.CoinsEarned += coinsEarned
	if streak > board.BestStreak {
		board.BestStreak = streak
	}
	return nil
}

func (s *MemoryMissionStore) ClaimMission(_ context.Context, userID primitive.ObjectID, date, missionID string) (*models.MissionBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[boardKey(userID, date)]
	if !ok {
		return nil, ErrBoardNotFound
	}
	if board.IsClaimed(missionID) {
		return nil, ErrMissionAlreadyClaimed
	}
	board.Claimed = append(board.Claimed, missionID)
	return cloneBoard(board), nil
}

func addToSet(set []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range set {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			set = append(set, v)
		}
	}
	return set
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Scores = append([]models.ScoreEntry{}, u.Scores...)
	c.Badges = append([]string{}, u.Badges...)
	c.OwnedItems = append([]string{}, u.OwnedItems...)
	c.UnlockedPlanets = append([]string{}, u.UnlockedPlanets...)
	c.RecentRequests = append([]string(nil), u.RecentRequests...)
	return &c
}

func cloneBoard(b *models.MissionBoard) *models.MissionBoard {
	c := *b
	c.Claimed = append([]string{}, b.Claimed...)
	return &c
}
