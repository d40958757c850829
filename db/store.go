package db

import (
	"context"
	"errors"

	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameTaken         = errors.New("username already taken")
	ErrRevisionConflict      = errors.New("account changed concurrently")
	ErrInsufficientCoins     = errors.New("not enough coins")
	ErrBoardNotFound         = errors.New("mission board not found")
	ErrBoardExists           = errors.New("mission board already exists")
	ErrMissionAlreadyClaimed = errors.New("mission already claimed")
)

// RecentRequestLimit caps how many score-save request ids an account remembers
const RecentRequestLimit = 20

// AccountStore persists the account aggregate
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ApplyProgress writes one round's change in a single update, only if the
	// stored revision still equals revision. Otherwise it returns ErrRevisionConflict.
	ApplyProgress(ctx context.Context, id primitive.ObjectID, revision int64, change models.ProgressChange) (*models.User, error)

	// UpdateAvatar equips avatar and charges cost under the same revision guard as
	// ApplyProgress. It never lets the balance go negative.
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, revision int64, avatar models.Avatar, cost int, newlyOwned []string) (*models.User, error)
	UpdateSettings(ctx context.Context, id primitive.ObjectID, settings models.Settings) (*models.User, error)
	AddCoins(ctx context.Context, id primitive.ObjectID, amount int) (*models.User, error)

	// ListScoreboards returns every account with only username and scores populated
	ListScoreboards(ctx context.Context) ([]models.User, error)
}

// MissionStore persists daily mission boards
type MissionStore interface {
	FindBoard(ctx context.Context, userID primitive.ObjectID, date string) (*models.MissionBoard, error)
	CreateBoard(ctx context.Context, board *models.MissionBoard) error
	RecordRound(ctx context.Context, userID primitive.ObjectID, date string, coinsEarned, streak int) error
	ClaimMission(ctx context.Context, userID primitive.ObjectID, date, missionID string) (*models.MissionBoard, error)
}
