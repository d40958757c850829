package db

import (
	"context"
	"errors"
	"fmt"

	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMissionStore keeps one document per account per day in daily_missions
type MongoMissionStore struct {
	boards *mongo.Collection
}

var _ MissionStore = (*MongoMissionStore)(nil)

func NewMongoMissionStore(database *mongo.Database) *MongoMissionStore {
	return &MongoMissionStore{boards: database.Collection(MissionsCollection)}
}

func (s *MongoMissionStore) FindBoard(ctx context.Context, userID primitive.ObjectID, date string) (*models.MissionBoard, error) {
	var board models.MissionBoard
	err := s.boards.FindOne(ctx, bson.M{"userId": userID, "date": date}).Decode(&board)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("find mission board: %w", err)
	}
	return &board, nil
}

func (s *MongoMissionStore) CreateBoard(ctx context.Context, board *models.MissionBoard) error {
	if board.ID.IsZero() {
		board.ID = primitive.NewObjectID()
	}
	if board.Claimed == nil {
		board.Claimed = []string{}
	}
	if _, err := s.boards.InsertOne(ctx, board); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrBoardExists
		}
		return fmt.Errorf("insert mission board: %w", err)
	}
	return nil
}

func (s *MongoMissionStore) RecordRound(ctx context.Context, userID primitive.ObjectID, date string, coinsEarned, streak int) error {
	update := bson.M{
		"$inc": bson.M{"roundsPlayed": 1, "coinsEarned": coinsEarned},
		"$max": bson.M{"bestStreak": streak},
	}
	res, err := s.boards.UpdateOne(ctx, bson.M{"userId": userID, "date": date}, update)
	if err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (s *MongoMissionStore) ClaimMission(ctx context.Context, userID primitive.ObjectID, date, missionID string) (*models.MissionBoard, error) {
	filter := bson.M{
		"userId":  userID,
		"date":    date,
		"claimed": bson.M{"$ne": missionID},
	}
	update := bson.M{"$push": bson.M{"claimed": missionID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var board models.MissionBoard
	err := s.boards.FindOneAndUpdate(ctx, filter, update, opts).Decode(&board)
	if err == nil {
		return &board, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claim mission: %w", err)
	}

	if _, findErr := s.FindBoard(ctx, userID, date); findErr != nil {
		return nil, findErr
	}
	return nil, ErrMissionAlreadyClaimed
}
