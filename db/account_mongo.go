package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountStore keeps one document per account in the users collection
type MongoAccountStore struct {
	users *mongo.Collection
}

var _ AccountStore = (*MongoAccountStore)(nil)

func NewMongoAccountStore(database *mongo.Database) *MongoAccountStore {
	return &MongoAccountStore{users: database.Collection(UsersCollection)}
}

func (s *MongoAccountStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoAccountStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoAccountStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoAccountStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoAccountStore) ApplyProgress(ctx context.Context, id primitive.ObjectID, revision int64, change models.ProgressChange) (*models.User, error) {
	push := bson.M{"scores": change.Score}
	if change.RequestID != "" {
		push["recentRequests"] = bson.M{
			"$each":  []string{change.RequestID},
			"$slice": -RecentRequestLimit,
		}
	}

	update := bson.M{
		"$push": push,
		"$set": bson.M{
			"streak":         change.Streak,
			"lastPlayedDate": change.LastPlayedDate,
			"updatedAt":      time.Now(),
		},
		"$inc": bson.M{"coins": change.CoinDelta, "revision": 1},
	}

	// $addToSet keeps badges and planets free of duplicates even if two writers race.
	addToSet := bson.M{}
	if len(change.NewBadges) > 0 {
		addToSet["badges"] = bson.M{"$each": change.NewBadges}
	}
	if len(change.NewPlanets) > 0 {
		addToSet["unlockedPlanets"] = bson.M{"$each": change.NewPlanets}
	}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}

	return s.findOneAndUpdate(ctx, id, revisionFilter(id, revision), update, ErrRevisionConflict)
}

func revisionFilter(id primitive.ObjectID, revision int64) bson.M {
	if revision == 0 {
		// Accounts written before revisions existed have no field at all.
		return bson.M{"_id": id, "$or": []bson.M{
			{"revision": 0},
			{"revision": bson.M{"$exists": false}},
		}}
	}
	return bson.M{"_id": id, "revision": revision}
}

func (s *MongoAccountStore) UpdateAvatar(ctx context.Context, id primitive.ObjectID, revision int64, avatar models.Avatar, cost int, newlyOwned []string) (*models.User, error) {
	update := bson.M{
		"$set": bson.M{"avatar": avatar, "updatedAt": time.Now()},
		"$inc": bson.M{"coins": -cost, "revision": 1},
	}
	if len(newlyOwned) > 0 {
		update["$addToSet"] = bson.M{"ownedItems": bson.M{"$each": newlyOwned}}
	}
	// coins only ever drop together with a revision bump, so a miss here is a conflict
	filter := revisionFilter(id, revision)
	filter["coins"] = bson.M{"$gte": cost}
	return s.findOneAndUpdate(ctx, id, filter, update, ErrRevisionConflict)
}

func (s *MongoAccountStore) UpdateSettings(ctx context.Context, id primitive.ObjectID, settings models.Settings) (*models.User, error) {
	update := bson.M{"$set": bson.M{"settings": settings, "updatedAt": time.Now()}}
	return s.findOneAndUpdate(ctx, id, bson.M{"_id": id}, update, ErrUserNotFound)
}

func (s *MongoAccountStore) AddCoins(ctx context.Context, id primitive.ObjectID, amount int) (*models.User, error) {
	update := bson.M{
		"$inc": bson.M{"coins": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	return s.findOneAndUpdate(ctx, id, bson.M{"_id": id}, update, ErrUserNotFound)
}

// findOneAndUpdate applies update and returns the new document. When the filter
// matches nothing it reports ErrUserNotFound if the account is gone and guardErr otherwise.
func (s *MongoAccountStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, filter, update bson.M, guardErr error) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update user: %w", err)
	}

	count, countErr := s.users.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, fmt.Errorf("count user: %w", countErr)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}
	return nil, guardErr
}

func (s *MongoAccountStore) ListScoreboards(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"username": 1, "scores": 1})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find scoreboards: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode scoreboards: %w", err)
	}
	return users, nil
}
