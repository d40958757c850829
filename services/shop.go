package services

import (
	"context"
	"errors"
	"fmt"

	"galaxymath/db"
	"galaxymath/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrUnknownItem = errors.New("unknown avatar item")

// AvatarChange names the slots to re-equip; nil leaves a slot as it is
type AvatarChange struct {
	Helmet *string
	Suit   *string
	Pet    *string
}

// ShopService prices avatar changes from the catalog. Items are paid for once and
// can be re-equipped for free afterwards.
type ShopService struct {
	accounts db.AccountStore
	events   EventPublisher
	logger   *zap.Logger
}

func NewShopService(accounts db.AccountStore, events EventPublisher, logger *zap.Logger) *ShopService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopService{accounts: accounts, events: events, logger: logger}
}

// Quote returns the avatar that change produces for user, what it costs and which items it buys
func Quote(user *models.User, change AvatarChange) (models.Avatar, int, []string, error) {
	avatar := user.Avatar
	cost := 0
	bought := []string{}

	slots := []struct {
		slot  string
		value *string
		dst   *string
	}{
		{SlotHelmet, change.Helmet, &avatar.Helmet},
		{SlotSuit, change.Suit, &avatar.Suit},
		{SlotPet, change.Pet, &avatar.Pet},
	}
	for _, s := range slots {
		if s.value == nil {
			continue
		}
		item, ok := FindAvatarItem(s.slot, *s.value)
		if !ok {
			return models.Avatar{}, 0, nil, fmt.Errorf("%w: %s %q", ErrUnknownItem, s.slot, *s.value)
		}
		*s.dst = item.ID
		key := ownedKey(item.Slot, item.ID)
		if item.Cost > 0 && !user.OwnsItem(key) {
			cost += item.Cost
			bought = append(bought, key)
		}
	}
	return avatar, cost, bought, nil
}

// Equip applies change and charges for any item not already owned. The quote is
// redone whenever another write to the account lands between read and update.
func (s *ShopService) Equip(ctx context.Context, userID primitive.ObjectID, change AvatarChange) (*models.User, error) {
	for attempt := 1; ; attempt++ {
		user, err := s.accounts.FindUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		avatar, cost, bought, err := Quote(user, change)
		if err != nil {
			return nil, err
		}
		if user.Coins < cost {
			s.logger.Info("avatar purchase declined",
				zap.String("userId", userID.Hex()), zap.Int("cost", cost), zap.Int("coins", user.Coins))
			return nil, db.ErrInsufficientCoins
		}

		updated, err := s.accounts.UpdateAvatar(ctx, userID, user.Revision, avatar, cost, bought)
		if err == nil {
			s.publishPurchase(updated, cost)
			return updated, nil
		}
		if !errors.Is(err, db.ErrRevisionConflict) {
			return nil, err
		}
		if attempt == maxSaveAttempts {
			s.logger.Warn("avatar change gave up after revision conflicts",
				zap.String("userId", userID.Hex()), zap.Int("attempts", attempt))
			return nil, ErrSaveContention
		}
	}
}

func (s *ShopService) publishPurchase(user *models.User, cost int) {
	if cost == 0 || s.events == nil {
		return
	}
	s.events.Publish(models.GamificationEvent{
		Type:      models.EventCoinsChanged,
		UserID:    user.ID.Hex(),
		Points:    -cost,
		Coins:     user.Coins,
		Timestamp: user.UpdatedAt,
	})
}

// SettingsChange names the preferences to overwrite; nil fields keep their stored value
type SettingsChange struct {
	CalmMode         *bool
	CelebrationStyle *string
	AnimationSpeed   *float64
}

// UpdateSettings merges change into the stored accessibility preferences
func (s *ShopService) UpdateSettings(ctx context.Context, userID primitive.ObjectID, change SettingsChange) (*models.User, error) {
	user, err := s.accounts.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := user.Settings
	if change.CalmMode != nil {
		settings.CalmMode = *change.CalmMode
	}
	if change.CelebrationStyle != nil {
		settings.CelebrationStyle = *change.CelebrationStyle
	}
	if change.AnimationSpeed != nil {
		settings.AnimationSpeed = *change.AnimationSpeed
	}
	return s.accounts.UpdateSettings(ctx, userID, settings)
}
