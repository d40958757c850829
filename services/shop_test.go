package services

import (
	"context"
	"sync"
	"testing"

	"galaxymath/db"
	"galaxymath/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr[T any](v T) *T { return &v }

func TestQuote(t *testing.T) {
	u := models.NewUser("nova", "hash", testNow)
	u.OwnedItems = []string{"helmet:gold"}

	avatar, cost, bought, err := Quote(u, AvatarChange{Helmet: ptr("gold"), Pet: ptr("dog")})
	require.NoError(t, err)
	assert.Equal(t, models.Avatar{Helmet: "gold", Suit: "default", Pet: "dog"}, avatar)
	assert.Equal(t, 150, cost, "owned helmet is free")
	assert.Equal(t, []string{"pet:dog"}, bought)

	_, cost, bought, err = Quote(u, AvatarChange{Suit: ptr("default")})
	require.NoError(t, err)
	assert.Zero(t, cost)
	assert.Empty(t, bought)

	_, _, _, err = Quote(u, AvatarChange{Suit: ptr("gold")})
	assert.ErrorIs(t, err, ErrUnknownItem, "gold is a helmet, not a suit")
}

func (s *ServiceSuite) TestEquipChargesOnce() {
	id := s.pilot("nova", func(u *models.User) { u.Coins = 120 })

	u, err := s.shop.Equip(s.ctx, id, AvatarChange{Helmet: ptr("gold")})
	s.Require().NoError(err)
	s.Equal(70, u.Coins)
	s.Equal("gold", u.Avatar.Helmet)

	_, err = s.shop.Equip(s.ctx, id, AvatarChange{Helmet: ptr("default")})
	s.Require().NoError(err)
	u, err = s.shop.Equip(s.ctx, id, AvatarChange{Helmet: ptr("gold")})
	s.Require().NoError(err)
	s.Equal(70, u.Coins, "re-equipping an owned item is free")

	s.Contains(s.events.types(), models.EventCoinsChanged)
}

func (s *ServiceSuite) TestEquipNeverOverdraws() {
	id := s.pilot("nova", func(u *models.User) { u.Coins = 140 })

	_, err := s.shop.Equip(s.ctx, id, AvatarChange{Pet: ptr("dog")})
	s.ErrorIs(err, db.ErrInsufficientCoins)

	u := s.load(id)
	s.Equal(140, u.Coins)
	s.Equal("none", u.Avatar.Pet)
	s.Empty(u.OwnedItems)
}

// lockstepStore holds the first n account reads until all of them have happened,
// so every caller quotes against the same snapshot.
type lockstepStore struct {
	db.AccountStore
	mu      sync.Mutex
	pending int
	gate    sync.WaitGroup
}

func newLockstepStore(inner db.AccountStore, n int) *lockstepStore {
	l := &lockstepStore{AccountStore: inner, pending: n}
	l.gate.Add(n)
	return l
}

func (l *lockstepStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := l.AccountStore.FindUserByID(ctx, id)
	l.mu.Lock()
	hold := l.pending > 0
	if hold {
		l.pending--
	}
	l.mu.Unlock()
	if hold {
		l.gate.Done()
		l.gate.Wait()
	}
	return user, err
}

func (s *ServiceSuite) equipConcurrently(id primitive.ObjectID, changes ...AvatarChange) {
	shop := NewShopService(newLockstepStore(s.accounts, len(changes)), s.events, nil)
	var wg sync.WaitGroup
	errs := make([]error, len(changes))
	for i, change := range changes {
		wg.Add(1)
		go func(i int, change AvatarChange) {
			defer wg.Done()
			_, errs[i] = shop.Equip(s.ctx, id, change)
		}(i, change)
	}
	wg.Wait()
	for _, err := range errs {
		s.Require().NoError(err)
	}
}

func (s *ServiceSuite) TestConcurrentPurchasesOfOneItemChargeOnce() {
	id := s.pilot("nova", func(u *models.User) { u.Coins = 100 })

	s.equipConcurrently(id, AvatarChange{Helmet: ptr("gold")}, AvatarChange{Helmet: ptr("gold")})

	u := s.load(id)
	s.Equal(50, u.Coins)
	s.Equal([]string{"helmet:gold"}, u.OwnedItems)
	s.Equal("gold", u.Avatar.Helmet)
}

func (s *ServiceSuite) TestConcurrentEditsToDifferentSlotsBothLand() {
	id := s.pilot("nova", func(u *models.User) { u.Coins = 300 })

	s.equipConcurrently(id, AvatarChange{Helmet: ptr("gold")}, AvatarChange{Pet: ptr("dog")})

	u := s.load(id)
	s.Equal(100, u.Coins)
	s.Equal("gold", u.Avatar.Helmet)
	s.Equal("dog", u.Avatar.Pet)
	s.ElementsMatch([]string{"helmet:gold", "pet:dog"}, u.OwnedItems)
}

func (s *ServiceSuite) TestUpdateSettingsMerges() {
	id := s.pilot("nova", nil)

	u, err := s.shop.UpdateSettings(s.ctx, id, SettingsChange{CalmMode: ptr(true)})
	s.Require().NoError(err)
	s.True(u.Settings.CalmMode)
	s.Equal("standard", u.Settings.CelebrationStyle)
	s.Equal(1.0, u.Settings.AnimationSpeed)

	u, err = s.shop.UpdateSettings(s.ctx, id, SettingsChange{AnimationSpeed: ptr(0.5), CelebrationStyle: ptr("quiet")})
	s.Require().NoError(err)
	s.True(u.Settings.CalmMode)
	s.Equal("quiet", u.Settings.CelebrationStyle)
	s.Equal(0.5, u.Settings.AnimationSpeed)
}
