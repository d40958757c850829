package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"galaxymath/db"
	"galaxymath/internal/clock"
	"galaxymath/models"
	"galaxymath/utils"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must be 3 to 32 characters")
	ErrWeakPassword       = errors.New("password must be at least 4 characters")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 4
	guestSecretLen = 16
)

// AuthResult is returned by every route that issues a session token
type AuthResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Streak   int    `json:"streak"`
	IsGuest  bool   `json:"isGuest,omitempty"`
}

type AuthService struct {
	accounts db.AccountStore
	clock    clock.Clock
	tokenTTL time.Duration
	guestTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(accounts db.AccountStore, clk clock.Clock, tokenTTL, guestTTL time.Duration, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New(nil)
	}
	return &AuthService{accounts: accounts, clock: clk, tokenTTL: tokenTTL, guestTTL: guestTTL, logger: logger}
}

// CreatePilot stores a new account with a hashed password
func (s *AuthService) CreatePilot(ctx context.Context, username, password string, guest bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if n := len([]rune(username)); n < minUsernameLen || n > maxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.NewUser(username, hash, s.clock.Now())
	user.IsGuest = guest
	if err := s.accounts.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.CreatePilot(ctx, username, password, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pilot registered", zap.String("username", user.Username))
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.accounts.FindUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, db.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Guest creates a throwaway account with a random name and password
func (s *AuthService) Guest(ctx context.Context) (*AuthResult, error) {
	password, err := utils.GenerateRandomPassword(guestSecretLen)
	if err != nil {
		return nil, err
	}

	var user *models.User
	for attempt := 0; attempt < 3; attempt++ {
		user, err = s.CreatePilot(ctx, utils.GuestUsername(), password, true)
		if !errors.Is(err, db.ErrUsernameTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("guest pilot created", zap.String("username", user.Username))
	return s.issue(user)
}

// Verify checks a session token and returns its claims
func (s *AuthService) Verify(token string) (*utils.Claims, error) {
	return utils.ParseJWTToken(token)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	ttl := s.tokenTTL
	if user.IsGuest {
		ttl = s.guestTTL
	}
	token, err := utils.GenerateJWTToken(user.ID.Hex(), user.Username, ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Username: user.Username, Streak: user.Streak, IsGuest: user.IsGuest}, nil
}
