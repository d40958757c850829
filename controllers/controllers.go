package controllers

import (
	"errors"
	"net/http"

	"galaxymath/db"
	"galaxymath/internal/games"
	"galaxymath/middlewares"
	"galaxymath/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Services is everything the handlers call into
type Services struct {
	Auth        *services.AuthService
	Progression *services.ProgressionService
	Leaderboard *services.LeaderboardService
	Missions    *services.MissionService
	Shop        *services.ShopService
	Accounts    db.AccountStore
	Logger      *zap.Logger
}

var (
	svc    Services
	logger = zap.NewNop()
)

// Init wires the handlers to their services. It must run before the router serves requests.
func Init(s Services) {
	svc = s
	if s.Logger != nil {
		logger = s.Logger
	}
}

// currentUser returns the authenticated pilot's id or writes a 401
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middlewares.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return id, ok
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
}

// respondError maps a service error to its status code; anything unrecognised is logged as a 500
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnknownGame),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrInvalidDifficulty),
		errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrMissionIncomplete),
		errors.Is(err, games.ErrUnknownDifficulty):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, db.ErrInsufficientCoins):
		status = http.StatusPaymentRequired
	case errors.Is(err, db.ErrUserNotFound),
		errors.Is(err, services.ErrUnknownMission),
		errors.Is(err, games.ErrNoGenerator):
		status = http.StatusNotFound
	case errors.Is(err, db.ErrUsernameTaken),
		errors.Is(err, db.ErrMissionAlreadyClaimed),
		errors.Is(err, services.ErrSaveContention):
		status = http.StatusConflict
	case errors.Is(err, services.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("trace_id", middlewares.GetTraceID(c)),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "Server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
