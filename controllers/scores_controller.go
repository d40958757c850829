package controllers

import (
	"net/http"

	"galaxymath/services"
	"galaxymath/structs"

	"github.com/gin-gonic/gin"
)

// SaveScore records a finished round and returns the pilot's updated progression
func SaveScore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req structs.SaveScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := svc.Progression.SaveScore(c.Request.Context(), userID, services.ScoreSubmission{
		Game:       req.Game,
		Score:      *req.Score,
		Difficulty: req.Difficulty,
		RequestID:  req.RequestID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func GetMyScores(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := svc.Accounts.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":       user.Username,
		"scores":         user.Scores,
		"streak":         user.Streak,
		"lastPlayedDate": user.LastPlayedDate,
	})
}

// GetLeaderboard is public; ?game= narrows it to one stage
func GetLeaderboard(c *gin.Context) {
	game := c.Query("game")
	entries, err := svc.Leaderboard.Top(c.Request.Context(), game)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
