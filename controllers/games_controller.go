package controllers

import (
	"net/http"

	"galaxymath/internal/games"
	"galaxymath/services"

	"github.com/gin-gonic/gin"
)

// GetRound serves a freshly generated round for a stage
func GetRound(c *gin.Context) {
	d, err := games.ParseDifficulty(c.Query("difficulty"))
	if err != nil {
		respondError(c, err)
		return
	}

	round, err := games.NewRound(c.Param("game"), d, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// ListGames lists the stages in planet order with whether a round generator exists
func ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": services.Stages()})
}
