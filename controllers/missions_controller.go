package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetMissions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	daily, err := svc.Missions.Today(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

func ClaimMission(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	res, err := svc.Missions.Claim(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
