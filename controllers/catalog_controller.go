package controllers

import (
	"net/http"

	"galaxymath/services"

	"github.com/gin-gonic/gin"
)

func GetAvatarCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, services.AvatarItems)
}

func GetBadgeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, services.Badges)
}

func GetPlanetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, services.Planets)
}
