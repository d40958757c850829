package controllers

import (
	"net/http"

	"galaxymath/services"
	"galaxymath/structs"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := svc.Accounts.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateAvatar equips catalog items, charging for any the pilot does not own yet
func UpdateAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req structs.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := svc.Shop.Equip(c.Request.Context(), userID, services.AvatarChange{
		Helmet: req.Helmet,
		Suit:   req.Suit,
		Pet:    req.Pet,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.Avatar, "coins": user.Coins, "ownedItems": user.OwnedItems})
}

func UpdateSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req structs.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := svc.Shop.UpdateSettings(c.Request.Context(), userID, services.SettingsChange{
		CalmMode:         req.CalmMode,
		CelebrationStyle: req.CelebrationStyle,
		AnimationSpeed:   req.AnimationSpeed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": user.Settings})
}
