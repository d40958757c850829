package controllers

import (
	"net/http"

	"galaxymath/structs"

	"github.com/gin-gonic/gin"
)

func RegisterHandler(c *gin.Context) {
	var req structs.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := svc.Auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func LoginHandler(c *gin.Context) {
	var req structs.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := svc.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GuestHandler creates a throwaway pilot so the game can be tried without signing up
func GuestHandler(c *gin.Context) {
	res, err := svc.Auth.Guest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func VerifyTokenHandler(c *gin.Context) {
	var req structs.VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	claims, err := svc.Auth.Verify(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"userId":    claims.UserID,
		"username":  claims.Username,
		"expiresAt": claims.ExpiresAt.Time,
	})
}
