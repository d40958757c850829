package routes

import (
	"galaxymath/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRouteHandler(ctx *gin.Context) {
	controllers.RegisterHandler(ctx)
}

func LoginRouteHandler(ctx *gin.Context) {
	controllers.LoginHandler(ctx)
}

func GuestRouteHandler(ctx *gin.Context) {
	controllers.GuestHandler(ctx)
}

func VerifyTokenRouteHandler(ctx *gin.Context) {
	controllers.VerifyTokenHandler(ctx)
}
