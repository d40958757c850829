package routes

import (
	"galaxymath/controllers"

	"github.com/gin-gonic/gin"
)

// SetupScoreRoutes registers the authenticated score routes on rg
func SetupScoreRoutes(rg *gin.RouterGroup) {
	scores := rg.Group("/scores")
	{
		scores.GET("/me", controllers.GetMyScores)
		scores.POST("/save", controllers.SaveScore)
	}
}

func SetupUserRoutes(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/avatar", controllers.UpdateAvatar)
		user.PUT("/settings", controllers.UpdateSettings)
	}
}

func SetupMissionRoutes(rg *gin.RouterGroup) {
	rg.GET("/missions", controllers.GetMissions)
	rg.POST("/missions/:id/claim", controllers.ClaimMission)
}

// SetupPublicRoutes registers the routes that need no token
func SetupPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/scores/leaderboard", controllers.GetLeaderboard)

	catalog := rg.Group("/catalog")
	{
		catalog.GET("/avatar", controllers.GetAvatarCatalog)
		catalog.GET("/badges", controllers.GetBadgeCatalog)
		catalog.GET("/planets", controllers.GetPlanetCatalog)
	}

	rg.GET("/games", controllers.ListGames)
	rg.GET("/games/:game/round", controllers.GetRound)
}
