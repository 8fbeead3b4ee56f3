package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/handler"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/token"
	"github.com/nulladdict/fiit-projects-OwnChGK/pkg/constants"
)

// New builds the HTTP router.
func New(
	games *handler.GameHandler,
	users *handler.UserHandler,
	teams *handler.TeamHandler,
	gameWS *handler.GameWSHandler,
	health *handler.HealthHandler,
	tokens *token.Manager,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	auth := handler.Auth(tokens)
	admin := handler.RequireAdmin()

	userGroup := r.Group("/users")
	{
		userGroup.POST("/register", users.Register)
		userGroup.POST("/login", users.Login)

		userGroup.GET("", auth, users.GetAll)
		userGroup.GET("/current", auth, users.Current)
		userGroup.POST("/logout", auth, users.Logout)
		userGroup.PATCH("/:game_id/changeToken", auth, users.ChangeToken)
	}

	teamGroup := r.Group("/teams", auth)
	{
		teamGroup.GET("", teams.GetAll)
		teamGroup.GET("/:id", teams.Get)
		teamGroup.POST("", teams.Insert)
		teamGroup.DELETE("/:id", admin, teams.Delete)
	}

	gameGroup := r.Group("/games", auth)
	{
		gameGroup.GET("", games.GetAll)
		gameGroup.GET("/:id", games.Get)
		gameGroup.GET("/:id/result", games.GetResult)
		gameGroup.GET("/:id/resultTable", games.GetResultTable)
		gameGroup.GET("/:id/resultTable/format", games.GetResultWithFormat)

		gameGroup.POST("", admin, games.Insert)
		gameGroup.PATCH("/:id", admin, games.Change)
		gameGroup.PATCH("/:id/changeName", admin, games.ChangeName)
		gameGroup.PATCH("/:id/changeStatus", admin, games.ChangeStatus)
		gameGroup.DELETE("/:id", admin, games.Delete)

		gameGroup.POST("/:id/start", admin, games.Start)
		gameGroup.POST("/:id/finish", admin, games.Finish)
		gameGroup.PATCH("/:id/changeIntrigueStatus", admin, games.ChangeIntrigueStatus)
		gameGroup.PATCH("/:id/changeActiveFormat", admin, games.ChangeActiveFormat)
		gameGroup.POST("/:id/accept", admin, games.AcceptAnswer)
	}

	// WebSocket: token comes from the cookie or query, not the Auth middleware,
	// because browsers cannot set headers on WebSocket dials.
	r.GET(constants.PathWSGame, gameWS.ServeWS)

	return r
}
