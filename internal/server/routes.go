package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/server/api"
	"github.com/arenax/arenax/internal/server/biz"
	"github.com/arenax/arenax/internal/server/middleware"
)

var errRouteNotFound = errors.New("route not found")

type Handlers struct {
	fx.In

	System     *api.SystemHandlers
	Auth       *api.AuthHandlers
	Tournament *api.TournamentHandlers
	Payment    *api.PaymentHandlers
	Media      *api.MediaHandlers
	Events     *api.EventsHandlers
}

type Services struct {
	fx.In

	AuthService *biz.AuthService
}

func SetupRoutes(server *Server, handlers Handlers, services Services) {
	server.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, http.StatusNotFound, errRouteNotFound)
	})

	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))
	server.Use(middleware.WithMetrics())

	// Setup CORS middleware at server level if enabled
	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	root := server.Group(server.Config.BasePath)

	publicGroup := root.Group("", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		publicGroup.GET("/health", handlers.System.Health)
		publicGroup.GET("/version", handlers.System.Version)
		publicGroup.POST("/admin/signin", handlers.Auth.SignIn)

		publicGroup.POST("/teams", handlers.Tournament.RegisterTeam)
		publicGroup.GET("/teams", handlers.Tournament.ListTeams)
		publicGroup.GET("/teams/:id", handlers.Tournament.GetTeam)
		publicGroup.GET("/teams/:id/payments", handlers.Tournament.ListTeamPayments)
		publicGroup.GET("/announcements", handlers.Tournament.ListAnnouncements)
		publicGroup.GET("/matches", handlers.Tournament.ListMatches)
		publicGroup.GET("/standings", handlers.Tournament.Standings)

		publicGroup.POST("/payments/momo", handlers.Payment.InitiateCharge)
		publicGroup.GET("/payments/verify", handlers.Payment.VerifyByReference)
		publicGroup.GET("/payments/:id/verify", handlers.Payment.VerifyByID)

		publicGroup.POST("/media/upload", handlers.Media.Upload)
		publicGroup.GET("/media/:scope/:file", handlers.Media.Serve)

		publicGroup.POST("/events/signal", handlers.Events.Signal)
	}

	adminGroup := root.Group("",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithAdminAuth(services.AuthService),
	)
	{
		adminGroup.POST("/announcements", handlers.Tournament.PostAnnouncement)
		adminGroup.POST("/matches", handlers.Tournament.ScheduleMatch)
		adminGroup.POST("/matches/:id/result", handlers.Tournament.RecordResult)
		adminGroup.POST("/events/publish", handlers.Events.Publish)
	}

	root.GET("/events", handlers.Events.Stream)
}
