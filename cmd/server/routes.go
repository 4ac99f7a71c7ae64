package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sprintos.backend/internal/interfaces/http/handlers"
)

const (
	serviceName    = "sprintos-backend"
	serviceVersion = "0.1.0"
	healthPath     = "/health"
	metricsPath    = "/metrics"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	teamHandler         *handlers.TeamHandler
	taskHandler         *handlers.TaskHandler
	noteHandler         *handlers.NoteHandler
	summaryHandler      *handlers.SummaryHandler
	analyticsHandler    *handlers.AnalyticsHandler
	realtimeHandler     *handlers.RealtimeHandler
	authMiddleware      gin.HandlerFunc
	teamScopeMiddleware gin.HandlerFunc
	idempotency         gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET(metricsPath, gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		v1.POST("/action-items/parse", d.authMiddleware, d.summaryHandler.ParseActionItems)

		// Teams of the current user
		teams := v1.Group("/teams")
		teams.Use(d.authMiddleware)
		{
			teams.GET("", d.teamHandler.ListMyTeams)
			teams.POST("", d.idempotency, d.teamHandler.CreateTeam)
			teams.GET("/active", d.teamHandler.GetActive)
			teams.POST("/join", d.idempotency, d.teamHandler.JoinTeam)
		}

		// Everything below requires membership of :teamId
		team := teams.Group("/:teamId")
		team.Use(d.teamScopeMiddleware)
		{
			team.GET("", d.teamHandler.GetTeam)
			team.GET("/members", d.teamHandler.ListMembers)
			team.PATCH("/members/:userId/role", d.teamHandler.UpdateMemberRole)
			team.POST("/heartbeat", d.teamHandler.Heartbeat)
			team.POST("/switch", d.teamHandler.SwitchTeam)
			team.POST("/invite-code", d.teamHandler.RegenerateInviteCode)

			team.POST("/tasks", d.idempotency, d.taskHandler.CreateTask)
			team.GET("/tasks", d.taskHandler.ListTasks)
			team.GET("/tasks/:id", d.taskHandler.GetTask)
			team.PUT("/tasks/:id", d.taskHandler.UpdateTask)
			team.PATCH("/tasks/:id/status", d.taskHandler.UpdateTaskStatus)
			team.DELETE("/tasks/:id", d.taskHandler.DeleteTask)

			team.POST("/notes", d.noteHandler.CreateNote)
			team.GET("/notes", d.noteHandler.ListNotes)
			team.PUT("/notes/:id", d.noteHandler.UpdateNote)
			team.DELETE("/notes/:id", d.noteHandler.DeleteNote)

			team.POST("/summaries", d.idempotency, d.summaryHandler.GenerateSummary)
			team.GET("/summaries/latest", d.summaryHandler.LatestSummary)
			team.POST("/summaries/convert", d.summaryHandler.ConvertToTask)

			team.GET("/analytics", d.analyticsHandler.TeamAnalytics)
			team.GET("/dashboard", d.analyticsHandler.Dashboard)
			team.GET("/realtime", d.realtimeHandler.Subscribe)
		}
	}
}
