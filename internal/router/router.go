package router

import (
	"net/http"

	"github.com/samyuktha-jana/SAP-hackathon/internal/app"
	"github.com/samyuktha-jana/SAP-hackathon/internal/handler"
	"github.com/samyuktha-jana/SAP-hackathon/internal/middleware"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine and the JSON API.
func SetupRouter(a *app.App) *gin.Engine {
	cfg := a.Cfg
	db := a.DB
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(a.Log), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ====== API ======
	api := r.Group("/api")

	// 登录接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, a.Log)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, db),
		middleware.AuditMiddleware(db, cfg.Security.EncryptionKey, a.Log),
	)
	staff := middleware.RequireRole(models.RoleAgent)
	admin := middleware.RequireRole(models.RoleAdmin)

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	mentorHandler := handler.NewMentorHandler(a.Mentors, a.Log)
	protected.GET("/mentors/search", mentorHandler.Search)

	sessionHandler := handler.NewSessionHandler(a.Sessions, a.Log)
	protected.POST("/sessions", sessionHandler.Create)
	protected.GET("/sessions/pending", sessionHandler.Pending)
	protected.GET("/sessions/mine", sessionHandler.Mine)
	protected.GET("/sessions/meetings", sessionHandler.Meetings)
	protected.POST("/sessions/:id/approve", sessionHandler.Approve)
	protected.POST("/sessions/:id/reject", sessionHandler.Reject)
	protected.POST("/sessions/:id/feedback", sessionHandler.Feedback)

	notificationHandler := handler.NewNotificationHandler(a.Notifications)
	protected.GET("/notifications", notificationHandler.List)
	protected.DELETE("/notifications", notificationHandler.Clear)
	protected.GET("/notifications/:id/invite", notificationHandler.Invite)

	chatHandler := handler.NewChatHandler(a.Chat, a.Log)
	protected.POST("/chat", chatHandler.Send)
	protected.GET("/chat/history", chatHandler.History)
	protected.DELETE("/chat/history", chatHandler.Clear)

	ticketHandler := handler.NewTicketHandler(a.Tickets, a.Log)
	protected.POST("/tickets", ticketHandler.Create)
	protected.GET("/tickets/mine", ticketHandler.Mine)
	protected.PUT("/tickets/:id/status", ticketHandler.UpdateStatus)
	protected.GET("/tickets/counts", ticketHandler.Counts)
	protected.GET("/tickets/categories", ticketHandler.Categories)
	protected.GET("/tickets/queue", staff, ticketHandler.Queue)
	protected.PUT("/tickets/:id/triage", staff, ticketHandler.Triage)
	protected.GET("/tickets/metrics", staff, ticketHandler.Metrics)
	protected.POST("/tickets/categories", admin, ticketHandler.AddCategory)

	progressHandler := handler.NewProgressHandler(a.Progress, a.Log)
	protected.GET("/progress/:kind", progressHandler.List)
	protected.PUT("/progress/:kind", progressHandler.Set)

	learningHandler := handler.NewLearningHandler(a.Learning, a.Log)
	protected.GET("/learning/roles", learningHandler.Roles)
	protected.POST("/learning/gap", learningHandler.Gap)
	protected.POST("/learning/plan", learningHandler.GeneratePlan)
	protected.GET("/learning/plan", learningHandler.GetPlan)
	protected.PUT("/learning/plan/phases/:phase", learningHandler.SetPhase)
	protected.GET("/learning/recommendations", learningHandler.Recommendations)

	protected.GET("/rewards", handler.Leaderboard(db))

	logHandler := handler.NewLogHandler(db, cfg.Security.EncryptionKey, cfg.App.PageSize)
	protected.GET("/logs", logHandler.ListLogs)

	importExportHandler := handler.NewImportExportHandler(a.Tickets, a.Progress, a.Importer, a.Log)
	protected.GET("/export/tickets.csv", importExportHandler.ExportTicketsCSV)
	protected.GET("/export/tickets.xlsx", importExportHandler.ExportTicketsXLSX)
	protected.GET("/export/progress.xlsx", importExportHandler.ExportProgressXLSX)
	protected.POST("/admin/import", admin, importExportHandler.ImportUsers)

	return r
}
