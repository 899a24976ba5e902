package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sharath018/eventify-backend/config"
	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/comment"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/eventrsvp"
	"github.com/sharath018/eventify-backend/internal/metrics"
	"github.com/sharath018/eventify-backend/internal/notification"
	"github.com/sharath018/eventify-backend/internal/reports"
	"github.com/sharath018/eventify-backend/internal/user"
	"github.com/sharath018/eventify-backend/middleware"
	"gorm.io/gorm"

	_ "github.com/sharath018/eventify-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps is everything the router needs from the process.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	// Redis is optional.
	Redis *redis.Client
	// Notifications receives activities when Publisher is nil.
	Notifications notification.Service
	// Publisher overrides the in-process dispatcher (e.g. Kafka).
	Publisher activity.Publisher
}

// NewRouter builds the gin engine with global middleware and all routes.
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	// Forwarding headers are ignored unless the hop is listed.
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID", "X-Unread-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.AuditMiddleware())

	if err := Setup(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

// Setup wires repositories, services and handlers onto r.
func Setup(r *gin.Engine, d Deps) error {
	cfg := d.Config
	db := d.DB

	notifSvc := d.Notifications
	if notifSvc == nil {
		notifSvc = notification.NewService(notification.NewRepository(db), d.Redis)
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = activity.NewDispatcher(notifSvc.HandleActivity)
	}

	// Audit
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// Auth
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenExpire)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, tokens, auditSvc)
	authHandler := auth.NewHandler(authSvc)

	userHandler := user.NewHandler(user.NewService(authRepo, auditSvc))

	eventSvc := event.NewService(event.NewRepository(db), auditSvc, publisher)
	eventHandler := event.NewHandler(eventSvc)

	rsvpSvc := eventrsvp.NewService(eventrsvp.NewRepository(db), eventSvc, auditSvc, publisher)
	rsvpHandler := eventrsvp.NewHandler(rsvpSvc)

	commentSvc := comment.NewService(comment.NewRepository(db), eventSvc, auditSvc, publisher, cfg.CommentAutoApprove)
	commentHandler := comment.NewHandler(commentSvc)

	reportsHandler := reports.NewHandler(reports.NewReportService(rsvpSvc, reports.NewReportExporter(), auditSvc))

	notifHandler := notification.NewHandler(notifSvc, d.Redis, authSvc)

	limit, err := middleware.RateLimiter(cfg.RateLimitPerMinute, d.Redis)
	if err != nil {
		return err
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to EventiFy API"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(limit)

	requireAuth := middleware.AuthMiddleware(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)

	// ========== Auth ==========
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", requireAuth, authHandler.Me)
	}

	// ========== Users ==========
	users := api.Group("/users", requireAuth)
	{
		users.GET("/me", userHandler.GetMe)
		users.PUT("/me", userHandler.UpdateMe)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
	}

	// ========== Events ==========
	events := api.Group("/events")
	{
		events.GET("", optionalAuth, eventHandler.ListEvents)
		events.GET("/:id", optionalAuth, eventHandler.GetEvent)
		events.POST("", requireAuth, eventHandler.CreateEvent)
		events.PUT("/:id", requireAuth, eventHandler.UpdateEvent)
		events.DELETE("/:id", requireAuth, eventHandler.DeleteEvent)

		events.POST("/:id/rsvp", requireAuth, rsvpHandler.UpsertRSVP)
		events.GET("/:id/rsvps", requireAuth, rsvpHandler.ListRSVPs)
		events.GET("/:id/rsvps/export", requireAuth, reportsHandler.ExportAttendees)
		events.POST("/:id/rsvps/:rsvp_id/check-in", requireAuth, rsvpHandler.CheckIn)

		events.GET("/:id/comments", commentHandler.ListComments)
		events.POST("/:id/comments", requireAuth, commentHandler.CreateComment)
	}

	// ========== Comment moderation ==========
	// Served under both /events/comments and /comments.
	for _, prefix := range []string{"/events/comments", "/comments"} {
		comments := api.Group(prefix, requireAuth)
		comments.GET("/pending", commentHandler.ListPending)
		comments.PUT("/:comment_id", commentHandler.UpdateComment)
		comments.DELETE("/:comment_id", commentHandler.DeleteComment)
		comments.PUT("/:comment_id/approve", commentHandler.ApproveComment)
	}

	// ========== Notifications ==========
	// EventSource clients cannot set headers, so stream-token authenticates from the query string.
	api.GET("/notifications/stream-token", notifHandler.StreamInAppWithToken)
	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", notifHandler.GetMyInApp)
		notifications.PUT("/:id/read", notifHandler.MarkInAppRead)
		notifications.GET("/stream", notifHandler.StreamInApp)
	}

	// ========== Audit logs ==========
	auditRoutes := api.Group("/auditlogs", requireAuth, middleware.RBACMiddleware(auth.RoleAdmin))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	return nil
}
