package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/controllers"
	"github.com/cppla/postboard/middleware"
	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// Access is the authentication a route demands.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

// Route is one entry of the route policy table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

// Routes returns the policy table for the given controllers.
func Routes(
	auth *controllers.AuthController,
	posts *controllers.PostController,
	comments *controllers.CommentController,
	likes *controllers.LikeController,
	logs *controllers.LogController,
	stats *controllers.StatsController,
) []Route {
	return []Route{
		{http.MethodPost, "/auth", Public, auth.Register},
		{http.MethodPost, "/auth/login", Public, auth.Login},
		{http.MethodGet, "/auth/auth", Authenticated, auth.Auth},
		{http.MethodPost, "/auth/logout", Authenticated, auth.Logout},
		{http.MethodGet, "/auth/user/:id", Public, auth.GetUser},
		{http.MethodDelete, "/auth/user/:id", Admin, auth.DeleteUser},

		{http.MethodGet, "/posts", Authenticated, posts.ListPosts},
		{http.MethodGet, "/posts/:id", Public, posts.GetPost},
		{http.MethodPost, "/posts", Authenticated, posts.CreatePost},
		{http.MethodPut, "/posts/title", Authenticated, posts.UpdateTitle},
		{http.MethodPut, "/posts/postText", Authenticated, posts.UpdateText},
		{http.MethodDelete, "/posts/:postId", Authenticated, posts.DeletePost},

		{http.MethodGet, "/comments/:id", Public, comments.ListComments},
		{http.MethodPost, "/comments", Authenticated, comments.CreateComment},
		{http.MethodDelete, "/comments/:commentId", Authenticated, comments.DeleteComment},

		{http.MethodPost, "/likes", Authenticated, likes.Toggle},

		{http.MethodGet, "/logs", Admin, logs.ListLogs},
		{http.MethodGet, "/stats", Public, stats.GetStats},
	}
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cfg config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// no access log file configured
		r.Use(utils.RecoveryWithZap(utils.Logger, true))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", cfg.TokenHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())
	limits := services.Limits{
		PostTextMaxLength:    cfg.PostTextMaxLength,
		CommentTextMaxLength: cfg.CommentTextMaxLength,
	}
	audit := services.NewAuditLogger(db)

	table := Routes(
		controllers.NewAuthController(services.NewUserService(db, audit, tokens), cfg),
		controllers.NewPostController(services.NewPostService(db, audit, limits), cfg),
		controllers.NewCommentController(services.NewCommentService(db, audit, limits), cfg),
		controllers.NewLikeController(services.NewLikeService(audit), cfg),
		controllers.NewLogController(audit),
		controllers.NewStatsController(db),
	)

	authRequired := middleware.AuthRequired(tokens, cfg.TokenHeader)
	adminRequired := middleware.AdminRequired(cfg)
	for _, rt := range table {
		var handlers []gin.HandlerFunc
		switch rt.Access {
		case Authenticated:
			handlers = append(handlers, authRequired)
		case Admin:
			handlers = append(handlers, authRequired, adminRequired)
		}
		r.Handle(rt.Method, rt.Path, append(handlers, rt.Handler)...)
	}

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
