package routes

import (
	"net/http"

	"github.com/damoang/caption-queue/internal/handler"
	"github.com/damoang/caption-queue/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles the HTTP handlers mounted by Setup
type Handlers struct {
	Auth     *handler.AuthHandler
	Approval *handler.ApprovalHandler
	Caption  *handler.CaptionHandler
	Health   *handler.HealthHandler
}

// Options controls the optional parts of the route table
type Options struct {
	SessionCookie string
	UploadDir     string        // served under /uploads when set (local media store)
	RedisClient   *redis.Client // login rate limit; nil disables it
}

// Setup configures all routes
func Setup(router *gin.Engine, h Handlers, auth middleware.Authenticator, opts Options) {
	// Operational endpoints (no auth)
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	// Login / logout
	router.GET("/login", h.Auth.LoginPage)
	router.POST("/login", middleware.RateLimit(opts.RedisClient, middleware.LoginRateLimitConfig()), h.Auth.Login)
	router.GET("/logout", h.Auth.Logout)

	// Operator pages (session required)
	operator := router.Group("", middleware.SessionAuth(auth, opts.SessionCookie))
	operator.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/approval") })
	operator.GET("/approval", h.Approval.ListPending)
	operator.POST("/approve", h.Approval.Approve)
	operator.POST("/comment", h.Approval.Comment)
	operator.GET("/caption-generator", h.Caption.GeneratorPage)
	operator.POST("/generate-caption", h.Caption.GenerateCaption)
}
