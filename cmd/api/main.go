package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/damoang/caption-queue/docs"
	"github.com/damoang/caption-queue/internal/config"
	"github.com/damoang/caption-queue/internal/database"
	"github.com/damoang/caption-queue/internal/handler"
	"github.com/damoang/caption-queue/internal/middleware"
	"github.com/damoang/caption-queue/internal/migration"
	"github.com/damoang/caption-queue/internal/repository"
	"github.com/damoang/caption-queue/internal/routes"
	"github.com/damoang/caption-queue/internal/service"
	"github.com/damoang/caption-queue/internal/session"
	"github.com/damoang/caption-queue/internal/web"
	pkgcache "github.com/damoang/caption-queue/pkg/cache"
	"github.com/damoang/caption-queue/pkg/jwt"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	"github.com/damoang/caption-queue/pkg/mailer"
	pkgredis "github.com/damoang/caption-queue/pkg/redis"
	pkgstorage "github.com/damoang/caption-queue/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title           Caption Queue API
// @version         1.0
// @description     Caption generation and moderation queue
//
// @license.name    MIT
//
// @host            localhost:3000
// @BasePath        /

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	log := pkglogger.GetLogger()
	log.Info().Str("env", env).Strs("env_files", dotenvFiles).Msg("starting caption-queue")

	// 설정 로드
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// DB 연결 + 스키마
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if created, err := migration.SeedAdmin(context.Background(), db, cfg.Admin); err != nil {
		log.Error().Err(err).Msg("admin seed failed")
	} else if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("seeded admin user")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get underlying DB")
	}

	// Redis 연결 (선택)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory sessions")
			redisClient = nil
		} else {
			log.Info().Msg("connected to redis")
		}
	}

	var sessions session.Store
	if redisClient != nil {
		sessions = session.NewRedisStore(pkgcache.NewService(redisClient))
	} else {
		sessions = session.NewMemoryStore()
	}

	// Media store
	mediaStore, uploadDir, err := initMediaStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("media store init failed")
	}

	// Notifier
	var sender mailer.Sender = mailer.LogSender{}
	if cfg.SMTP.Host != "" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			Secure:   cfg.SMTP.Secure,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.NotifyEmail,
		})
	} else {
		log.Warn().Msg("SMTP_HOST not set, notifications are only logged")
	}
	notifier := service.NewMailNotifier(sender, cfg.SMTP.QueueSize, cfg.SMTP.Workers)

	if cfg.Caption.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, caption generation will fail")
	}

	// Services
	maxUploadBytes := cfg.Storage.MaxUploadMB * 1024 * 1024
	moderation := service.NewModerationService(
		service.NewMediaService(mediaStore, maxUploadBytes),
		service.NewOpenAICaptionClient(cfg.Caption),
		repository.NewPostRepository(db),
		notifier,
	)
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		sessions,
		jwt.NewManager(cfg.Session.Secret, cfg.Session.TTL),
	)

	// Gin 라우터 생성
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 8 << 20

	tmpl, err := web.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("template parse failed")
	}
	router.SetHTMLTemplate(tmpl)

	if origins := splitAndTrim(cfg.CORS.AllowOrigins, ","); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			AllowCredentials: true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
			MaxAge:           12 * time.Hour,
		}))
	}

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	routes.Setup(router, routes.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.Session.CookieName, cfg.Session.SecureCookie),
		Approval: handler.NewApprovalHandler(moderation),
		Caption:  handler.NewCaptionHandler(moderation, maxUploadBytes),
		Health:   handler.NewHealthHandler(sqlDB),
	}, authService, routes.Options{
		SessionCookie: cfg.Session.CookieName,
		UploadDir:     uploadDir,
		RedisClient:   redisClient,
	})

	// DB pool gauge
	stopStats := make(chan struct{})
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				middleware.SetDBConnectionsOpen(float64(sqlDB.Stats().OpenConnections))
			case <-stopStats:
				return
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	close(stopStats)
	// 큐에 남은 알림 전송
	if err := notifier.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("notifier did not drain")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("db close failed")
	}
	log.Info().Msg("server exited")
}

// initMediaStore returns the configured store and, for the local backend, the
// directory to serve under /uploads
func initMediaStore(cfg config.StorageConfig) (pkgstorage.Store, string, error) {
	if cfg.Driver == "s3" {
		s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Bucket:          cfg.Bucket,
			CDNURL:          cfg.CDNURL,
			BasePath:        cfg.BasePath,
			ForcePathStyle:  cfg.ForcePathStyle,
		})
		if err != nil {
			return nil, "", err
		}
		return s3Client, "", nil
	}

	local, err := pkgstorage.NewLocalStore(cfg.UploadDir, "uploads")
	if err != nil {
		return nil, "", err
	}
	return local, local.Root(), nil
}

// splitAndTrim splits a string by separator and trims whitespace
func splitAndTrim(s, sep string) []string {
	var result []string
	for _, p := range strings.Split(s, sep) {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return result
}
