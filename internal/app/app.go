package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	videoHTTP "cloud-video/internal/controller/http"
	"cloud-video/internal/guard"
	"cloud-video/internal/repo/persistent"
	"cloud-video/internal/usecase"
	"cloud-video/pkg/config"
	"cloud-video/pkg/database"
	"cloud-video/pkg/jwt"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/middleware"
	"cloud-video/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "cloud-video/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	storage     storage.Storage
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New()
	if cfg.IsDev() {
		log = logger.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	if cfg.IsDev() {
		if err := persistent.AutoMigrate(db); err != nil {
			log.Error("Failed to migrate database: %v", err)
			_ = database.Close(db)
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialise storage: %v", err)
		_ = database.Close(db)
		return nil, err
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Rate limiting fails open, so an unreachable Redis is not fatal.
			log.Warn("Redis at %s is unreachable: %v", cfg.RedisAddr, err)
		}
	}

	if err := videoHTTP.RegisterValidators(); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("register validators: %w", err)
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		storage:     store,
		jwtService:  jwt.NewService(cfg.SecretKey, cfg.AccessTokenTTL),
	}, nil
}

// Router builds the gin engine with every route and middleware attached.
func (a *App) Router() *gin.Engine {
	// Initialize repositories
	userRepo := persistent.NewUserRepository(a.db)
	videoRepo := persistent.NewVideoRepository(a.db)
	commentRepo := persistent.NewCommentRepository(a.db)
	ratingRepo := persistent.NewRatingRepository(a.db)

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, a.jwtService, a.log)
	userUseCase := usecase.NewUserUseCase(userRepo, a.storage, a.log)
	videoUseCase := usecase.NewVideoUseCase(videoRepo, a.storage, a.log)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, videoRepo, a.log)
	ratingUseCase := usecase.NewRatingUseCase(ratingRepo, videoRepo, a.log)

	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery(a.log))

	// ClientIP keys the auth rate limit, so forwarded headers are honoured
	// only from configured proxies.
	if err := r.SetTrustedProxies(a.cfg.TrustedProxies); err != nil {
		a.log.Error("Invalid TRUSTED_PROXIES, trusting none: %v", err)
		_ = r.SetTrustedProxies(nil)
	}

	if origins := a.cfg.CORSOrigins; len(origins) > 0 {
		corsConfig := cors.Config{
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}
		if slices.Contains(origins, "*") {
			corsConfig.AllowAllOrigins = true
			corsConfig.AllowCredentials = false
		} else {
			corsConfig.AllowOrigins = origins
		}
		r.Use(cors.New(corsConfig))
	}

	if a.cfg.IsDev() && !a.cfg.UsesCloudStorage() {
		r.Static(storage.StaticPrefix, a.cfg.LocalUploadDir)
	}

	var authLimiter gin.HandlerFunc
	if a.redisClient != nil {
		authLimiter = middleware.RateLimitMiddleware(a.redisClient, a.cfg.AuthRateLimitPerMinute, time.Minute, a.log)
	}

	videoHTTP.RegisterRoutes(r, videoHTTP.Handlers{
		Auth:    videoHTTP.NewAuthHandler(authUseCase, a.log),
		User:    videoHTTP.NewUserHandler(userUseCase, a.log),
		Video:   videoHTTP.NewVideoHandler(videoUseCase, a.log),
		Comment: videoHTTP.NewCommentHandler(commentUseCase, a.log),
		Rating:  videoHTTP.NewRatingHandler(ratingUseCase, a.log),
	}, videoHTTP.RouterOptions{
		Guard:          guard.New(a.jwtService, userRepo, a.log),
		Logger:         a.log,
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		AuthLimiter:    authLimiter,
	})

	return r
}

func (a *App) Run() error {
	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Video service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down video service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Video service exited")
	return shutdownErr
}
