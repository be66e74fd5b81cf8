package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/config"
	"github.com/HarshitSharma-h8/messmate/controllers"
	"github.com/HarshitSharma-h8/messmate/middleware"
	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/services"
	"github.com/HarshitSharma-h8/messmate/store"
	"github.com/HarshitSharma-h8/messmate/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	ctx := context.Background()

	client, db, err := config.ConnectDB(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	if err := store.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("index bootstrap failed", zap.Error(err))
	}
	logger.Info("connected to mongodb", zap.String("db", cfg.Mongo.DB))

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, stats cache disabled", zap.Error(err))
			cache = nil
		}
	}

	jwtMgr, err := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		logger.Fatal("jwt setup failed", zap.Error(err))
	}

	mailer := &utils.SMTPMailer{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	}

	st := store.NewMongoStore(db)
	eventSvc := services.NewEventService(st, logger)
	tokenSvc := services.NewTokenService(st, eventSvc, logger)
	statsSvc := services.NewStatsService(st, eventSvc, cache, cfg.Redis.StatsTTL, logger)
	authSvc := services.NewAuthService(st, mailer, jwtMgr,
		cfg.Auth.AdminSecret, cfg.Auth.OTPTTL, cfg.Auth.ResetTTL, cfg.Auth.ResetBaseURL, logger)

	router := newRouter(cfg, logger, jwtMgr, st, eventSvc, tokenSvc, statsSvc, authSvc)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect failed", zap.Error(err))
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Error("redis close failed", zap.Error(err))
		}
	}

	logger.Info("server exited")
}

func newLogger(env string) *zap.Logger {
	if env == "prod" {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("logger: %v", err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}

func newRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtMgr *utils.JWTManager,
	st *store.Store,
	eventSvc *services.EventService,
	tokenSvc *services.TokenService,
	statsSvc *services.StatsService,
	authSvc *services.AuthService,
) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Mess Management Backend is running",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "UP",
			"timestamp": time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authCtl := controllers.NewAuthController(authSvc)
	messCtl := controllers.NewMessController(st.Messes)
	eventCtl := controllers.NewEventController(eventSvc)
	tokenCtl := controllers.NewTokenController(tokenSvc)
	adminCtl := controllers.NewAdminController(statsSvc)

	authRequired := middleware.Auth(jwtMgr)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authCtl.Register)
			auth.POST("/verify-otp", authCtl.VerifyOTP)
			auth.POST("/login", authCtl.Login)
			auth.POST("/logout", authRequired, authCtl.Logout)
			auth.POST("/forgot-password", authCtl.ForgotPassword)
			auth.POST("/reset-password", authCtl.ResetPassword)
		}

		api.POST("/mess", authRequired, adminOnly, messCtl.Create)

		events := api.Group("/events", authRequired)
		{
			events.POST("", adminOnly, eventCtl.Create)
			events.GET("/active", eventCtl.Active)
		}

		tokens := api.Group("/tokens", authRequired)
		{
			tokens.POST("", tokenCtl.Issue)
			tokens.GET("/mine", tokenCtl.Mine)
			tokens.POST("/verify", adminOnly, tokenCtl.Verify)
		}

		admin := api.Group("/admin", authRequired, adminOnly)
		{
			admin.GET("/event-stats", adminCtl.EventStats)
			admin.GET("/entries", adminCtl.Entries)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.Envelope{
			Success:    false,
			Message:    "Route not found",
			StatusCode: http.StatusNotFound,
		})
	})

	return router
}
