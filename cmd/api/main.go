package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "charbit-go/api/openapi"
	"charbit-go/internal/api/handler"
	"charbit-go/internal/api/middleware"
	"charbit-go/internal/api/router"
	"charbit-go/internal/config"
	"charbit-go/internal/infra/cache"
	"charbit-go/internal/infra/database"
	infraES "charbit-go/internal/infra/elasticsearch"
	infraKafka "charbit-go/internal/infra/kafka"
	infraMinio "charbit-go/internal/infra/minio"
	"charbit-go/internal/infra/oauth"
	infraRedis "charbit-go/internal/infra/redis"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"
	"charbit-go/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title CharBit API
// @version 1.0
// @description 原创角色分享平台 API 服务

// @host 127.0.0.1:8000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// .env 不存在时忽略
	_ = godotenv.Load()

	configPath := os.Getenv("CHARBIT_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(logger.Options{
		Service:    "charbit-api",
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(model.All()...); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// Redis（可选，失败则使用进程内缓存）
	redisClient := infraRedis.ConnectOptional(context.Background(), &cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}
	tagCache := cache.New(redisClient)

	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	tagRepo := repository.NewTagRepository(db)

	// Elasticsearch（可选，失败则搜索降级到 DB）
	var searchIndex service.SearchIndex
	if cfg.Elasticsearch.Enabled {
		if esClient, err := infraES.NewClient(&cfg.Elasticsearch); err != nil {
			logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		} else {
			index := infraES.NewCharacterIndex(esClient, cfg.Elasticsearch.CharacterIndex())
			if err := index.EnsureIndex(context.Background()); err != nil {
				logger.Warn("Elasticsearch index init failed", zap.Error(err))
			}
			searchIndex = index
		}
	}
	searchService := service.NewSearchService(characterRepo, searchIndex)

	// 角色事件：Kafka 启用时交给 worker 同步索引，否则直接同步
	var events service.EventPublisher
	switch {
	case cfg.Kafka.Enabled:
		publisher := infraKafka.NewPublisher(&cfg.Kafka)
		defer publisher.Close()
		events = publisher
	case searchIndex != nil:
		events = searchService
	}

	var avatars service.AvatarStorage
	if cfg.MinIO.Enabled {
		if store, err := infraMinio.NewAvatarStore(&cfg.MinIO); err != nil {
			logger.Warn("MinIO init failed, avatar upload disabled", zap.Error(err))
		} else {
			avatars = store
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireDuration(), cfg.App.Name)

	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, relationRepo, verificationRepo)
	interactionService := service.NewInteractionService(characterRepo, interactionRepo, events)
	relationService := service.NewRelationService(relationRepo, friendshipRepo, userRepo)
	friendshipService := service.NewFriendshipService(friendshipRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, friendshipRepo)
	creatorService := service.NewCreatorService(userRepo, verificationRepo)
	verificationService := service.NewVerificationService(verificationRepo, userRepo)
	tagService := service.NewTagService(tagRepo, tagCache, cfg.Cache.TrendingDuration())
	characterService := service.NewCharacterService(characterRepo, interactionRepo, searchService, events, avatars).
		WithTagInvalidator(tagService)

	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService, oauth.NewGoogleProvider(&cfg.Google), cfg.Google.SuccessURL),
		User:       handler.NewUserHandler(userService),
		Character:  handler.NewCharacterHandler(characterService, interactionService, cfg.MinIO.MaxAvatarMB),
		Relation:   handler.NewRelationHandler(relationService),
		Friendship: handler.NewFriendshipHandler(friendshipService),
		Message:    handler.NewMessageHandler(messageService),
		Creator:    handler.NewCreatorHandler(creatorService, verificationService),
		Tag:        handler.NewTagHandler(tagService),
		Admin:      handler.NewAdminHandler(creatorService, verificationService, searchService),
	}

	gin.SetMode(cfg.App.Mode)
	r := gin.New()

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	stopJanitor := make(chan struct{})
	defer close(stopJanitor)
	go limiter.RunJanitor(5*time.Minute, 10*time.Minute, stopJanitor)

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(limiter.Middleware())
	r.Use(sessions.Sessions(cfg.Session.Name, store))

	r.GET("/healthz", healthCheckHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Setup(r, handlers, jwtManager, userService.GetRole)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Optional components",
		zap.Bool("redis", redisClient != nil),
		zap.Bool("elasticsearch", searchIndex != nil),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("minio", avatars != nil),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	status := http.StatusOK
	dbStatus := "ok"
	if sqlDB, err := database.Get().DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"mode":      cfg.App.Mode,
	})
}
