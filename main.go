package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sciarticles/config"
	"sciarticles/helper"
	"sciarticles/middleware"
	"sciarticles/repositories"
	"sciarticles/router"
	"sciarticles/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	rdb, err := config.InitRedis(cfg)
	if err != nil {
		logger.Fatal("init redis", zap.Error(err))
	}
	if rdb == nil {
		logger.Info("redis not configured, public list cache disabled")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	articleCache := repositories.NewArticleCache(rdb, cfg.Redis.TTL)

	// Initialize services
	var profiles services.ProfileProvider = services.ClaimsProfileProvider{}
	if cfg.Identity.Provider == config.ProviderClerk {
		profiles = services.NewClerkProfileProvider(cfg.Identity.ClerkAPIURL, cfg.Identity.ClerkSecretKey)
	}
	identityService := services.NewIdentityService(userRepo, profiles, logger)
	articleService := services.NewArticleService(articleRepo, tagRepo, articleCache, services.ArticleServiceOptions{
		RequirePublishCapability: cfg.Publishing.RequireCapability,
	}, logger)

	verifier, err := middleware.NewSessionVerifier(cfg.Identity.JWTSecret, cfg.Identity.JWTPublicKey)
	if err != nil {
		logger.Fatal("init session verifier", zap.Error(err))
	}

	r := router.InitRouter(router.Dependencies{
		Log:             logger,
		Helper:          helper.NewHTTPHelper(logger),
		Verifier:        verifier,
		IdentityService: identityService,
		ArticleService:  articleService,
		Renderer:        services.NewMarkdownRenderer(),
		AllowedOrigins:  cfg.CORS.Origins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("mode", cfg.App.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exiting")
}
