package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mediqore/hospital-api/internal/config"
	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/handlers"
	"github.com/mediqore/hospital-api/internal/logger"
	"github.com/mediqore/hospital-api/internal/router"
	"github.com/mediqore/hospital-api/internal/services"
	"github.com/mediqore/hospital-api/internal/utils"
	"github.com/mediqore/hospital-api/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	utils.InitJWT(cfg.JWTSecret, cfg.JWTTTL)
	if err := validation.Register(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer db.Client().Disconnect(ctx)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	notify := services.NewNotifier(cfg.NotifyURL, cfg.NotifyAPIKey, log)
	docs := services.NewDocumentRenderer()
	cache := services.NewAnalyticsCache(cfg.RedisAddr)
	if cache != nil {
		log.Info("analytics cache enabled", zap.String("redis", cfg.RedisAddr))
	}

	h := handlers.NewHandler(db, log, notify, docs, cache)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.New(h, database.NewUserStore(db), cfg.CORSOrigins)

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
