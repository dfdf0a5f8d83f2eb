package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-delivery-admin-api/config"
	"food-delivery-admin-api/handlers"
	"food-delivery-admin-api/logger"
	"food-delivery-admin-api/media"
	"food-delivery-admin-api/middleware"
	"food-delivery-admin-api/routes"
	"food-delivery-admin-api/services"

	"github.com/gin-gonic/gin"
)

const serviceName = "food-delivery-admin-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Log.Level)
	slog.SetDefault(log)
	log.Info("starting", "action", "startup", "config", cfg.String())

	gin.SetMode(cfg.Server.Mode)

	db, err := config.OpenDB(cfg.Database, log)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	var images media.Store = media.NopStore{}
	if cfg.Media.CloudinaryURL != "" {
		cld, err := media.NewCloudinaryStore(cfg.Media.CloudinaryURL, cfg.Media.Folder)
		if err != nil {
			log.Error("Failed to configure image storage", "error", err)
			os.Exit(1)
		}
		images = cld
	} else {
		log.Warn("CLOUDINARY_URL not set, image uploads are disabled")
	}

	jwt := middleware.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	h := handlers.New(services.New(db, images, time.Now), jwt, cfg.Server.Mode == gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.RequestID(log), middleware.AccessLog(), middleware.Recovery(), middleware.CORS())
	routes.SetupRoutes(r, h, jwt)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", "addr", "http://localhost:"+cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down", "action", "shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
