package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitnesshub/fitness-api/internal/api"
	"fitnesshub/fitness-api/internal/config"
	"fitnesshub/fitness-api/internal/logging"
	"fitnesshub/fitness-api/internal/repository"
	"fitnesshub/fitness-api/internal/repository/memory"
	"fitnesshub/fitness-api/internal/repository/mongo"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Fitness Hub API
// @version 1.0
// @description API for admins, trainers and users: accounts, trainer assignment, workout plans, nutrition logs and appointments.
// @host localhost:5000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	log := logging.New(cfg.Log)
	log.WithFields(logrus.Fields{
		"driver": cfg.Database.Driver,
		"mode":   cfg.Server.Mode,
	}).Info("configuration loaded")

	gin.SetMode(cfg.Server.Mode)

	// --- Persistence ---
	store, closeStore, err := openStore(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("could not open store")
	}
	defer closeStore()

	// --- HTTP ---
	router := api.NewRouter(cfg.Server, log, api.NewServices(store, cfg.JWT))

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exited")
}

// openStore returns the configured repositories and a func releasing them.
func openStore(cfg config.DatabaseConfig, log *logrus.Logger) (repository.Store, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn("using in-memory store; data is lost on restart")
		return memory.New().Repositories(), func() {}, nil
	}

	client, err := mongo.ConnectDB(cfg.URI)
	if err != nil {
		return repository.Store{}, nil, err
	}
	db := client.Database(cfg.Name)
	log.WithField("database", cfg.Name).Info("database connection established")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		for collection, err := range mongo.EnsureIndexes(ctx, db) {
			log.WithError(err).WithField("collection", collection).Error("index creation failed")
		}
		log.Debug("index creation completed")
	}()

	closeFn := func() {
		if err := mongo.DisconnectDB(client); err != nil {
			log.WithError(err).Error("failed to disconnect mongodb")
		}
	}
	return mongo.NewStore(client, db, cfg.Transactions), closeFn, nil
}
