package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ray-remotestate/tableorder/config"
	"github.com/ray-remotestate/tableorder/database"
	"github.com/ray-remotestate/tableorder/events"
	"github.com/ray-remotestate/tableorder/handlers"
	"github.com/ray-remotestate/tableorder/server"
	"github.com/ray-remotestate/tableorder/services"
	"github.com/sirupsen/logrus"
)

const shutdownTimeOut = 10 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	configureLogging(cfg.Log)

	ctx := context.Background()
	db, err := database.ConnectAndMigrate(ctx, cfg.Database)
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Info("migration is successful")

	var publisher events.Publisher = events.Nop{}
	var closers []io.Closer
	if cfg.Rabbit.URL != "" {
		rabbit, err := events.DialRabbit(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			logrus.Panicf("failed to connect to rabbitmq, error: %v", err)
		}
		publisher = rabbit
		closers = append(closers, rabbit)
		logrus.WithField("exchange", cfg.Rabbit.Exchange).Info("publishing order events")
	}
	closers = append(closers, db)

	authSvc := services.NewAuthService(db, cfg.Auth)
	if cfg.Auth.AdminUsername != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			logrus.Panicf("failed to seed admin, error: %v", err)
		}
		if created {
			logrus.WithField("username", cfg.Auth.AdminUsername).Info("admin account created")
		}
	}

	h := handlers.NewHandler(
		services.NewCartService(db),
		services.NewOrderService(db, cfg.StatusPolicy, publisher),
		services.NewTableService(db),
		services.NewCustomerService(db, cfg.SessionTTL),
		authSvc,
	)
	srv := server.SetupRoutes(h, cfg.Auth.SecretKey, authSvc)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.WithField("port", cfg.Port).Info("server is running")
		if err := srv.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Panicf("failed to run server, error: %v", err)
		}
	}()

	<-done

	logrus.Info("shutting down...")
	var result error
	if err := srv.Shutdown(shutdownTimeOut); err != nil {
		result = multierror.Append(result, err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		logrus.WithError(result).Error("failed to shut down cleanly")
		os.Exit(1)
	}
	logrus.Info("system is shut ..zzz")
}

func configureLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
}
