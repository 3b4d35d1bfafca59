package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shapelessblog/internal/config"
	"github.com/shapelessblog/internal/db"
	"github.com/shapelessblog/internal/handler"
	"github.com/shapelessblog/internal/logging"
	"github.com/shapelessblog/internal/router"
	"github.com/shapelessblog/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	createUser := flag.Bool("create-user", false, "create a user and exit")
	newUsername := flag.String("new-username", "", "username for -create-user")
	newPassword := flag.String("new-password", "", "password for -create-user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logCloser, err := logging.Setup(cfg)
	if err != nil {
		logrus.Fatalf("failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	// 初始化数据库
	gdb, err := db.Open(db.Options{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		Logger:       logging.GormLogger(),
	})
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	defer db.Close(gdb)

	if cfg.AutoMigrate || *migrateOnly {
		if err := db.Migrate(gdb); err != nil {
			logrus.Fatalf("failed to migrate database: %v", err)
		}
		logrus.Info("database migrated")
	}
	if *migrateOnly {
		return
	}

	if *createUser {
		user, err := service.NewUserService(gdb).Register(context.Background(), *newUsername, *newPassword)
		if err != nil {
			logrus.Fatalf("failed to create user: %v", err)
		}
		logrus.WithFields(logrus.Fields{"id": user.ID, "username": user.Username}).Info("user created")
		return
	}

	gin.SetMode(cfg.GinMode)
	api := handler.NewAPI(gdb, handler.Options{TokenTTL: cfg.TokenTTL, SiteName: cfg.SiteName})
	r, err := router.SetupRouter(api, router.Options{OpenRegistration: cfg.OpenRegistration})
	if err != nil {
		logrus.Fatalf("failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("server shutdown did not complete cleanly")
	}
}
