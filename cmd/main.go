package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestio-app/gestio/config"
	"github.com/gestio-app/gestio/internal/dto"
	"github.com/gestio-app/gestio/internal/handler"
	"github.com/gestio-app/gestio/internal/middleware"
	"github.com/gestio-app/gestio/internal/repository"
	"github.com/gestio-app/gestio/internal/router"
	"github.com/gestio-app/gestio/internal/service"
	"github.com/gestio-app/gestio/pkg/database"
	"github.com/gestio-app/gestio/pkg/logger"
	"github.com/gestio-app/gestio/pkg/mailer"
	"github.com/gestio-app/gestio/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	if err := logger.InitLogger(cfg.App.Environment); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.GetLogger()
	log.Info("Starting service",
		zap.String("environment", cfg.App.Environment),
		zap.String("port", cfg.App.Port),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}
	if err := database.Seed(db); err != nil {
		log.Fatal("Database seeding failed", zap.Error(err))
	}

	redisClient := redis.NewClient(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		Enabled:      cfg.Redis.Enabled,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, log)
	defer redisClient.Close()

	if err := dto.RegisterValidators(); err != nil {
		log.Fatal("Validator registration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	passwordSvc := service.NewPasswordService(cfg.Auth.BcryptCost)
	tokenSvc, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	if err != nil {
		log.Fatal("Token service initialization failed", zap.Error(err))
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		From:       cfg.Mail.From,
		Username:   cfg.Mail.Username,
		Password:   cfg.Mail.Password,
		Encryption: cfg.Mail.Encryption,
		Timeout:    cfg.Mail.Timeout,
	}, log)

	authSvc := service.NewAuthService(userRepo, sessionRepo, passwordSvc, tokenSvc, smtpMailer, service.AuthConfig{
		FrontendURL:      cfg.Auth.FrontendURL,
		UniformResponses: cfg.Auth.UniformResponses,
		VerificationTTL:  cfg.Auth.VerificationTTL,
		ResetTTL:         cfg.Auth.ResetTTL,
		SessionRenewal:   cfg.Auth.SessionRenewal,
		DBTimeout:        cfg.Database.Timeout,
		MailTimeout:      cfg.Mail.Timeout,
	})
	userSvc := service.NewUserService(userRepo, passwordSvc)
	throttleSvc := service.NewThrottleService(redisClient, cfg.Auth.ThrottleMax, cfg.Auth.ThrottleWindow)

	engine := router.New(cfg, router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc, throttleSvc),
		User:   handler.NewUserHandler(userSvc),
		Health: handler.NewHealthHandler(db, redisClient),
		Guard:  middleware.NewAuthGuard(authSvc, userRepo),
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.App.Timeout,
		WriteTimeout: cfg.App.Timeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
