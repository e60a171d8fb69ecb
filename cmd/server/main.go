package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trip-activity-go/internal/analysis/accuracy"
	"github.com/jengzang/trip-activity-go/internal/api"
	"github.com/jengzang/trip-activity-go/internal/config"
	"github.com/jengzang/trip-activity-go/internal/database"
	"github.com/jengzang/trip-activity-go/internal/handler"
	"github.com/jengzang/trip-activity-go/internal/logging"
	"github.com/jengzang/trip-activity-go/internal/middleware"
	"github.com/jengzang/trip-activity-go/internal/repository"
	"github.com/jengzang/trip-activity-go/internal/service"
)

func main() {
	configPath := flag.String("config", config.GetConfigPath(), "path to a YAML config file")
	issueToken := flag.String("issue-token", "", "print a bearer token for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of an issued token")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	if *issueToken != "" {
		token, err := middleware.IssueToken(cfg.Auth.JWTSecret, *issueToken, *tokenTTL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to issue token")
		}
		fmt.Println(token)
		return
	}

	unit, err := accuracy.ParseUnit(cfg.Batch.DistanceUnit)
	if err != nil {
		logger.WithError(err).Fatal("Invalid distance unit")
	}

	// 初始化数据库
	var traces *repository.TraceRepository
	var evaluations *repository.EvaluationRepository
	if cfg.Database.Path != "" {
		if err := database.Init(database.Config{Path: cfg.Database.Path}); err != nil {
			logger.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close()

		if err := database.NewMigrationManager(database.GetDB(), logger).RunMigrations(); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}

		traces = repository.NewTraceRepository(database.GetDB())
		evaluations = repository.NewEvaluationRepository(database.GetDB())
	} else {
		logger.Warn("No database path configured, storage endpoints are disabled")
	}

	svc := service.NewSegmentationService(traces, evaluations, cfg.Segmentation, logger)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Requests > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		defer limiter.Stop()
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Segmentation: handler.NewSegmentationHandler(svc),
		Evaluation:   handler.NewEvaluationHandler(svc, unit),
		Trace:        handler.NewTraceHandler(svc, cfg.IngestOptions(), unit),
	}, logger, limiter)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 启动服务器
	go func() {
		logger.WithField("addr", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}
