package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"taskflow.dev/taskflow/internal/blob"
	config "taskflow.dev/taskflow/internal/configs"
	httpapi "taskflow.dev/taskflow/internal/http"
	"taskflow.dev/taskflow/internal/identity"
	"taskflow.dev/taskflow/internal/logging"
	"taskflow.dev/taskflow/internal/notify"
	repository "taskflow.dev/taskflow/internal/repositories"
	"taskflow.dev/taskflow/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the project and task tracking HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		logger := logging.New(cfg.LogFile)

		database := config.NewDatabaseClient(cfg.DatabaseDSN)

		store, err := blob.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return err
		}

		projectRepo := repository.NewProjectRepository(database)
		taskRepo := repository.NewTaskRepository(database)
		userRepo := repository.NewUserRepository(database)
		notificationRepo := repository.NewNotificationRepository(database)

		// An empty REDIS_ADDR disables delivery; notifications still persist.
		var sink notify.Sink
		if cfg.RedisAddr != "" {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			sink = notify.NewRedisSink(redisClient, cfg.NotifyQueueKey)
		}

		notificationService := services.NewNotificationService(notificationRepo, sink, logger)
		projectService := services.NewProjectService(projectRepo, taskRepo, userRepo, store, logger)
		taskService := services.NewTaskService(taskRepo, projectRepo, store, notificationService, logger)

		verifier := identity.NewVerifier(cfg.JWTSecret)

		e := echo.New()
		e.HideBanner = true

		handler := httpapi.NewHandler(projectService, taskService, notificationService, cfg.MaxUploadMB)
		httpapi.Register(e, handler, verifier, userRepo, cfg.RateLimit)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			logger.Infof("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				logger.Infof("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
