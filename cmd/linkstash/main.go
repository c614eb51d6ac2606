package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/linkstash/server/internal/config"
	"github.com/linkstash/server/internal/db"
	"github.com/linkstash/server/internal/filestore"
	"github.com/linkstash/server/internal/handler"
	"github.com/linkstash/server/internal/job"
	"github.com/linkstash/server/internal/middleware"
	"github.com/linkstash/server/internal/repo"
	"github.com/linkstash/server/internal/schedule"
	"github.com/linkstash/server/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "linkstash",
		Short: "linkstash backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run linkstash server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(conn)
	linkRepo := repo.NewLinkRepo(conn)
	groupRepo := repo.NewGroupRepo(conn)
	tagRepo := repo.NewTagRepo(conn)
	linkTagRepo := repo.NewLinkTagRepo(conn)
	commentRepo := repo.NewCommentRepo(conn)
	linkBookmarkRepo := repo.NewLinkBookmarkRepo(conn)
	groupBookmarkRepo := repo.NewGroupBookmarkRepo(conn)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	tagService := service.NewTagService(conn, tagRepo)
	linkService := service.NewLinkService(conn, linkRepo, linkTagRepo, tagRepo, linkBookmarkRepo, userRepo)
	groupService := service.NewGroupService(conn, groupRepo, linkRepo, groupBookmarkRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, linkRepo)
	exportService := service.NewExportService(linkRepo, linkTagRepo)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Links:     handler.NewLinkHandler(linkService),
		Groups:    handler.NewGroupHandler(groupService),
		Tags:      handler.NewTagHandler(tagService),
		Comments:  handler.NewCommentHandler(commentService),
		Export:    handler.NewExportHandler(exportService),
		Files:     handler.NewFileHandler(store, cfg.BaseURL),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewTagCleanupJob(tagService), cfg.TagCleanupSpec); err != nil {
		return fmt.Errorf("schedule tag cleanup: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
