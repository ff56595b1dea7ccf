package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/user/vidtube/internal/config"
	"github.com/user/vidtube/internal/handler"
	"github.com/user/vidtube/internal/media"
	"github.com/user/vidtube/internal/repository"
	"github.com/user/vidtube/internal/router"
	"github.com/user/vidtube/internal/service"
	"github.com/user/vidtube/internal/storage"
	"github.com/user/vidtube/internal/utils"
)

func main() {
	logger := utils.NewLogger(nil, os.Getenv("LOG_LEVEL"))

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file, using process environment")
	}

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a TOML configuration file",
		Sources: cli.EnvVars("VIDTUBE_CONFIG"),
	}

	app := &cli.Command{
		Name:  "vidtube",
		Usage: "Video sharing and microblogging API server",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error { return serve(ctx, cmd, logger) },
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: func(ctx context.Context, cmd *cli.Command) error { return migrate(ctx, cmd, logger) },
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error { return serve(ctx, cmd, logger) },
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}

func loadConfig(cmd *cli.Command, logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.IsProduction() && cfg.UsesDefaultSecrets() {
		logger.Error("production is running with default token secrets; set ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET")
	}
	return cfg, nil
}

func migrate(_ context.Context, cmd *cli.Command, logger *log.Logger) error {
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		return err
	}
	logger.Info("schema up to date")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command, logger *log.Logger) error {
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		return err
	}
	repos := repository.NewRepositories(db)

	store, err := newMediaStore(ctx, cfg)
	if err != nil {
		return err
	}

	var blacklist service.Blacklist = service.NewMemoryBlacklist()
	if cfg.RedisURL != "" {
		rb, err := service.NewRedisBlacklist(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rb.Close()
		blacklist = rb
	}

	svcs := service.New(service.StoresFrom(repos), service.Options{
		Tokens: service.TokenConfig{
			AccessSecret:  cfg.AccessTokenSecret,
			AccessTTL:     cfg.AccessTokenExpiry,
			RefreshSecret: cfg.RefreshTokenSecret,
			RefreshTTL:    cfg.RefreshTokenExpiry,
		},
		Blacklist:    blacklist,
		Media:        store,
		Prober:       media.NewProber(cfg.Probe.Binary, cfg.Probe.Timeout),
		HistoryLimit: cfg.WatchHistoryLimit,
		Logger:       logger,
	})

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	service.NewCleanupService(cfg.Upload.TempDir, time.Hour, 30*time.Minute, logger.WithPrefix("cleanup")).Start(runCtx)

	h := handler.NewHandler(cfg, svcs)
	r := router.NewEngine(h, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newMediaStore(ctx context.Context, cfg *config.Config) (storage.MediaStore, error) {
	if cfg.Media.Driver == "s3" {
		return storage.NewS3Store(ctx, cfg.Media)
	}
	return storage.NewLocalStore(cfg.Media.LocalDir, cfg.Media.PublicURL)
}
