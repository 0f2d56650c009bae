package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/restaurant-api/internal/config"
	"github.com/nsxzhou1114/restaurant-api/internal/database"
	"github.com/nsxzhou1114/restaurant-api/internal/job"
	"github.com/nsxzhou1114/restaurant-api/internal/logger"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/router"
	"github.com/nsxzhou1114/restaurant-api/internal/service"
	"github.com/nsxzhou1114/restaurant-api/pkg/auth"
	"github.com/nsxzhou1114/restaurant-api/pkg/cache"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "restaurant-api",
	Short: "Restaurant review API",
	Long:  `Restaurant review service: accounts, restaurants, reviews, favorites and owner notifications`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "directory holding config.yaml")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// app process-wide dependencies
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	cache    *cache.Manager
	services *service.Services
}

// initializeSystem loads config, logging and the database; redis is optional
func initializeSystem() (*app, error) {
	if err := config.Init(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	cfg := config.GetConfig()
	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("jwt.secret_key is required")
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := model.InitTables(db); err != nil {
		return nil, err
	}

	redisClient := database.GetRedis()
	cacheManager := cache.NewManager(redisClient, cache.Options{
		TTL:                time.Duration(cfg.Cache.RestaurantTTLSeconds) * time.Second,
		BloomCapacity:      cfg.Cache.BloomCapacity,
		BloomFalsePositive: cfg.Cache.BloomFalsePositive,
	})

	tokens := auth.NewTokenManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.ExpireHours)*time.Hour,
		auth.NewBlacklist(auth.BlacklistType(cfg.JWT.Blacklist), redisClient),
	)

	return &app{
		cfg:      cfg,
		db:       db,
		cache:    cacheManager,
		services: service.New(db, tokens, cacheManager),
	}, nil
}

// close releases the cache backend and the database
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.cache.Close(ctx); err != nil {
		logger.Warn("close cache", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = logger.Sync()
}

func startServer() error {
	a, err := initializeSystem()
	if err != nil {
		return err
	}
	defer a.close()

	if err := cache.WarmRestaurantFilter(context.Background(), a.cache, a.db); err != nil {
		logger.Warn("warm restaurant filter", zap.Error(err))
	}

	scheduler, err := job.NewScheduler(a.cfg.Job, a.services.Notifications)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	scheduler.Start()

	gin.SetMode(a.cfg.App.Mode)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.App.Port),
		Handler:           router.New(a.cfg, a.services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		return err
	}
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	scheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
