package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"shortlink-desk/internal/config"
	"shortlink-desk/internal/desktop"
	"shortlink-desk/internal/handler"
	"shortlink-desk/internal/i18n"
	"shortlink-desk/internal/middleware"
	"shortlink-desk/internal/repository"
	"shortlink-desk/internal/service"
	"shortlink-desk/pkg/logging"
)

func newRegistry(cfg *config.Config) (*service.Registry, error) {
	db, err := repository.OpenDB(cfg.DB, logging.Logger, logging.AtomicLevel)
	if err != nil {
		return nil, err
	}

	pool := repository.NewRedisPool(cfg.Redis, logging.Logger)
	cache := repository.NewRedisLinkCache(pool, time.Duration(cfg.Redis.TTL)*time.Second, logging.Logger)

	return service.NewRegistry(db,
		service.WithCache(cache),
		service.WithLogger(logging.Logger),
		service.WithBaseURL(cfg.ShortLink.BaseURL),
		service.WithCodeLength(cfg.ShortLink.CodeLength),
	), nil
}

func newRouter(h *handler.Handler, catalog *i18n.Catalog) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 注册全局错误中间件
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(catalog))

	h.Register(r.Group("/api"))
	return r
}

func startScheduler(cronSpec string, registry *service.Registry) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		if _, err := registry.SnapshotDailyStats(context.Background(), time.Now()); err != nil {
			logging.Logger.Error("Failed to snapshot daily stats via cron job", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func startServer(addr string, r *gin.Engine) {
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.yaml")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	if err := logging.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logging.Logger.Sync() }()

	logging.Logger.Info("Application started")

	registry, err := newRegistry(cfg)
	if err != nil {
		logging.Logger.Fatal("Failed to open registry", zap.Error(err))
	}
	defer func() {
		if err := registry.Close(); err != nil {
			logging.Logger.Warn("Registry close failed", zap.Error(err))
		}
	}()

	catalog, err := i18n.InitI18n(cfg.I18n.DefaultLang)
	if err != nil {
		logging.Logger.Fatal("Failed to init i18n", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	shell := desktop.New(cfg.Desktop, logging.Logger)
	r := newRouter(handler.New(registry, shell), catalog)

	scheduler, err := startScheduler(cfg.Stats.Cron, registry)
	if err != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.Error(err))
	}
	defer func() { <-scheduler.Stop().Done() }()

	startServer(cfg.Server.Addr, r)

	// 退出前记录一次当天统计
	if _, err := registry.SnapshotDailyStats(context.Background(), time.Now()); err != nil {
		logging.Logger.Warn("Final daily stats snapshot failed", zap.Error(err))
	}
	logging.Logger.Info("Server exiting")
}
