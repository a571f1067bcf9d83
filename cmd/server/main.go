package main

// @title           Fontsmith 可变字体实例化服务
// @version         0.1.0
// @description     基于 Go(Gin) 的字体服务：按轴取值将可变字体实例化为静态 TTF/WOFF2 文件，实例化委托给 fontTools。
// @schemes         http https
// @BasePath        /

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fontsmith/internal/config"
	"fontsmith/internal/fonttools"
	"fontsmith/internal/handlers"
	"fontsmith/internal/metrics"
	"fontsmith/internal/middlewares"
	"fontsmith/internal/services"
	"fontsmith/internal/storage"
)

// main 为服务入口：加载配置、检查字体目录与 fontTools、注册路由并启动 HTTP 服务。
func main() {
	// 配置结构化日志格式
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}
	if cfg.Env != "prod" {
		log.SetLevel(log.DebugLevel)
	}
	log.WithFields(log.Fields{
		"env":          cfg.Env,
		"http_addr":    cfg.HTTPAddr,
		"font_dir":     cfg.FontDir,
		"default_font": cfg.DefaultFont,
		"static_dir":   cfg.StaticDir,
		"fonttools":    cfg.Instancer.Command,
		"cors":         cfg.CORS.Enable,
	}).Info("configuration loaded")

	// 默认字体缺失时拒绝启动：前端页面依赖它
	fontDir := storage.NewFontDir(cfg.FontDir)
	if !fontDir.Exists(cfg.DefaultFont) {
		log.WithField("path", filepath.Join(cfg.FontDir, cfg.DefaultFont)).Fatal("default font not found")
	}

	cli := fonttools.NewCLI(cfg.Instancer.Command, cfg.Instancer.Timeout, cfg.Instancer.TempDir)
	versionCtx, cancelVersion := context.WithTimeout(context.Background(), 10*time.Second)
	if v, err := cli.Version(versionCtx); err != nil {
		log.WithError(err).Warn("fonttools not available; generation requests will fail")
	} else {
		log.WithField("version", v).Info("fonttools detected")
	}
	cancelVersion()

	fontSvc := services.NewFontService(fontDir, cli, cfg.Limits.MaxAxes)

	// HTTP 路由与中间件
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders(cfg))
	router.Use(middlewares.CORS(cfg))
	router.Use(middlewares.BodyLimit(cfg.Limits.MaxBodyBytes))
	router.Use(metrics.Handler())

	h := handlers.New(cfg, fontSvc)
	h.RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// 优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	} else {
		log.Info("server stopped")
	}
}
