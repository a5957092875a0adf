// Command pptx2html-server serves the converter over HTTP.
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

	"github.com/VantageDataChat/pptxhtml/internal/config"
	"github.com/VantageDataChat/pptxhtml/internal/logger"
	"github.com/VantageDataChat/pptxhtml/internal/server"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			logger.Init("info", os.Stderr)
			logger.New("server").WithError(err).Fatal("failed to load configuration")
		}
		cfg = loaded
	}

	logger.Init(cfg.Logger.Level, os.Stdout)
	log := logger.New("server")
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var store server.Store
	switch cfg.Server.Store {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := server.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("redis unavailable")
		}
		rs := server.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Server.TTL())
		defer rs.Close()
		store = rs
		log.WithField("address", cfg.Redis.Address).Info("using redis artifact store")
	default:
		store = server.NewMemoryStore(cfg.Server.MaxArtifacts)
		log.WithField("capacity", cfg.Server.MaxArtifacts).Info("using memory artifact store")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.New(cfg, store, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithField("address", srv.Addr).Info("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server stopped")
		return
	}
	log.Info("server stopped")
}
