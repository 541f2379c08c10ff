package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Ayavuzer/manushotspot/api"
	"github.com/Ayavuzer/manushotspot/config"
	"github.com/Ayavuzer/manushotspot/core/bootstrap"
	"github.com/Ayavuzer/manushotspot/core/broker"
	"github.com/Ayavuzer/manushotspot/core/cache"
	"github.com/Ayavuzer/manushotspot/core/store"
	"github.com/Ayavuzer/manushotspot/core/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := utils.NewLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalf("db init: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(context.Background(), db, cfg.DBDriver, logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}
	if err := bootstrap.Seed(context.Background(), db, cfg, logger); err != nil {
		logger.Fatalf("bootstrap: %v", err)
	}

	refresh, err := cache.NewRefreshTokenStore(cfg.RedisURL)
	if err != nil {
		logger.Fatalf("redis init: %v", err)
	}
	defer refresh.Close()

	var publisher broker.Publisher = &broker.NopPublisher{}
	if strings.TrimSpace(cfg.NATSURL) != "" {
		publisher, err = broker.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Fatalf("nats init: %v", err)
		}
	}
	defer publisher.Close()

	srv, err := api.NewServer(cfg, db, refresh, publisher, logger)
	if err != nil {
		logger.Fatalf("server init: %v", err)
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}
