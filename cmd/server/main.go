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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nstrelkov/bookshop/internal/config"
	"github.com/nstrelkov/bookshop/internal/httpserver"
	"github.com/nstrelkov/bookshop/internal/notify"
	"github.com/nstrelkov/bookshop/internal/payment"
	"github.com/nstrelkov/bookshop/internal/repo"
	"github.com/nstrelkov/bookshop/internal/service"
	"github.com/nstrelkov/bookshop/pkg/logging"
	loggingmw "github.com/nstrelkov/bookshop/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var notifier notify.Notifier
	if cfg.KafkaAddress != "" {
		kn := notify.NewKafkaNotifier([]string{cfg.KafkaAddress})
		defer kn.Close()
		notifier = kn
	} else {
		logger.Warn("KAFKA_ADDRESS not set, order confirmations disabled")
		notifier = notify.Nop{}
	}

	gormRepo := &repo.GormRepo{DB: db}

	cartService := &service.CartService{Repo: gormRepo, TaxRateBP: cfg.TaxRateBP}
	checkoutService := &service.CheckoutService{
		Repo:      gormRepo,
		Gateway:   payment.StubGateway{},
		Notifier:  notifier,
		TaxRateBP: cfg.TaxRateBP,
	}
	orderService := &service.OrderService{Repo: gormRepo}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: cartService},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: checkoutService},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orderService},
		JWTSecret:       cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
