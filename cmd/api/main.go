package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ety001/cryptotoken-converter/internal/api"
	"github.com/ety001/cryptotoken-converter/internal/app"
)

func main() {
	kingpinApp := kingpin.New("converter-api", "CryptoToken Converter read-only API")
	envFile := kingpinApp.Flag("env-file", "Path to a .env file loaded before the environment is read").String()
	host := kingpinApp.Flag("host", "Listen host (overrides API_HOST)").String()
	port := kingpinApp.Flag("port", "Listen port (overrides API_PORT)").String()
	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			panic(fmt.Sprintf("failed to load env file: %v", err))
		}
	}

	a, err := app.Bootstrap(app.Options{})
	if err != nil {
		panic(fmt.Sprintf("failed to load settings: %v", err))
	}
	logger := a.Logger
	defer func() {
		_ = logger.Sync()
	}()

	cfg := a.Settings.API
	if *host != "" {
		cfg.Host = *host
	}
	if *port != "" {
		cfg.Port = *port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := a.NoticeStore(ctx)
	cancel()
	if err != nil {
		logger.Fatal("failed to open notice store", zap.Error(err))
	}
	defer store.Close()

	handler := api.NewHandler(a.Settings, a.Handlers, store)
	router := api.SetupRoutes(handler, api.RouteOptions{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server exited")
}
