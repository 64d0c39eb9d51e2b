// Package app wires the loaded settings into the shared clients and coin
// handlers used by every binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/coinhandler"
	"github.com/ety001/cryptotoken-converter/internal/config"
	"github.com/ety001/cryptotoken-converter/internal/logging"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/notify"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/ety001/cryptotoken-converter/internal/steem"
	"github.com/ety001/cryptotoken-converter/internal/storage"
	"github.com/ety001/cryptotoken-converter/internal/telegram"
	"go.uber.org/zap"
)

const (
	handlerRPCTimeout = 20 * time.Second
	handlerRPCRetries = 3

	// MemoryStoreURI keeps low-funds notices in process memory
	MemoryStoreURI = "memory"
)

var ErrTelegramNotConfigured = errors.New("telegram enabled but bot token or channel id is missing")

// Options controls Bootstrap. Zero values use the process environment,
// the built-in handler registry and the process-wide shared Steem client.
type Options struct {
	Environ       map[string]string
	Handlers      *coinhandler.Registry
	SteemRegistry *steem.Registry
	Logger        *zap.Logger
}

// App holds everything built from the settings
type App struct {
	Settings  *config.Settings
	Logger    *zap.Logger
	Steem     *steem.Client
	RPC       *rpc.Client
	Handlers  []coinhandler.Handler
	CoinTypes []models.CoinType
}

// Bootstrap loads settings, loads the configured coin handlers in order and
// registers the shared Steem client.
func Bootstrap(opts Options) (*App, error) {
	settings, err := config.Load(opts.Environ)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.New(settings.LogLevel())
		if err != nil {
			return nil, err
		}
	}

	steemOpts := steem.OptionsFromSettings(settings.SteemClientOptions())
	steemOpts.Logger = logger.Named("steem")
	client := steem.New(steemOpts)

	rpcClient := rpc.New(rpc.Options{Timeout: handlerRPCTimeout, Retries: handlerRPCRetries})

	registry := opts.Handlers
	if registry == nil {
		registry = coinhandler.DefaultRegistry()
	}
	handlers, err := registry.Load(settings.CoinHandlersBase(), settings.CoinHandlers(), coinhandler.Deps{
		Settings: settings,
		Steem:    client,
		RPC:      rpcClient,
		Logger:   logger.Named("coinhandler"),
	})
	if err != nil {
		return nil, err
	}

	// Register only after every handler loaded
	if opts.SteemRegistry != nil {
		err = opts.SteemRegistry.Set(client)
	} else {
		err = steem.SetShared(client)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register shared steem client: %w", err)
	}

	logger.Info("settings loaded",
		zap.Strings("steem_nodes", client.Nodes()),
		zap.String("coin_handlers_base", settings.CoinHandlersBase()),
		zap.Strings("coin_handlers", settings.CoinHandlers()),
		zap.String("ex_fee", settings.ExchangeFee().String()),
		zap.Bool("encrypt_key_set", settings.EncryptKey() != ""))

	return &App{
		Settings:  settings,
		Logger:    logger,
		Steem:     client,
		RPC:       rpcClient,
		Handlers:  handlers,
		CoinTypes: coinhandler.CoinTypes(config.CoinTypes(), handlers),
	}, nil
}

// NoticeStore opens MongoDB, or an in-memory store when MONGODB_URI is
// empty or "memory".
func (a *App) NoticeStore(ctx context.Context) (storage.NoticeStore, error) {
	cfg := a.Settings.MongoDB
	if cfg.URI == "" || cfg.URI == MemoryStoreURI {
		a.Logger.Warn("low-funds notices kept in memory only")
		return storage.NewMemory(), nil
	}

	mongoStorage, err := storage.NewMongoDB(ctx, cfg.URI, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	if err := mongoStorage.CreateIndexes(ctx); err != nil {
		a.Logger.Warn("failed to create indexes", zap.Error(err))
	}
	return mongoStorage, nil
}

// Telegram returns the alert channel, or nil when alerts are disabled
func (a *App) Telegram() (*telegram.Client, error) {
	cfg := a.Settings.Telegram
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.BotToken == "" || cfg.ChannelID == "" {
		return nil, ErrTelegramNotConfigured
	}
	return telegram.NewClient(cfg.BotToken, cfg.ChannelID), nil
}

// LowFunds builds the low-funds notifier over store
func (a *App) LowFunds(store storage.NoticeStore) (*notify.LowFunds, error) {
	tg, err := a.Telegram()
	if err != nil {
		return nil, err
	}

	var sender notify.Sender
	if tg != nil {
		sender = tg
	}
	return notify.NewLowFunds(store, sender, a.Settings.LowFundsRenotifyInterval(), a.Logger.Named("notify")), nil
}
