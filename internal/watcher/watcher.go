package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/coinhandler"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/notify"
	"go.uber.org/zap"
)

// DefaultInterval is used when New gets a non-positive interval
const DefaultInterval = 5 * time.Minute

// Notifier receives balance observations
type Notifier interface {
	Report(ctx context.Context, r notify.LowFundsReport) (bool, error)
	Clear(ctx context.Context, coin, wallet string) (bool, error)
}

// Watcher periodically checks hot wallet balances against their minimums
type Watcher struct {
	wallets  []models.WalletConfig
	handlers []coinhandler.Handler
	notifier Notifier
	interval time.Duration
	logger   *zap.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a watcher for the given wallets
func New(wallets []models.WalletConfig, handlers []coinhandler.Handler, notifier Notifier, interval time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		wallets:  wallets,
		handlers: handlers,
		notifier: notifier,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start checks all wallets immediately and then on every tick until ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("starting wallet watcher",
		zap.Int("wallets", len(w.wallets)),
		zap.Duration("interval", w.interval))

	w.CheckOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("wallet watcher stopped by context")
			return ctx.Err()
		case <-w.stopChan:
			w.logger.Info("wallet watcher stopped")
			return nil
		case <-ticker.C:
			w.CheckOnce(ctx)
		}
	}
}

// CheckOnce reads every wallet balance and forwards the result to the
// notifier. Wallets that fail are logged and skipped.
func (w *Watcher) CheckOnce(ctx context.Context) []models.WalletBalance {
	var balances []models.WalletBalance
	for _, wallet := range w.wallets {
		if ctx.Err() != nil {
			break
		}
		log := w.logger.With(
			zap.String("handler", wallet.Handler),
			zap.String("account", wallet.Account),
			zap.String("symbol", wallet.Symbol))

		h, ok := coinhandler.Find(w.handlers, wallet.Handler)
		if !ok {
			log.Error("wallet handler is not loaded")
			continue
		}
		checker, ok := h.(coinhandler.BalanceChecker)
		if !ok {
			log.Warn("handler cannot read balances")
			continue
		}

		balance, err := checker.Balance(ctx, wallet.Account, wallet.Symbol)
		if err != nil {
			log.Error("failed to read wallet balance", zap.Error(err))
			continue
		}
		balances = append(balances, models.WalletBalance{
			Handler: wallet.Handler,
			Account: wallet.Account,
			Symbol:  wallet.Symbol,
			Balance: balance,
		})

		if balance.LessThan(wallet.MinBalance) {
			_, err = w.notifier.Report(ctx, notify.LowFundsReport{
				Handler:    wallet.Handler,
				Coin:       wallet.Symbol,
				Wallet:     wallet.Account,
				Balance:    balance,
				MinBalance: wallet.MinBalance,
			})
		} else {
			_, err = w.notifier.Clear(ctx, wallet.Symbol, wallet.Account)
		}
		if err != nil {
			log.Error("failed to update low-funds notice", zap.Error(err))
		}
	}
	return balances
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}
