// Package notify alerts admins when a hot wallet cannot cover conversions.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/storage"
	"github.com/ety001/cryptotoken-converter/internal/telegram"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sender delivers an alert message
type Sender interface {
	SendMessage(ctx context.Context, text string) error
}

// LowFundsReport is one observation of a wallet below its minimum balance
type LowFundsReport struct {
	Handler    string
	Coin       string
	Wallet     string
	Balance    decimal.Decimal
	MinBalance decimal.Decimal
}

// LowFunds sends the first alert for a wallet right away and repeats it
// at most once per renotify interval while the wallet stays low.
type LowFunds struct {
	store    storage.NoticeStore
	sender   Sender
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewLowFunds creates the notifier. A nil sender only logs alerts.
func NewLowFunds(store storage.NoticeStore, sender Sender, renotify time.Duration, logger *zap.Logger) *LowFunds {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowFunds{
		store:    store,
		sender:   sender,
		interval: renotify,
		logger:   logger,
		now:      time.Now,
	}
}

// Report records a low balance and reports whether an alert was sent.
func (n *LowFunds) Report(ctx context.Context, r LowFundsReport) (bool, error) {
	notice, err := n.store.GetNotice(ctx, r.Coin, r.Wallet)
	if err != nil {
		return false, err
	}

	now := n.now()
	if notice != nil && now.Sub(notice.LastNotified) < n.interval {
		n.logger.Debug("low funds already notified",
			zap.String("coin", r.Coin),
			zap.String("wallet", r.Wallet),
			zap.Time("last_notified", notice.LastNotified))
		return false, nil
	}

	count := 1
	if notice != nil {
		count = notice.Count + 1
	}

	msg := telegram.FormatLowFundsMessage(telegram.LowFundsAlert{
		Handler:    r.Handler,
		Coin:       r.Coin,
		Wallet:     r.Wallet,
		Balance:    r.Balance.String(),
		MinBalance: r.MinBalance.String(),
		Count:      count,
		Time:       now,
	})
	if n.sender != nil {
		if err := n.sender.SendMessage(ctx, msg); err != nil {
			return false, fmt.Errorf("failed to send low-funds alert: %w", err)
		}
	}
	n.logger.Warn("wallet balance low",
		zap.String("handler", r.Handler),
		zap.String("coin", r.Coin),
		zap.String("wallet", r.Wallet),
		zap.String("balance", r.Balance.String()),
		zap.String("min_balance", r.MinBalance.String()),
		zap.Int("notice", count))

	err = n.store.SaveNotice(ctx, &models.LowFundsNotice{
		Coin:         r.Coin,
		Wallet:       r.Wallet,
		Balance:      r.Balance.String(),
		MinBalance:   r.MinBalance.String(),
		LastNotified: now,
		Count:        count,
	})
	if err != nil {
		return true, err
	}
	return true, nil
}

// Clear forgets the notice for a wallet whose balance recovered.
func (n *LowFunds) Clear(ctx context.Context, coin, wallet string) (bool, error) {
	notice, err := n.store.GetNotice(ctx, coin, wallet)
	if err != nil || notice == nil {
		return false, err
	}
	if err := n.store.DeleteNotice(ctx, coin, wallet); err != nil {
		return false, err
	}
	n.logger.Info("wallet balance recovered", zap.String("coin", coin), zap.String("wallet", wallet))
	return true, nil
}
