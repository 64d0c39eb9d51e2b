package watcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/coinhandler"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type balanceHandler struct {
	name     string
	balances map[string]decimal.Decimal
}

func (h *balanceHandler) Name() string { return h.name }
func (h *balanceHandler) CoinTypes() []models.CoinType { return nil }
func (h *balanceHandler) Health(ctx context.Context) error { return nil }
func (h *balanceHandler) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	b, ok := h.balances[account]
	if !ok {
		return decimal.Zero, errors.New("no such account")
	}
	return b, nil
}

type healthOnly struct{}

func (healthOnly) Name() string { return "Bitshares" }
func (healthOnly) CoinTypes() []models.CoinType { return nil }
func (healthOnly) Health(ctx context.Context) error { return nil }

type recorder struct {
	reported []notify.LowFundsReport
	cleared  []string
}

func (r *recorder) Report(ctx context.Context, rep notify.LowFundsReport) (bool, error) {
	r.reported = append(r.reported, rep)
	return true, nil
}

func (r *recorder) Clear(ctx context.Context, coin, wallet string) (bool, error) {
	r.cleared = append(r.cleared, coin+"/"+wallet)
	return false, nil
}

func wallet(handler, account, symbol, min string) models.WalletConfig {
	return models.WalletConfig{
		Handler:    handler,
		Account:    account,
		Symbol:     symbol,
		MinBalance: decimal.RequireFromString(min),
	}
}

func TestCheckOnce(t *testing.T) {
	steemHandler := &balanceHandler{
		name: "Steem",
		balances: map[string]decimal.Decimal{
			"low":  decimal.RequireFromString("5"),
			"high": decimal.RequireFromString("500"),
		},
	}
	handlers := []coinhandler.Handler{steemHandler, healthOnly{}}
	wallets := []models.WalletConfig{
		wallet("Steem", "low", "STEEM", "100"),
		wallet("Steem", "high", "STEEM", "100"),
		wallet("Steem", "missing", "STEEM", "100"),
		wallet("Bitshares", "gateway", "BTS", "1"),
		wallet("EOS", "eosconvert", "EOS", "1"),
	}
	rec := &recorder{}

	w := New(wallets, handlers, rec, time.Minute, nil)
	balances := w.CheckOnce(context.Background())

	require.Len(t, balances, 2)
	assert.Equal(t, "low", balances[0].Account)
	assert.True(t, balances[1].Balance.Equal(decimal.RequireFromString("500")))

	require.Len(t, rec.reported, 1)
	assert.Equal(t, "low", rec.reported[0].Wallet)
	assert.Equal(t, "STEEM", rec.reported[0].Coin)
	assert.Equal(t, []string{"STEEM/high"}, rec.cleared)
}

func TestBalanceEqualToMinimumIsNotLow(t *testing.T) {
	h := &balanceHandler{name: "Steem", balances: map[string]decimal.Decimal{"edge": decimal.RequireFromString("100")}}
	rec := &recorder{}

	w := New([]models.WalletConfig{wallet("Steem", "edge", "STEEM", "100")}, []coinhandler.Handler{h}, rec, time.Minute, nil)
	w.CheckOnce(context.Background())

	assert.Empty(t, rec.reported)
	assert.Len(t, rec.cleared, 1)
}

func TestStartStops(t *testing.T) {
	w := New(nil, nil, &recorder{}, time.Hour, nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	w.Stop()
	w.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStartHonorsContext(t *testing.T) {
	w := New(nil, nil, &recorder{}, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNonPositiveIntervalUsesDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		w := New(nil, nil, &recorder{}, interval, nil)
		assert.Equal(t, DefaultInterval, w.interval)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NotPanics(t, func() { _ = w.Start(ctx) })
	}
}
