package app

import (
	"context"
	"testing"

	"github.com/ety001/cryptotoken-converter/internal/coinhandler"
	"github.com/ety001/cryptotoken-converter/internal/config"
	"github.com/ety001/cryptotoken-converter/internal/steem"
	"github.com/ety001/cryptotoken-converter/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func bootstrap(t *testing.T, environ map[string]string) (*App, *steem.Registry) {
	t.Helper()
	reg := &steem.Registry{}
	a, err := Bootstrap(Options{Environ: environ, SteemRegistry: reg, Logger: zap.NewNop()})
	require.NoError(t, err)
	return a, reg
}

func TestBootstrapDefaults(t *testing.T) {
	a, reg := bootstrap(t, map[string]string{})

	names := make([]string, 0, len(a.Handlers))
	for _, h := range a.Handlers {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{"SteemEngine", "Bitcoin", "Steem", "EOS", "Bitshares"}, names)
	assert.Equal(t, steem.DefaultNodes, a.Steem.Nodes())

	shared, err := reg.Get()
	require.NoError(t, err)
	assert.Same(t, a.Steem, shared)

	keys := make([]string, 0, len(a.CoinTypes))
	for _, ct := range a.CoinTypes {
		keys = append(keys, ct.Key)
	}
	assert.Equal(t, []string{"crypto", "token", "steemengine", "bitcoind", "steembase", "eos", "bitshares"}, keys)
}

func TestBootstrapCustomNodesAndHandlers(t *testing.T) {
	a, _ := bootstrap(t, map[string]string{
		"STEEM_RPC_NODES": "https://a.example,https://b.example",
		"COIN_HANDLERS":   "Steem,EOS",
	})

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, a.Steem.Nodes())
	require.Len(t, a.Handlers, 2)
	assert.Equal(t, "Steem", a.Handlers[0].Name())
	assert.Equal(t, "EOS", a.Handlers[1].Name())
}

func TestBootstrapUnknownHandler(t *testing.T) {
	_, err := Bootstrap(Options{
		Environ:       map[string]string{"COIN_HANDLERS": "Steem,Dogecoin"},
		SteemRegistry: &steem.Registry{},
		Logger:        zap.NewNop(),
	})
	assert.ErrorIs(t, err, coinhandler.ErrUnknownHandler)
}

func TestBootstrapRegistersSteemClientOnce(t *testing.T) {
	reg := &steem.Registry{}
	opts := Options{Environ: map[string]string{}, SteemRegistry: reg, Logger: zap.NewNop()}

	_, err := Bootstrap(opts)
	require.NoError(t, err)
	_, err = Bootstrap(opts)
	assert.ErrorIs(t, err, steem.ErrSharedAlreadySet)
}

func TestFailedBootstrapLeavesSteemClientUnregistered(t *testing.T) {
	reg := &steem.Registry{}

	_, err := Bootstrap(Options{
		Environ:       map[string]string{"COIN_HANDLERS": "Dogecoin"},
		SteemRegistry: reg,
		Logger:        zap.NewNop(),
	})
	require.ErrorIs(t, err, coinhandler.ErrUnknownHandler)

	_, err = reg.Get()
	assert.ErrorIs(t, err, steem.ErrSharedNotSet)

	a, err := Bootstrap(Options{Environ: map[string]string{}, SteemRegistry: reg, Logger: zap.NewNop()})
	require.NoError(t, err)
	shared, err := reg.Get()
	require.NoError(t, err)
	assert.Same(t, a.Steem, shared)
}

func TestBootstrapInvalidLogLevel(t *testing.T) {
	_, err := Bootstrap(Options{
		Environ:       map[string]string{"LOG_LEVEL": "loud"},
		SteemRegistry: &steem.Registry{},
	})
	assert.ErrorIs(t, err, config.ErrInvalidSettings)
}

func TestNoticeStoreInMemory(t *testing.T) {
	a, _ := bootstrap(t, map[string]string{"MONGODB_URI": MemoryStoreURI})

	store, err := a.NoticeStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, store)
}

func TestTelegram(t *testing.T) {
	a, _ := bootstrap(t, map[string]string{})
	tg, err := a.Telegram()
	require.NoError(t, err)
	assert.Nil(t, tg)

	a, _ = bootstrap(t, map[string]string{"TELEGRAM_ENABLED": "true"})
	_, err = a.Telegram()
	assert.ErrorIs(t, err, ErrTelegramNotConfigured)
	_, err = a.LowFunds(storage.NewMemory())
	assert.ErrorIs(t, err, ErrTelegramNotConfigured)

	a, _ = bootstrap(t, map[string]string{
		"TELEGRAM_ENABLED":    "true",
		"TELEGRAM_BOT_TOKEN":  "123:abc",
		"TELEGRAM_CHANNEL_ID": "@alerts",
	})
	tg, err = a.Telegram()
	require.NoError(t, err)
	assert.NotNil(t, tg)
}
