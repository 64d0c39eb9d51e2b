package coinhandler

import (
	"context"
	"errors"
	"testing"

	"github.com/ety001/cryptotoken-converter/internal/config"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/ety001/cryptotoken-converter/internal/steem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	name  string
	types []models.CoinType
}

func (f *fakeHandler) Name() string                     { return f.name }
func (f *fakeHandler) CoinTypes() []models.CoinType     { return f.types }
func (f *fakeHandler) Health(ctx context.Context) error { return nil }

func fakeFactory(name string, types ...models.CoinType) Factory {
	return func(Deps) (Handler, error) {
		return &fakeHandler{name: name, types: types}, nil
	}
}

func TestLoadKeepsConfiguredOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("plugins", "A", fakeFactory("A")))
	require.NoError(t, r.Register("plugins", "B", fakeFactory("B")))
	require.NoError(t, r.Register("plugins", "C", fakeFactory("C")))

	handlers, err := r.Load("plugins", []string{"C", "A", "B"}, Deps{})
	require.NoError(t, err)

	var names []string
	for _, h := range handlers {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}

func TestLoadResolvesAgainstBase(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("plugins", "A", fakeFactory("A")))

	_, err := r.Load("other", []string{"A"}, Deps{})
	assert.ErrorIs(t, err, ErrUnknownHandler)
	assert.Contains(t, err.Error(), "other.A")
}

func TestLoadUnknownHandler(t *testing.T) {
	r := NewRegistry()
	_, err := r.Load("plugins", []string{"Dogecoin"}, Deps{})
	assert.ErrorIs(t, err, ErrUnknownHandler)
}

func TestLoadSkipsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("plugins", "A", fakeFactory("A")))

	handlers, err := r.Load("plugins", []string{"A", "A"}, Deps{})
	require.NoError(t, err)
	assert.Len(t, handlers, 1)
}

func TestLoadPropagatesFactoryError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	require.NoError(t, r.Register("plugins", "A", func(Deps) (Handler, error) { return nil, boom }))

	_, err := r.Load("plugins", []string{"A"}, Deps{})
	assert.ErrorIs(t, err, boom)
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("plugins", "A", fakeFactory("A")))
	assert.ErrorIs(t, r.Register("plugins", "A", fakeFactory("A")), ErrDuplicateHandler)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"Bitcoin", "Bitshares", "EOS", "Steem", "SteemEngine"}, r.Names("payments.coin_handlers"))
	assert.Empty(t, r.Names("custom"))
}

func TestDefaultRegistryLoadsDefaultHandlers(t *testing.T) {
	s, err := config.Load(map[string]string{})
	require.NoError(t, err)

	deps := Deps{
		Settings: s,
		Steem:    steem.New(steem.Options{}),
		RPC:      rpc.New(rpc.Options{}),
	}
	handlers, err := DefaultRegistry().Load(s.CoinHandlersBase(), s.CoinHandlers(), deps)
	require.NoError(t, err)

	var names []string
	for _, h := range handlers {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{"SteemEngine", "Bitcoin", "Steem", "EOS", "Bitshares"}, names)

	types := CoinTypes(config.CoinTypes(), handlers)
	var keys []string
	for _, ct := range types {
		keys = append(keys, ct.Key)
	}
	assert.Equal(t, []string{"crypto", "token", "steemengine", "bitcoind", "steembase", "eos", "bitshares"}, keys)
}

func TestSteemHandlerNeedsClient(t *testing.T) {
	_, err := NewSteemHandler(Deps{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCoinTypesDeduplicates(t *testing.T) {
	handlers := []Handler{
		&fakeHandler{name: "A", types: []models.CoinType{{Key: "token", Label: "Other"}, {Key: "a", Label: "A"}}},
	}
	types := CoinTypes(config.CoinTypes(), handlers)
	require.Len(t, types, 3)
	assert.Equal(t, "Generic Token", types[1].Label)
	assert.Equal(t, "a", types[2].Key)
}

func TestFind(t *testing.T) {
	handlers := []Handler{&fakeHandler{name: "A"}, &fakeHandler{name: "B"}}
	h, ok := Find(handlers, "B")
	require.True(t, ok)
	assert.Equal(t, "B", h.Name())

	_, ok = Find(handlers, "C")
	assert.False(t, ok)
}
