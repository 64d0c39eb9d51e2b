package coinhandler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ety001/cryptotoken-converter/internal/config"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/ety001/cryptotoken-converter/internal/steem"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownHandler   = errors.New("unknown coin handler")
	ErrDuplicateHandler = errors.New("coin handler already registered")
	ErrNotConfigured    = errors.New("coin handler not configured")
)

// Handler implements deposit and withdrawal support for one network or token type
type Handler interface {
	Name() string
	// CoinTypes are added to the "Coin Type" selection list
	CoinTypes() []models.CoinType
	// Health checks that the handler's network is reachable
	Health(ctx context.Context) error
}

// BalanceChecker is implemented by handlers that can read a wallet balance
type BalanceChecker interface {
	Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error)
}

// Deps are the shared resources handed to every factory
type Deps struct {
	Settings *config.Settings
	Steem    *steem.Client
	RPC      *rpc.Client
	Logger   *zap.Logger
}

// Factory builds a handler
type Factory func(deps Deps) (Handler, error)

// Registry maps qualified handler names ("base.Name") to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry contains the built-in handlers under the default base
func DefaultRegistry() *Registry {
	r := NewRegistry()
	base := config.DefaultCoinHandlersBase
	// names are unique, so registration cannot fail here
	_ = r.Register(base, SteemEngineName, NewSteemEngineHandler)
	_ = r.Register(base, BitcoinName, NewBitcoinHandler)
	_ = r.Register(base, SteemName, NewSteemHandler)
	_ = r.Register(base, EOSName, NewEOSHandler)
	_ = r.Register(base, BitsharesName, NewBitsharesHandler)
	return r
}

func qualify(base, name string) string {
	return base + "." + name
}

// Register adds a factory under base.name
func (r *Registry) Register(base, name string, factory Factory) error {
	key := qualify(base, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, key)
	}
	r.factories[key] = factory
	return nil
}

// Names returns the handler names registered under base, sorted
func (r *Registry) Names(base string) []string {
	prefix := base + "."

	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for key := range r.factories {
		if strings.HasPrefix(key, prefix) {
			names = append(names, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(names)
	return names
}

// Load builds the named handlers in the given order.
// A name listed twice is loaded once.
func (r *Registry) Load(base string, names []string, deps Deps) ([]Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]bool, len(names))
	handlers := make([]Handler, 0, len(names))
	for _, name := range names {
		key := qualify(base, name)
		if seen[key] {
			logger.Warn("coin handler listed twice, skipping", zap.String("handler", key))
			continue
		}
		seen[key] = true

		r.mu.RLock()
		factory, ok := r.factories[key]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, key)
		}

		h, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to load coin handler %s: %w", key, err)
		}
		logger.Info("coin handler loaded", zap.String("handler", key))
		handlers = append(handlers, h)
	}
	return handlers, nil
}

// CoinTypes returns the static types followed by each handler's types,
// keeping the first entry for a key.
func CoinTypes(static []models.CoinType, handlers []Handler) []models.CoinType {
	seen := make(map[string]bool)
	var out []models.CoinType
	add := func(types []models.CoinType) {
		for _, ct := range types {
			if seen[ct.Key] {
				continue
			}
			seen[ct.Key] = true
			out = append(out, ct)
		}
	}

	add(static)
	for _, h := range handlers {
		add(h.CoinTypes())
	}
	return out
}

// Find returns the loaded handler with the given name
func Find(handlers []Handler, name string) (Handler, bool) {
	for _, h := range handlers {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}
