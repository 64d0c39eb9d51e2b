package coinhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/shopspring/decimal"
)

const BitcoinName = "Bitcoin"

// BitcoinHandler talks to bitcoind-compatible daemons configured in coind_rpc
type BitcoinHandler struct {
	rpc    *rpc.Client
	coinds map[string]models.CoindRPCConfig
}

func NewBitcoinHandler(deps Deps) (Handler, error) {
	if deps.RPC == nil || deps.Settings == nil {
		return nil, fmt.Errorf("%w: rpc client and settings are required", ErrNotConfigured)
	}

	coinds := make(map[string]models.CoindRPCConfig)
	for symbol, cfg := range deps.Settings.HandlerFile().CoindRPC {
		coinds[strings.ToUpper(symbol)] = cfg
	}
	return &BitcoinHandler{rpc: deps.RPC, coinds: coinds}, nil
}

func (h *BitcoinHandler) Name() string { return BitcoinName }

func (h *BitcoinHandler) CoinTypes() []models.CoinType {
	return []models.CoinType{{Key: "bitcoind", Label: "Bitcoind Compatible JsonRPC"}}
}

func coindURL(cfg models.CoindRPCConfig) string {
	scheme := "http"
	if cfg.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/", scheme, cfg.Host, cfg.Port)
}

func (h *BitcoinHandler) call(ctx context.Context, symbol, method string, out interface{}) error {
	cfg, ok := h.coinds[strings.ToUpper(symbol)]
	if !ok {
		return fmt.Errorf("%w: no coind_rpc entry for %s", ErrNotConfigured, symbol)
	}
	return h.rpc.Call(ctx, coindURL(cfg), method, nil, out, rpc.WithBasicAuth(cfg.User, cfg.Password))
}

// Health checks every configured daemon
func (h *BitcoinHandler) Health(ctx context.Context) error {
	if len(h.coinds) == 0 {
		return fmt.Errorf("%w: coind_rpc is empty", ErrNotConfigured)
	}

	symbols := make([]string, 0, len(h.coinds))
	for symbol := range h.coinds {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		var info map[string]interface{}
		if err := h.call(ctx, symbol, "getblockchaininfo", &info); err != nil {
			return fmt.Errorf("%s: %w", symbol, err)
		}
	}
	return nil
}

// Balance returns the wallet balance of the daemon for symbol; account is not used
// because bitcoind balances are per wallet.
func (h *BitcoinHandler) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	var n json.Number
	if err := h.call(ctx, symbol, "getbalance", &n); err != nil {
		return decimal.Zero, err
	}
	bal, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s balance %q: %w", symbol, n, err)
	}
	return bal, nil
}
