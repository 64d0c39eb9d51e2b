package coinhandler

import (
	"context"
	"fmt"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/shopspring/decimal"
)

const SteemEngineName = "SteemEngine"

// SteemEngineHandler serves SteemEngine sidechain tokens
type SteemEngineHandler struct {
	rpc    *rpc.Client
	rpcURL string
}

func NewSteemEngineHandler(deps Deps) (Handler, error) {
	if deps.RPC == nil || deps.Settings == nil {
		return nil, fmt.Errorf("%w: rpc client and settings are required", ErrNotConfigured)
	}
	return &SteemEngineHandler{
		rpc:    deps.RPC,
		rpcURL: deps.Settings.HandlerFile().SteemEngine.RPCURL,
	}, nil
}

func (h *SteemEngineHandler) Name() string { return SteemEngineName }

func (h *SteemEngineHandler) CoinTypes() []models.CoinType {
	return []models.CoinType{{Key: "steemengine", Label: "SteemEngine Token"}}
}

func (h *SteemEngineHandler) Health(ctx context.Context) error {
	var block map[string]interface{}
	if err := h.rpc.Call(ctx, h.rpcURL+"/blockchain", "getLatestBlockInfo", nil, &block); err != nil {
		return err
	}
	if len(block) == 0 {
		return fmt.Errorf("steem-engine returned no block info")
	}
	return nil
}

type engineBalance struct {
	Account string `json:"account"`
	Symbol  string `json:"symbol"`
	Balance string `json:"balance"`
}

// Balance returns the token balance of account; accounts without a balance row hold zero
func (h *SteemEngineHandler) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	params := map[string]interface{}{
		"contract": "tokens",
		"table":    "balances",
		"query":    map[string]string{"account": account, "symbol": symbol},
	}

	var row *engineBalance
	if err := h.rpc.Call(ctx, h.rpcURL+"/contracts", "findOne", params, &row); err != nil {
		return decimal.Zero, err
	}
	if row == nil {
		return decimal.Zero, nil
	}

	bal, err := decimal.NewFromString(row.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q for %s: %w", row.Balance, account, err)
	}
	return bal, nil
}
