package coinhandler

import (
	"context"
	"fmt"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/ety001/cryptotoken-converter/internal/steem"
	"github.com/shopspring/decimal"
)

const (
	EOSName          = "EOS"
	eosTokenContract = "eosio.token"
)

// EOSHandler serves EOS tokens through the chain API of one node
type EOSHandler struct {
	rpc  *rpc.Client
	node string
}

func NewEOSHandler(deps Deps) (Handler, error) {
	if deps.RPC == nil || deps.Settings == nil {
		return nil, fmt.Errorf("%w: rpc client and settings are required", ErrNotConfigured)
	}
	return &EOSHandler{rpc: deps.RPC, node: deps.Settings.HandlerFile().EOS.Node}, nil
}

func (h *EOSHandler) Name() string { return EOSName }

func (h *EOSHandler) CoinTypes() []models.CoinType {
	return []models.CoinType{{Key: "eos", Label: "EOS Token"}}
}

func (h *EOSHandler) Health(ctx context.Context) error {
	var info struct {
		ChainID      string `json:"chain_id"`
		HeadBlockNum int64  `json:"head_block_num"`
	}
	if err := h.rpc.PostJSON(ctx, h.node+"/v1/chain/get_info", struct{}{}, &info); err != nil {
		return err
	}
	if info.ChainID == "" {
		return fmt.Errorf("eos node %s returned no chain id", h.node)
	}
	return nil
}

// Balance returns the eosio.token balance; an empty answer means zero
func (h *EOSHandler) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	req := map[string]string{"code": eosTokenContract, "account": account, "symbol": symbol}

	var balances []string
	if err := h.rpc.PostJSON(ctx, h.node+"/v1/chain/get_currency_balance", req, &balances); err != nil {
		return decimal.Zero, err
	}
	if len(balances) == 0 {
		return decimal.Zero, nil
	}

	amount, _, err := steem.ParseAsset(balances[0])
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}
