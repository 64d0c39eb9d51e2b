package coinhandler

import (
	"context"
	"fmt"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/steem"
	"github.com/shopspring/decimal"
)

const SteemName = "Steem"

// SteemHandler serves STEEM and SBD through the shared Steem client
type SteemHandler struct {
	client *steem.Client
}

func NewSteemHandler(deps Deps) (Handler, error) {
	if deps.Steem == nil {
		return nil, fmt.Errorf("%w: shared steem client", ErrNotConfigured)
	}
	return &SteemHandler{client: deps.Steem}, nil
}

func (h *SteemHandler) Name() string { return SteemName }

func (h *SteemHandler) CoinTypes() []models.CoinType {
	return []models.CoinType{{Key: "steembase", Label: "Steem Network (or compatible fork)"}}
}

func (h *SteemHandler) Health(ctx context.Context) error {
	_, err := h.client.ChainState(ctx)
	return err
}

func (h *SteemHandler) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	return h.client.Balance(ctx, account, symbol)
}
