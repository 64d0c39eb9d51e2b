package coinhandler

import (
	"context"
	"fmt"
	"strings"

	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
)

const BitsharesName = "Bitshares"

// BitsharesHandler talks to BITSHARES_RPC_NODE over its HTTP JSON-RPC endpoint
type BitsharesHandler struct {
	rpc  *rpc.Client
	node string
}

func NewBitsharesHandler(deps Deps) (Handler, error) {
	if deps.RPC == nil || deps.Settings == nil {
		return nil, fmt.Errorf("%w: rpc client and settings are required", ErrNotConfigured)
	}
	return &BitsharesHandler{rpc: deps.RPC, node: HTTPEndpoint(deps.Settings.BitsharesRPCNode())}, nil
}

// HTTPEndpoint maps a ws(s):// node URL to the http(s):// URL served on the same host
func HTTPEndpoint(node string) string {
	switch {
	case strings.HasPrefix(node, "wss://"):
		return "https://" + strings.TrimPrefix(node, "wss://")
	case strings.HasPrefix(node, "ws://"):
		return "http://" + strings.TrimPrefix(node, "ws://")
	default:
		return node
	}
}

func (h *BitsharesHandler) Name() string { return BitsharesName }

func (h *BitsharesHandler) CoinTypes() []models.CoinType {
	return []models.CoinType{{Key: "bitshares", Label: "BitShares Token"}}
}

func (h *BitsharesHandler) Health(ctx context.Context) error {
	var props struct {
		HeadBlockNumber int64 `json:"head_block_number"`
	}
	params := []interface{}{"database", "get_dynamic_global_properties", []interface{}{}}
	if err := h.rpc.Call(ctx, h.node, "call", params, &props); err != nil {
		return err
	}
	if props.HeadBlockNumber == 0 {
		return fmt.Errorf("bitshares node %s returned no head block", h.node)
	}
	return nil
}
