package steem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrAccountNotFound = errors.New("steem: account not found")

// Account is the subset of condenser_api account fields the converter reads
type Account struct {
	Name       string `json:"name"`
	Balance    string `json:"balance"`
	SBDBalance string `json:"sbd_balance"`
}

// Accounts fetches accounts by name via condenser_api.get_accounts
func (c *Client) Accounts(ctx context.Context, names ...string) ([]Account, error) {
	var accounts []Account
	if err := c.Call(ctx, "condenser_api.get_accounts", []interface{}{names}, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Balance returns the liquid balance of account in STEEM or SBD
func (c *Client) Balance(ctx context.Context, account, symbol string) (decimal.Decimal, error) {
	accounts, err := c.Accounts(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	if len(accounts) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}

	raw := accounts[0].Balance
	if symbol == "SBD" {
		raw = accounts[0].SBDBalance
	}
	amount, assetSymbol, err := ParseAsset(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if assetSymbol != symbol {
		return decimal.Zero, fmt.Errorf("unsupported symbol %q for account %s", symbol, account)
	}
	return amount, nil
}

// ParseAsset parses a Steem asset string such as "1.000 STEEM"
func ParseAsset(s string) (decimal.Decimal, string, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return decimal.Zero, "", fmt.Errorf("invalid asset %q", s)
	}
	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("invalid asset amount %q: %w", s, err)
	}
	return amount, fields[1], nil
}
