package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinType is one entry of the "Coin Type" selection list
type CoinType struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// LowFundsNotice records the last low-balance alert sent for a wallet
type LowFundsNotice struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Coin         string    `bson:"coin" json:"coin"`
	Wallet       string    `bson:"wallet" json:"wallet"`
	Balance      string    `bson:"balance" json:"balance"`
	MinBalance   string    `bson:"min_balance" json:"min_balance"`
	LastNotified time.Time `bson:"last_notified" json:"last_notified"`
	Count        int       `bson:"count" json:"count"`
}

// SettingsResponse is the public, secret-free view of the loaded settings
type SettingsResponse struct {
	SteemRPCNodes    []string   `json:"steem_rpc_nodes"`
	BitsharesRPCNode string     `json:"bitshares_rpc_node"`
	ExchangeFee      string     `json:"ex_fee"`
	CoinHandlersBase string     `json:"coin_handlers_base"`
	CoinHandlers     []string   `json:"coin_handlers"`
	LowFundsRenotify int64      `json:"lowfunds_renotify"`
	EncryptKeySet    bool       `json:"encrypt_key_set"`
	CoinTypes        []CoinType `json:"coin_types"`
}

// HandlerStatus is the health of one loaded coin handler
type HandlerStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// WalletBalance is a balance observed by the watcher
type WalletBalance struct {
	Handler string
	Account string
	Symbol  string
	Balance decimal.Decimal
}
