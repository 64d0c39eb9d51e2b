package models

import "github.com/shopspring/decimal"

// HandlerFile represents the optional YAML file with per-handler settings
type HandlerFile struct {
	CoindRPC    map[string]CoindRPCConfig `yaml:"coind_rpc"`
	SteemEngine SteemEngineConfig         `yaml:"steem_engine"`
	EOS         EOSConfig                 `yaml:"eos"`
	Wallets     []WalletConfig            `yaml:"wallets"`
}

// CoindRPCConfig contains bitcoind-compatible JSON-RPC connection details for one coin symbol
type CoindRPCConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	TLS      bool   `yaml:"tls"`
}

// SteemEngineConfig contains SteemEngine sidechain configuration
type SteemEngineConfig struct {
	RPCURL string `yaml:"rpc_url"`
}

// EOSConfig contains EOS node configuration
type EOSConfig struct {
	Node string `yaml:"node"`
}

// WalletConfig describes a hot wallet whose balance is watched for low funds
type WalletConfig struct {
	Handler    string          `yaml:"handler"`
	Account    string          `yaml:"account"`
	Symbol     string          `yaml:"symbol"`
	MinBalance decimal.Decimal `yaml:"min_balance"`
}
