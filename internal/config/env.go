package config

// Environment variables read by Load
const (
	// Comma-separated list of one or more Steem RPC nodes. Unset means the client defaults.
	STEEM_RPC_NODES = "STEEM_RPC_NODES"
	// Node used for the Bitshares network
	BITSHARES_RPC_NODE = "BITSHARES_RPC_NODE"
	// Key used to encrypt and decrypt stored private keys
	ENCRYPT_KEY = "ENCRYPT_KEY"
	// Conversion fee in percent ("1" = 1%)
	EX_FEE = "EX_FEE"
	// Namespace the coin handler names are resolved against
	COIN_HANDLERS_BASE = "COIN_HANDLERS_BASE"
	// Comma-separated list of coin handlers to load
	COIN_HANDLERS = "COIN_HANDLERS"
	// Hours between repeated low wallet balance notifications
	LOWFUNDS_RENOTIFY = "LOWFUNDS_RENOTIFY"

	// Path to the optional YAML file with per-handler settings
	COIN_HANDLERS_CONFIG = "COIN_HANDLERS_CONFIG"
	// Passphrase used to unlock the Steem wallet when password storage is "environment"
	UNLOCK = "UNLOCK"
)

const (
	DefaultBitsharesRPCNode = "wss://eu.nodes.bitshares.ws"
	DefaultExchangeFee      = "0"
	DefaultCoinHandlersBase = "payments.coin_handlers"
	DefaultLowFundsRenotify = 12
)

// DefaultCoinHandlers returns the handlers loaded when COIN_HANDLERS is unset.
func DefaultCoinHandlers() []string {
	return []string{"SteemEngine", "Bitcoin", "Steem", "EOS", "Bitshares"}
}
