package models

import "strings"

const (
	DefaultSteemEngineRPC = "https://api.steem-engine.net/rpc"
	DefaultEOSNode        = "https://eos.greymass.com"
)

// NormalizeHandlerFile fills defaults so handlers never see a zero-value section.
// A file without coind_rpc still yields an empty, non-nil map.
func NormalizeHandlerFile(file *HandlerFile) {
	if file.CoindRPC == nil {
		file.CoindRPC = map[string]CoindRPCConfig{}
	}
	for symbol, rpc := range file.CoindRPC {
		if rpc.Host == "" {
			rpc.Host = "127.0.0.1"
		}
		if rpc.Port == 0 {
			rpc.Port = 8332
		}
		file.CoindRPC[symbol] = rpc
	}

	if file.SteemEngine.RPCURL == "" {
		file.SteemEngine.RPCURL = DefaultSteemEngineRPC
	}
	file.SteemEngine.RPCURL = strings.TrimRight(file.SteemEngine.RPCURL, "/")

	if file.EOS.Node == "" {
		file.EOS.Node = DefaultEOSNode
	}
	file.EOS.Node = strings.TrimRight(file.EOS.Node, "/")

	for i := range file.Wallets {
		file.Wallets[i].Handler = strings.TrimSpace(file.Wallets[i].Handler)
		file.Wallets[i].Account = strings.TrimSpace(file.Wallets[i].Account)
		file.Wallets[i].Symbol = strings.ToUpper(strings.TrimSpace(file.Wallets[i].Symbol))
	}
}
