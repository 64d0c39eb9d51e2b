package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
)

// ErrInvalidSettings is wrapped by every load-time parsing failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Shared Steem client policy.
const (
	SteemNumRetries      = 5
	SteemNumRetriesCall  = 3
	SteemTimeout         = 20 * time.Second
	SteemPasswordStorage = "environment"
)

// Largest LOWFUNDS_RENOTIFY that still fits in a time.Duration
const maxRenotifyHours = int64(math.MaxInt64 / time.Hour)

// rawSettings mirrors the environment one-to-one; Load converts it into Settings.
type rawSettings struct {
	SteemRPCNodes    []string `env:"STEEM_RPC_NODES" envSeparator:","`
	BitsharesRPCNode string   `env:"BITSHARES_RPC_NODE" envDefault:"wss://eu.nodes.bitshares.ws"`
	EncryptKey       string   `env:"ENCRYPT_KEY"`
	ExchangeFee      string   `env:"EX_FEE" envDefault:"0"`
	CoinHandlersBase string   `env:"COIN_HANDLERS_BASE" envDefault:"payments.coin_handlers"`
	CoinHandlers     []string `env:"COIN_HANDLERS" envSeparator:"," envDefault:"SteemEngine,Bitcoin,Steem,EOS,Bitshares"`
	LowFundsRenotify int64    `env:"LOWFUNDS_RENOTIFY" envDefault:"12"`
	HandlersConfig   string   `env:"COIN_HANDLERS_CONFIG"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	API      APIConfig
	MongoDB  MongoDBConfig
	Telegram TelegramConfig
	Watcher  WatcherConfig
}

// APIConfig contains API server configuration
type APIConfig struct {
	Host           string  `env:"API_HOST" envDefault:"0.0.0.0"`
	Port           string  `env:"API_PORT" envDefault:"8080"`
	RateLimitRPS   float64 `env:"API_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"API_RATE_LIMIT_BURST" envDefault:"20"`
}

// MongoDBConfig contains MongoDB connection configuration
type MongoDBConfig struct {
	URI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGODB_DATABASE" envDefault:"converter"`
}

// TelegramConfig contains Telegram bot configuration for admin alerts
type TelegramConfig struct {
	Enabled   bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
	BotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	ChannelID string `env:"TELEGRAM_CHANNEL_ID"`
}

// WatcherConfig contains the wallet balance watcher configuration
type WatcherConfig struct {
	Interval time.Duration `env:"WATCH_INTERVAL" envDefault:"5m"`
}

// Settings is the fully resolved, read-only configuration of the process.
type Settings struct {
	steemRPCNodes    []string
	bitsharesRPCNode string
	encryptKey       string
	exchangeFee      decimal.Decimal
	coinHandlersBase string
	coinHandlers     []string
	lowFundsRenotify int64
	handlersConfig   string
	logLevel         string

	handlerFile models.HandlerFile

	API      APIConfig
	MongoDB  MongoDBConfig
	Telegram TelegramConfig
	Watcher  WatcherConfig
}

// Load resolves Settings from environ. A nil environ reads the process
// environment, after loading a .env file from the working directory if one exists.
func Load(environ map[string]string) (*Settings, error) {
	opts := env.Options{Environment: environ}
	if environ == nil {
		// Missing .env is the normal production case
		_ = godotenv.Load()
	}

	var raw rawSettings
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	fee, err := decimal.NewFromString(raw.ExchangeFee)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalidSettings, EX_FEE, raw.ExchangeFee, err)
	}

	if raw.Watcher.Interval <= 0 {
		return nil, fmt.Errorf("%w: WATCH_INTERVAL=%s: must be positive", ErrInvalidSettings, raw.Watcher.Interval)
	}

	if _, err := zapcore.ParseLevel(raw.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: LOG_LEVEL=%q: %v", ErrInvalidSettings, raw.LogLevel, err)
	}

	handlerFile, err := LoadHandlerFile(raw.HandlersConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, COIN_HANDLERS_CONFIG, err)
	}

	return &Settings{
		steemRPCNodes:    raw.SteemRPCNodes,
		bitsharesRPCNode: raw.BitsharesRPCNode,
		encryptKey:       raw.EncryptKey,
		exchangeFee:      fee,
		coinHandlersBase: raw.CoinHandlersBase,
		coinHandlers:     raw.CoinHandlers,
		lowFundsRenotify: raw.LowFundsRenotify,
		handlersConfig:   raw.HandlersConfig,
		logLevel:         raw.LogLevel,
		handlerFile:      *handlerFile,
		API:              raw.API,
		MongoDB:          raw.MongoDB,
		Telegram:         raw.Telegram,
		Watcher:          raw.Watcher,
	}, nil
}

// SteemRPCNodes returns the configured Steem nodes, or nil when the client
// should fall back to its default node list.
func (s *Settings) SteemRPCNodes() []string {
	return cloneStrings(s.steemRPCNodes)
}

func (s *Settings) BitsharesRPCNode() string { return s.bitsharesRPCNode }

// EncryptKey may be empty; consumers report the missing key when they need it.
func (s *Settings) EncryptKey() string { return s.encryptKey }

func (s *Settings) ExchangeFee() decimal.Decimal { return s.exchangeFee }

func (s *Settings) CoinHandlersBase() string { return s.coinHandlersBase }

func (s *Settings) CoinHandlers() []string { return cloneStrings(s.coinHandlers) }

func (s *Settings) LowFundsRenotify() int64 { return s.lowFundsRenotify }

// LowFundsRenotifyInterval is LowFundsRenotify expressed as a duration.
func (s *Settings) LowFundsRenotifyInterval() time.Duration {
	if s.lowFundsRenotify > maxRenotifyHours {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(s.lowFundsRenotify) * time.Hour
}

func (s *Settings) LogLevel() string { return s.logLevel }

// HandlerFile returns a copy of the per-handler settings.
func (s *Settings) HandlerFile() models.HandlerFile {
	out := s.handlerFile
	out.CoindRPC = make(map[string]models.CoindRPCConfig, len(s.handlerFile.CoindRPC))
	for k, v := range s.handlerFile.CoindRPC {
		out.CoindRPC[k] = v
	}
	out.Wallets = append([]models.WalletConfig(nil), s.handlerFile.Wallets...)
	return out
}

// CoinTypes returns the static coin types every deployment offers.
// Coin handlers may add their own on top of these.
func CoinTypes() []models.CoinType {
	return []models.CoinType{
		{Key: "crypto", Label: "Generic Cryptocurrency"},
		{Key: "token", Label: "Generic Token"},
	}
}

// SteemClientOptions holds the policy the shared Steem client is built with.
type SteemClientOptions struct {
	Nodes           []string
	NumRetries      int
	NumRetriesCall  int
	Timeout         time.Duration
	PasswordStorage string
}

func (s *Settings) SteemClientOptions() SteemClientOptions {
	return SteemClientOptions{
		Nodes:           s.SteemRPCNodes(),
		NumRetries:      SteemNumRetries,
		NumRetriesCall:  SteemNumRetriesCall,
		Timeout:         SteemTimeout,
		PasswordStorage: SteemPasswordStorage,
	}
}

// Public returns the secret-free view served by the API.
func (s *Settings) Public(coinTypes []models.CoinType) models.SettingsResponse {
	return models.SettingsResponse{
		SteemRPCNodes:    s.SteemRPCNodes(),
		BitsharesRPCNode: s.bitsharesRPCNode,
		ExchangeFee:      s.exchangeFee.String(),
		CoinHandlersBase: s.coinHandlersBase,
		CoinHandlers:     s.CoinHandlers(),
		LowFundsRenotify: s.lowFundsRenotify,
		EncryptKeySet:    s.encryptKey != "",
		CoinTypes:        coinTypes,
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
