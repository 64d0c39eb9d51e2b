package steem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/config"
	"github.com/ety001/cryptotoken-converter/internal/rpc"
	"github.com/steemit/steemgosdk"
	"go.uber.org/zap"
)

// DefaultNodes are used when no node list is configured
var DefaultNodes = []string{
	"https://api.steemit.com",
	"https://api.justyy.com",
	"https://steemd.steemworld.org",
}

// PasswordStorage selects where the wallet unlock passphrase comes from
type PasswordStorage string

const (
	// PasswordStorageEnvironment reads the passphrase from the UNLOCK variable
	PasswordStorageEnvironment PasswordStorage = "environment"
	PasswordStorageNone        PasswordStorage = "none"
)

var (
	ErrNumRetriesReached    = errors.New("steem: number of retries reached")
	ErrUnlockPasswordNotSet = errors.New("steem: UNLOCK is not set")
	ErrPasswordStorage      = errors.New("steem: password storage does not provide an unlock passphrase")
)

// Options configures a Client
type Options struct {
	Nodes           []string
	NumRetries      int // node switches before giving up
	NumRetriesCall  int // retries of one call on the same node
	Timeout         time.Duration
	PasswordStorage PasswordStorage

	Logger        *zap.Logger
	LookupEnv     func(string) (string, bool)
	Backoff       func(retry int) time.Duration
	CallRetryWait time.Duration
}

// OptionsFromSettings converts the loaded client policy into Options
func OptionsFromSettings(s config.SteemClientOptions) Options {
	return Options{
		Nodes:           s.Nodes,
		NumRetries:      s.NumRetries,
		NumRetriesCall:  s.NumRetriesCall,
		Timeout:         s.Timeout,
		PasswordStorage: PasswordStorage(s.PasswordStorage),
	}
}

// Client is a Steem JSON-RPC client that fails over between nodes.
// It is safe for concurrent use.
type Client struct {
	nodes           []string
	numRetries      int
	passwordStorage PasswordStorage
	rpc             *rpc.Client
	logger          *zap.Logger
	lookupEnv       func(string) (string, bool)
	backoff         func(int) time.Duration
	timeout         time.Duration

	mu      sync.Mutex
	current int
	apis    map[string]*steemgosdk.API
}

// New creates a client. An empty node list falls back to DefaultNodes.
func New(opts Options) *Client {
	nodes := opts.Nodes
	if len(nodes) == 0 {
		nodes = DefaultNodes
	}
	nodes = append([]string(nil), nodes...)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	backoff := opts.Backoff
	if backoff == nil {
		backoff = CalculateBackoff
	}
	storage := opts.PasswordStorage
	if storage == "" {
		storage = PasswordStorageNone
	}

	return &Client{
		nodes:           nodes,
		numRetries:      opts.NumRetries,
		passwordStorage: storage,
		rpc: rpc.New(rpc.Options{
			Timeout:   opts.Timeout,
			Retries:   opts.NumRetriesCall,
			RetryWait: opts.CallRetryWait,
		}),
		logger:    logger,
		lookupEnv: lookupEnv,
		backoff:   backoff,
		timeout:   opts.Timeout,
		apis:      make(map[string]*steemgosdk.API),
	}
}

// Nodes returns the node list in failover order
func (c *Client) Nodes() []string {
	return append([]string(nil), c.nodes...)
}

// CurrentNode returns the node the next call starts with
func (c *Client) CurrentNode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodes[c.current]
}

// Call makes a JSON-RPC call, switching nodes on transport failures.
// JSON-RPC errors from a node are returned as-is.
func (c *Client) Call(ctx context.Context, method string, params interface{}, out interface{}) error {
	return c.withFailover(ctx, method, func(node string) error {
		return c.rpc.Call(ctx, node, method, params, out)
	})
}

func (c *Client) withFailover(ctx context.Context, what string, fn func(node string) error) error {
	c.mu.Lock()
	start := c.current
	c.mu.Unlock()

	var lastErr error
	for switches := 0; switches <= c.numRetries; switches++ {
		if switches > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(switches - 1)):
			}
		}

		idx := (start + switches) % len(c.nodes)
		node := c.nodes[idx]

		err := fn(node)
		if err == nil {
			c.mu.Lock()
			c.current = idx
			c.mu.Unlock()
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !errors.Is(err, rpc.ErrTransport) {
			return err
		}

		lastErr = err
		c.logger.Warn("steem node failed, switching",
			zap.String("node", node),
			zap.String("call", what),
			zap.Int("switch", switches),
			zap.Error(err))
	}

	return fmt.Errorf("%w (%s, %d node switches): %v", ErrNumRetriesReached, what, c.numRetries, lastErr)
}

// ChainState is the subset of the dynamic global properties the converter needs
type ChainState struct {
	Node                  string
	LastIrreversibleBlock int64
}

// ChainState reads the dynamic global properties through the steemgosdk API.
// Each node attempt is bounded by the client timeout and by ctx.
func (c *Client) ChainState(ctx context.Context) (*ChainState, error) {
	var state *ChainState
	err := c.withFailover(ctx, "get_dynamic_global_properties", func(node string) error {
		lib, err := c.lastIrreversibleBlock(ctx, node)
		if err != nil {
			return err
		}
		state = &ChainState{Node: node, LastIrreversibleBlock: lib}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// lastIrreversibleBlock runs the SDK call in its own goroutine because the
// SDK transport does not take a context.
func (c *Client) lastIrreversibleBlock(ctx context.Context, node string) (int64, error) {
	type result struct {
		lib int64
		err error
	}
	done := make(chan result, 1)
	go func() {
		dgp, err := c.api(node).GetDynamicGlobalProperties()
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{lib: int64(dgp.LastIrreversibleBlockNum)}
	}()

	var timeout <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case r := <-done:
		if r.err != nil {
			return 0, fmt.Errorf("%w: %v", rpc.ErrTransport, r.err)
		}
		return r.lib, nil
	case <-timeout:
		return 0, fmt.Errorf("%w: %s timed out after %s", rpc.ErrTransport, node, c.timeout)
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (c *Client) api(node string) *steemgosdk.API {
	c.mu.Lock()
	defer c.mu.Unlock()

	api, ok := c.apis[node]
	if !ok {
		api = steemgosdk.GetClient(node).GetAPI()
		c.apis[node] = api
	}
	return api
}

// UnlockPassword returns the wallet passphrase according to the password storage mode.
func (c *Client) UnlockPassword() (string, error) {
	if c.passwordStorage != PasswordStorageEnvironment {
		return "", fmt.Errorf("%w: %q", ErrPasswordStorage, c.passwordStorage)
	}
	pass, ok := c.lookupEnv(config.UNLOCK)
	if !ok || pass == "" {
		return "", ErrUnlockPasswordNotSet
	}
	return pass, nil
}

// PasswordStorage returns the configured password storage mode
func (c *Client) PasswordStorage() PasswordStorage {
	return c.passwordStorage
}
