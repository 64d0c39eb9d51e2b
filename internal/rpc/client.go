package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrTransport marks failures where the node could not be reached or
// answered with something that is not a JSON-RPC response.
var ErrTransport = errors.New("rpc transport error")

// Request represents a JSON-RPC request
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int         `json:"id"`
}

// Response represents a JSON-RPC response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// Error represents a JSON-RPC error returned by the node
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error: %s (code: %d)", e.Message, e.Code)
}

// Options configures a Client
type Options struct {
	Timeout   time.Duration
	Retries   int           // extra attempts after the first one
	RetryWait time.Duration // initial wait between attempts
}

// Client sends JSON-RPC and plain JSON requests over HTTP
type Client struct {
	http *resty.Client
}

// CallOption customizes a single request
type CallOption func(*resty.Request)

// WithBasicAuth sets HTTP basic auth, as bitcoind-style nodes require
func WithBasicAuth(user, password string) CallOption {
	return func(r *resty.Request) {
		r.SetBasicAuth(user, password)
	}
}

// New creates a client; transport errors and 5xx answers are retried opts.Retries times.
// A 5xx answer carrying a JSON-RPC error object is a node error and is not retried.
func New(opts Options) *Client {
	wait := opts.RetryWait
	if wait <= 0 {
		wait = 500 * time.Millisecond
	}

	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(4 * wait).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			if resp == nil || resp.StatusCode() < http.StatusInternalServerError {
				return false
			}
			return !isRPCError(resp.Body())
		})

	return &Client{http: httpClient}
}

func isRPCError(body []byte) bool {
	var rpcResp Response
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return false
	}
	return rpcResp.Error != nil
}

// Call makes a JSON-RPC 2.0 call and decodes the result into out (if non-nil).
func (c *Client) Call(ctx context.Context, url, method string, params interface{}, out interface{}, opts ...CallOption) error {
	if params == nil {
		params = []interface{}{}
	}
	req := c.http.R().
		SetContext(ctx).
		SetBody(Request{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Post(url)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, method, err)
	}

	var rpcResp Response
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		if resp.IsError() {
			return fmt.Errorf("%w: %s: http status %d", ErrTransport, method, resp.StatusCode())
		}
		return fmt.Errorf("%w: %s: failed to unmarshal response: %v", ErrTransport, method, err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: http status %d", ErrTransport, method, resp.StatusCode())
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	return nil
}

// PostJSON posts body as JSON and decodes a successful answer into out (if non-nil).
func (c *Client) PostJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	req := c.http.R().SetContext(ctx).SetBody(body)
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Post(url)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTransport, url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: http status %d", ErrTransport, url, resp.StatusCode())
	}
	return nil
}
