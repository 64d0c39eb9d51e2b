package steem

import (
	"errors"
	"sync"
)

var (
	ErrSharedAlreadySet = errors.New("steem: shared client already set")
	ErrSharedNotSet     = errors.New("steem: shared client not set")
	ErrNilClient        = errors.New("steem: nil client")
)

// Registry holds one client for the lifetime of the process.
// It can be set exactly once.
type Registry struct {
	mu     sync.RWMutex
	client *Client
}

// Set registers c. A second call fails with ErrSharedAlreadySet.
func (r *Registry) Set(c *Client) error {
	if c == nil {
		return ErrNilClient
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return ErrSharedAlreadySet
	}
	r.client = c
	return nil
}

// Get returns the registered client
func (r *Registry) Get() (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.client == nil {
		return nil, ErrSharedNotSet
	}
	return r.client, nil
}

var shared Registry

// SetShared registers the process-wide default client
func SetShared(c *Client) error {
	return shared.Set(c)
}

// Shared returns the process-wide default client
func Shared() (*Client, error) {
	return shared.Get()
}
