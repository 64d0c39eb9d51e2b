package steem

import "time"

const (
	baseDelay = 500 * time.Millisecond
	maxDelay  = 10 * time.Second
)

// CalculateBackoff returns the wait before the given node switch:
// baseDelay * 2^retry, capped at maxDelay.
func CalculateBackoff(retry int) time.Duration {
	if retry < 0 {
		return baseDelay
	}
	if retry > 30 {
		return maxDelay
	}

	backoff := baseDelay * time.Duration(1<<retry)
	if backoff > maxDelay {
		return maxDelay
	}
	return backoff
}
