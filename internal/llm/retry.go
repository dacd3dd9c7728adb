package llm

import (
	"math/rand"
	"strings"
	"time"
)

const (
	baseDelay = 500 * time.Millisecond
	maxDelay  = 30 * time.Second
)

// retryableFragments match transient provider failures worth retrying.
var retryableFragments = []string{
	"throttl",
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"temporarily unavailable",
	"too many requests",
	"service unavailable",
	"429",
	"500",
	"502",
	"503",
	"504",
}

// IsRetryable reports whether err looks like a transient provider failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// Backoff returns the delay before retry number attempt (1-based),
// exponential with a cap and +/-20% jitter.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := baseDelay * time.Duration(1<<uint(attempt-1))
	if delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/5 + 1))
	if rand.Intn(2) == 0 {
		return delay - jitter
	}
	return delay + jitter
}
