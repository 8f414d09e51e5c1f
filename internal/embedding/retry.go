package embedding

import (
	"errors"
	"net/http"
	"time"

	"github.com/openai/openai-go"
)

// attemptPolicy is a backoff.BackOff whose next delay depends on how the
// previous attempt failed: base*2^(n-1) before attempt n+1 after rate
// limiting, a flat base delay after anything else.
type attemptPolicy struct {
	base        time.Duration
	failures    int
	rateLimited bool
}

// observe records the failure the next NextBackOff call responds to.
func (p *attemptPolicy) observe(err error) {
	p.rateLimited = isRateLimitError(err)
}

func (p *attemptPolicy) NextBackOff() time.Duration {
	p.failures++
	if !p.rateLimited {
		return p.base
	}
	return p.base << min(p.failures-1, 30)
}

func (p *attemptPolicy) Reset() {
	p.failures = 0
	p.rateLimited = false
}

// isRateLimitError checks if the error is a rate limit error (HTTP 429).
func isRateLimitError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
