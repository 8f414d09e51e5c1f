package embedding

import "errors"

// ErrRateLimited marks a failure as rate limiting. Service implementations
// wrap it so the retry policy backs off exponentially.
var ErrRateLimited = errors.New("rate limited")
