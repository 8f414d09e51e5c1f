package listing

import "errors"

var (
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrNotArray    = errors.New("top-level value is not an array")
	ErrNotObject   = errors.New("value is not an object")
)
