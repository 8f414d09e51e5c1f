package augment

import "errors"

// ErrDirNotFound is returned when the listings directory does not exist.
var ErrDirNotFound = errors.New("listings directory not found")
