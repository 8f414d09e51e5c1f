package osm

import "errors"

var (
	ErrUnexpectedStatus  = errors.New("unexpected overpass status")
	ErrMalformedResponse = errors.New("malformed overpass response")
)
