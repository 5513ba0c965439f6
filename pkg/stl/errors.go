package stl

import "errors"

var (
	// ErrRead indicates malformed or truncated STL content
	ErrRead = errors.New("stl: read error")
	// ErrWrite indicates a failure while serializing a model
	ErrWrite = errors.New("stl: write error")
)
