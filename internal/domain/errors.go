package domain

import "errors"

// Domain errors
var (
	ErrNoTextFound     = errors.New("no extractable text")
	ErrInvalidFile     = errors.New("invalid file")
	ErrEmptyGeneration = errors.New("model returned no sequences")
	ErrUnknownBackend  = errors.New("unknown backend")
)
