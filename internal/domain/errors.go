package domain

import "errors"

var (
	ErrInvalidCardCount  = errors.New("card count must be between 1 and 10")
	ErrCardIndex         = errors.New("card index out of range")
	ErrEmptyQuestion     = errors.New("question must not be empty")
	ErrNoCards           = errors.New("at least one card name is required")
	ErrDrawExceedsDeck   = errors.New("draw size exceeds number of cards in deck")
	ErrMissingCredential = errors.New("no API key configured for the generation provider")
	ErrUpstreamLLM       = errors.New("upstream LLM failure")
	ErrSuperseded        = errors.New("reading superseded by a newer request")
)
