package entity

import "errors"

// Domain errors
var (
	// Corpus errors
	ErrCorpusEmpty = errors.New("corpus contains no documents")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
