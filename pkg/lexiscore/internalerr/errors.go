package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrIO                 = errors.New("io failure")
	ErrCollaborator       = errors.New("collaborator failure")
	ErrMalformedScoreFile = errors.New("malformed score file")
	ErrNotFound           = errors.New("not found")
)
