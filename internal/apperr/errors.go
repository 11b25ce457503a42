package apperr

import "errors"

var (
	ErrLogNotFound   = errors.New("reading log not found")
	ErrMalformedLog  = errors.New("malformed reading log")
	ErrUnknownGenre  = errors.New("unknown genre")
	ErrCoverNotFound = errors.New("cover image not found")
	ErrInterrupted   = errors.New("interrupted")
)
