package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrPageInFlight = errors.New("page load already in flight")
	ErrUpstream     = errors.New("upstream request failed")
)
