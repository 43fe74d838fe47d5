package yt

import (
	"errors"
	"fmt"
)

// ErrEmptyTerm is returned when a search is requested without a term.
var ErrEmptyTerm = errors.New("youtube: search term is empty")

// Phase identifies which remote call of a search failed.
type Phase int

const (
	PhaseSearch  Phase = 1
	PhaseDetails Phase = 2
)

func (p Phase) String() string {
	switch p {
	case PhaseSearch:
		return "search"
	case PhaseDetails:
		return "details"
	default:
		return "unknown"
	}
}

// AuthOrQuotaError is returned when the search call is rejected by the API itself,
// e.g. an invalid key or an exhausted quota. Message is the upstream text, unmodified.
type AuthOrQuotaError struct {
	Code    int
	Message string
}

func (e *AuthOrQuotaError) Error() string {
	return fmt.Sprintf("youtube API error (%d): %s", e.Code, e.Message)
}

// ConnectivityError wraps any transport level failure of either phase, timeouts included.
type ConnectivityError struct {
	Phase Phase
	Err   error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("youtube %s request failed: %v", e.Phase, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
