package internal

import (
	"errors"
	"fmt"
)

// Gateway sentinel errors.
var (
	// ErrUnavailable indicates the model backend could not be reached or
	// answered with a failure status.
	ErrUnavailable = errors.New("model backend unavailable")
	// ErrBadReply indicates the backend answered with a body that is neither
	// a string nor a recognizable reply object.
	ErrBadReply = errors.New("malformed model reply")
)

// StoreError represents errors accessing the durable blob store.
type StoreError struct {
	Op  string // "open", "load", "save", "migrate"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store error: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GatewayError represents errors talking to the model backend.
type GatewayError struct {
	Endpoint string
	Status   int // HTTP status, 0 when the request never completed
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway error [%s] status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("gateway error [%s]: %v", e.Endpoint, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
