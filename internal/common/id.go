package common

import (
	"github.com/google/uuid"
)

// NewID generates a unique identifier with the given prefix, e.g. "run_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.New().String()
}

// NewRunID generates a unique identifier for a batch of related calls.
func NewRunID() string {
	return NewID("run")
}

// NewRequestID generates a unique identifier for a single call.
func NewRequestID() string {
	return NewID("req")
}

// NewEventID generates a unique identifier for a usage event.
func NewEventID() string {
	return NewID("evt")
}
