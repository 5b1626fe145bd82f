// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the request was rejected before any state was created.
var ErrValidation = errors.New("validation failed")

// ErrForbidden indicates the requester does not own the targeted resource.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidState indicates a status transition that the task state machine
// does not permit, e.g. cancelling a task that is already terminal.
var ErrInvalidState = errors.New("invalid state transition")
