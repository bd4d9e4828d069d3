// Package apperr defines the sentinel error values the service layer returns.
// Handlers translate them to HTTP status codes with errors.Is; nothing below
// the handler layer knows about HTTP.
package apperr

import "errors"

var (
	// ErrNotFound: a referenced team, product or user id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument: missing required field or malformed payload.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateOp: the op code is already taken by a different product.
	ErrDuplicateOp = errors.New("op already exists")
	// ErrConcurrentUpdate: the optimistic-concurrency check failed at save
	// time because another writer committed first. Never retried internally;
	// the caller re-fetches and decides.
	ErrConcurrentUpdate = errors.New("concurrent update detected")
	// ErrInvalidCredentials: unknown user or wrong password. One value for
	// both so responses do not leak which part was wrong.
	ErrInvalidCredentials = errors.New("credenciales invalidas")
)
