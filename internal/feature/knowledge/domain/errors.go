// Package domain defines domain-level errors for the knowledge feature.
package domain

import "errors"

var (
	// ErrCoinNotFound indicates that no coin matched the requested name or symbol.
	ErrCoinNotFound = errors.New("coin not found")

	// ErrInvalidCoin indicates that a record violates the knowledge base invariants
	// (duplicate id or symbol, unknown tier, score out of range).
	ErrInvalidCoin = errors.New("invalid coin record")
)
