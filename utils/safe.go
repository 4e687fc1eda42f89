// This file contains input limits that keep message and cipher text
// processing bounded.

package utils

import "errors"

const (
	// MaxMessageLength is the maximum number of characters accepted by Encrypt.
	MaxMessageLength = 1 << 16 // 64K characters

	// MaxTokenCount is the maximum number of integers accepted by Decrypt.
	MaxTokenCount = 1 << 17
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}
