package pkc

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Codespace groups the error codes registered by this module.
const Codespace = "pkc"

var (
	// ErrInput indicates a message or cipher text contains characters or
	// tokens outside the expected alphabet.
	ErrInput = errorsmod.Register(Codespace, 2, "invalid input")

	// ErrFormat indicates structurally malformed cipher text.
	ErrFormat = errorsmod.Register(Codespace, 3, "invalid cipher text format")

	// ErrKeyGeneration indicates that key generation exhausted its retries.
	ErrKeyGeneration = errorsmod.Register(Codespace, 4, "key generation failed")

	// ErrKeyParse indicates an imported key string is not a valid integer
	// or the wrong number of fields was supplied.
	ErrKeyParse = errorsmod.Register(Codespace, 5, "invalid key encoding")

	// ErrInvalidKey indicates key material that violates a scheme invariant.
	ErrInvalidKey = errorsmod.Register(Codespace, 6, "invalid key material")

	// ErrInvalidParams indicates a max value or weight count out of range.
	ErrInvalidParams = errorsmod.Register(Codespace, 7, "invalid parameters")

	// ErrUnsupportedScheme indicates an unknown scheme name.
	ErrUnsupportedScheme = errorsmod.Register(Codespace, 8, "unsupported scheme")
)

var (
	// ErrPrimeRangeExhausted indicates no prime was found in a range.
	ErrPrimeRangeExhausted = errorsmod.Wrap(ErrKeyGeneration, "prime range exhausted")

	// ErrNoModularInverse indicates no invertible exponent or multiplier
	// was found within the retry budget.
	ErrNoModularInverse = errorsmod.Wrap(ErrKeyGeneration, "no modular inverse")
)

// Kinds lists the registered error kinds.
func Kinds() []*errorsmod.Error {
	return []*errorsmod.Error{
		ErrInput, ErrFormat, ErrKeyGeneration, ErrKeyParse,
		ErrInvalidKey, ErrInvalidParams, ErrUnsupportedScheme,
	}
}

// KindOf returns the registered kind err belongs to, or nil.
func KindOf(err error) *errorsmod.Error {
	if err == nil {
		return nil
	}
	for _, k := range Kinds() {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Error carries the kind of a failure together with where it happened.
type Error struct {
	Kind   error  // One of the registered kinds, possibly wrapped
	Op     string // Operation that failed, e.g. "rsa.Decrypt"
	Token  string // Offending token or character, if any
	Pos    int    // Zero-based position of Token, -1 when not applicable
	Reason string // Human readable detail
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" (token %q at position %d)", e.Token, e.Pos)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an Error that is not tied to a token position.
func NewError(kind error, op, reason string) *Error {
	return &Error{Kind: kind, Op: op, Pos: -1, Reason: reason}
}

// TokenError builds an Error that points at an offending token.
func TokenError(kind error, op, token string, pos int, reason string) *Error {
	return &Error{Kind: kind, Op: op, Token: token, Pos: pos, Reason: reason}
}

// WithOp returns err re-labelled with op if it is an *Error, or wrapped in a
// new *Error of kind fallback otherwise.
func WithOp(err error, op string, fallback error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		c := *e
		c.Op = op
		return &c
	}
	if KindOf(err) != nil {
		return &Error{Kind: err, Op: op, Pos: -1}
	}
	return &Error{Kind: errorsmod.Wrap(fallback, err.Error()), Op: op, Pos: -1}
}

// Wrapf annotates a kind with formatted context.
func Wrapf(kind error, format string, args ...any) error {
	return errorsmod.Wrapf(kind, format, args...)
}
