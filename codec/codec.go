// Package codec maps between text and the integers the cryptosystems
// operate on.
//
// The alphabet is 0-9 followed by A-Z, read case-insensitively, so a
// character has a code in [0, Radix). RSA and ElGamal encrypt two-character
// blocks numbered code(c1)*Radix + code(c2), which always lies below
// BlockSpace. The knapsack encrypts single characters as a fixed-width bit
// vector, most significant bit first.
package codec

import (
	"strings"

	pkc "github.com/BackendStack21/classic-pkc-go"
)

const (
	// Alphabet lists the symbols in code order.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Radix is the number of symbols, len(Alphabet).
	Radix = 36

	// BlockSpace is the number of distinct two-character blocks.
	BlockSpace = Radix * Radix

	// PadChar is appended to odd-length messages.
	PadChar = 'X'
)

// Code returns the code of c, or false when c is not in the alphabet.
func Code(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10, true
	default:
		return 0, false
	}
}

// Symbol returns the upper-case symbol for a code in [0, Radix).
func Symbol(code int) (byte, bool) {
	if code < 0 || code >= Radix {
		return 0, false
	}
	return Alphabet[code], true
}

// CharsToNumber encodes a two-character block.
func CharsToNumber(c1, c2 byte) (int, error) {
	const op = "codec.CharsToNumber"
	hi, ok := Code(c1)
	if !ok {
		return 0, pkc.TokenError(pkc.ErrInput, op, string(c1), 0, "character outside alphabet")
	}
	lo, ok := Code(c2)
	if !ok {
		return 0, pkc.TokenError(pkc.ErrInput, op, string(c2), 1, "character outside alphabet")
	}
	return hi*Radix + lo, nil
}

// NumberToChars decodes a block number in [0, BlockSpace).
func NumberToChars(n int) (string, error) {
	if n < 0 || n >= BlockSpace {
		return "", pkc.NewError(pkc.ErrInput, "codec.NumberToChars", "block value out of range")
	}
	return string([]byte{Alphabet[n/Radix], Alphabet[n%Radix]}), nil
}

// CharToBits returns the code of c as width bits, most significant first.
// Codes that need more than width bits are rejected.
func CharToBits(c byte, width int) ([]bool, error) {
	const op = "codec.CharToBits"
	code, ok := Code(c)
	if !ok {
		return nil, pkc.TokenError(pkc.ErrInput, op, string(c), 0, "character outside alphabet")
	}
	if width <= 0 || (width < 63 && code >= 1<<width) {
		return nil, pkc.TokenError(pkc.ErrInput, op, string(c), 0, "character does not fit the knapsack")
	}
	bits := make([]bool, width)
	for i := width - 1; i >= 0 && code > 0; i-- {
		bits[i] = code&1 == 1
		code >>= 1
	}
	return bits, nil
}

// BitsToChar is the inverse of CharToBits.
func BitsToChar(bits []bool) (byte, error) {
	code := 0
	for _, b := range bits {
		if code >= Radix {
			break
		}
		code <<= 1
		if b {
			code |= 1
		}
	}
	sym, ok := Symbol(code)
	if !ok {
		return 0, pkc.NewError(pkc.ErrInput, "codec.BitsToChar", "bit pattern outside alphabet")
	}
	return sym, nil
}

// Sanitize drops every character that is not an ASCII letter or digit and
// upper-cases the rest.
func Sanitize(message string) string {
	var b strings.Builder
	b.Grow(len(message))
	for i := 0; i < len(message); i++ {
		c := message[i]
		if _, ok := Code(c); ok {
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

// PadEven appends PadChar to odd-length text.
func PadEven(text string) string {
	if len(text)%2 == 1 {
		return text + string(PadChar)
	}
	return text
}

// Pairs splits even-length text into two-character blocks.
func Pairs(text string) []string {
	out := make([]string, 0, len(text)/2)
	for i := 0; i+1 < len(text); i += 2 {
		out = append(out, text[i:i+2])
	}
	return out
}
