// Package utils provides randomness, hashing and input limits shared by
// the cryptosystems.
package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"math/big"
	"runtime"
)

// RandReader is the default source of randomness for key generation.
var RandReader io.Reader = rand.Reader

// MaxRejectionAttempts bounds rejection sampling in RandomInt. Each draw is
// accepted with probability above one half.
const MaxRejectionAttempts = 128

var (
	// ErrNonPositiveBound indicates a sampling bound that is zero or negative.
	ErrNonPositiveBound = errors.New("bound must be positive")

	// ErrEmptyRange indicates a range whose upper end is below its lower end.
	ErrEmptyRange = errors.New("empty range")

	// ErrSamplingExhausted indicates rejection sampling ran out of attempts.
	ErrSamplingExhausted = errors.New("rejection sampling exhausted")
)

var one = big.NewInt(1)

// RandomBytes reads n bytes from r. A nil r reads from RandReader.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	if r == nil {
		r = RandReader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomBits returns a uniform integer in [0, 2^n).
func RandomBits(r io.Reader, n int) (*big.Int, error) {
	if n <= 0 {
		return new(big.Int), nil
	}
	buf, err := RandomBytes(r, (n+7)/8)
	if err != nil {
		return nil, err
	}
	// Clear the excess high bits of the leading byte.
	buf[0] &= 0xFF >> (8*len(buf) - n)
	return new(big.Int).SetBytes(buf), nil
}

// RandomInt returns a uniform integer in [0, max). It reads only from r,
// unlike crypto/rand.Int which may ignore a caller supplied reader.
func RandomInt(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, ErrNonPositiveBound
	}
	if max.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	bits := new(big.Int).Sub(max, one).BitLen()
	for i := 0; i < MaxRejectionAttempts; i++ {
		v, err := RandomBits(r, bits)
		if err != nil {
			return nil, err
		}
		if v.Cmp(max) < 0 {
			return v, nil
		}
	}
	return nil, ErrSamplingExhausted
}

// RandomRange returns a uniform integer in [low, high], both inclusive.
func RandomRange(r io.Reader, low, high *big.Int) (*big.Int, error) {
	if high.Cmp(low) < 0 {
		return nil, ErrEmptyRange
	}
	width := new(big.Int).Sub(high, low)
	width.Add(width, one)
	v, err := RandomInt(r, width)
	if err != nil {
		return nil, err
	}
	return v.Add(v, low), nil
}

// ValidateSeedEntropy rejects obviously weak seeds: fewer than 16 bytes,
// all bytes identical, or a sequential run. This is a sanity check, not a
// randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < 16 {
		return errors.New("seed must be at least 16 bytes")
	}

	allSame := true
	ascending := true
	descending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[0] {
			allSame = false
		}
		if seed[i] != seed[i-1]+1 {
			ascending = false
		}
		if seed[i] != seed[i-1]-1 {
			descending = false
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}
	if ascending || descending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}
	return nil
}

// ConstantTimeEqual compares two byte slices in constant time.
// This function leaks only the length of the slices.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites a byte slice with zeros.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
