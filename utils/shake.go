package utils

import (
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

const (
	seededReaderDomain = "classic-pkc-go/seeded-reader/v1"

	// seededKeySize is the length of the key a seeded reader expands.
	seededKeySize = 64
)

var shakePool = sync.Pool{
	New: func() any { return sha3.NewShake256() },
}

func writeDomain(w io.Writer, domain string) {
	if len(domain) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	_, _ = w.Write([]byte{byte(len(domain))})
	_, _ = io.WriteString(w, domain)
}

// ExpandWithDomain returns n bytes of domain-separated SHAKE256 output over
// data. Hash states are pooled.
func ExpandWithDomain(domain string, data []byte, n int) []byte {
	h := shakePool.Get().(sha3.ShakeHash)
	defer func() {
		h.Reset()
		shakePool.Put(h)
	}()

	writeDomain(h, domain)
	_, _ = h.Write(data)
	out := make([]byte, n)
	_, _ = h.Read(out)
	return out
}

// HashWithDomain computes a domain-separated SHA3-256 hash. Panics if
// domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	h := sha3.New256()
	writeDomain(h, domain)
	h.Write(data)
	return h.Sum(nil)
}

// NewSeededReader returns a deterministic, never ending stream of bytes
// derived from seed with SHAKE256. Two readers built from the same seed
// yield the same bytes, so keys generated from them are identical. The
// reader keeps no reference to seed.
//
// The stream is not safe for concurrent use.
func NewSeededReader(seed []byte) io.Reader {
	key := ExpandWithDomain(seededReaderDomain, seed, seededKeySize)
	h := sha3.NewShake256()
	h.Write(key)
	Zeroize(key)
	return h
}
