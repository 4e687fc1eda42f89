// Package rsa implements textbook RSA over two-character blocks.
//
// A message is sanitized, padded to even length and split into blocks
// x = code(c1)*36 + code(c2). Each block is encrypted as x^e mod n and
// written as one decimal per line. Key generation guarantees n is at least
// codec.BlockSpace so every block is below the modulus.
package rsa

import (
	"io"
	"math/big"
	"strings"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/codec"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/prime"
)

var (
	one        = big.NewInt(1)
	two        = big.NewInt(2)
	blockSpace = big.NewInt(codec.BlockSpace)
)

// KeySet is an RSA key. Public-only key sets leave P, Q, M and D nil.
// A KeySet is never modified after construction.
type KeySet struct {
	P *big.Int // First prime
	Q *big.Int // Second prime, distinct from P
	N *big.Int // Modulus P*Q
	M *big.Int // Totient (P-1)(Q-1), never exported
	E *big.Int // Public exponent, 1 < E < N
	D *big.Int // Private exponent, E*D = 1 mod M
}

// Clone returns a deep copy of ks.
func (ks *KeySet) Clone() *KeySet {
	if ks == nil {
		return nil
	}
	return &KeySet{
		P: cloneInt(ks.P), Q: cloneInt(ks.Q), N: cloneInt(ks.N),
		M: cloneInt(ks.M), E: cloneInt(ks.E), D: cloneInt(ks.D),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// Totient returns (p-1)(q-1).
func Totient(p, q *big.Int) *big.Int {
	pm := new(big.Int).Sub(p, one)
	qm := new(big.Int).Sub(q, one)
	return pm.Mul(pm, qm)
}

// GenerateKeySet draws a fresh key with primes no larger than
// params.MaxValue.
func GenerateKeySet(r io.Reader, params core.Params) (*KeySet, error) {
	const op = "rsa.GenerateKeySet"
	if params.Scheme != pkc.RSA {
		return nil, pkc.NewError(pkc.ErrInvalidParams, op, "parameters are for "+string(params.Scheme))
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidParams)
	}
	max := params.MaxValue

	p, q, err := primePair(r, max)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
	}
	n := new(big.Int).Mul(p, q)
	m := Totient(p, q)

	nMinus1 := new(big.Int).Sub(n, one)
	for i := 0; i < core.MaxKeyAttempts; i++ {
		e, err := prime.Get(r, two, nMinus1)
		if err != nil {
			return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
		}
		if d := new(big.Int).ModInverse(e, m); d != nil {
			return &KeySet{P: p, Q: q, N: n, M: m, E: e, D: d}, nil
		}
	}
	return nil, pkc.NewError(pkc.ErrNoModularInverse, op, "no public exponent invertible mod the totient")
}

// primePair draws distinct primes p, q <= max with p*q >= codec.BlockSpace.
// q is drawn from [ceil(BlockSpace/p), max] so the product bound holds by
// construction; p is redrawn when that range is empty.
func primePair(r io.Reader, max *big.Int) (*big.Int, *big.Int, error) {
	for i := 0; i < core.MaxKeyAttempts; i++ {
		p, err := prime.Get(r, two, max)
		if err != nil {
			return nil, nil, err
		}
		low := new(big.Int).Add(blockSpace, new(big.Int).Sub(p, one))
		low.Quo(low, p)
		if low.Cmp(max) > 0 {
			continue
		}
		q, err := prime.Get(r, low, max)
		if err != nil {
			continue
		}
		if q.Cmp(p) != 0 {
			return p, q, nil
		}
	}
	return nil, nil, pkc.NewError(pkc.ErrKeyGeneration, "rsa.primePair", "no distinct prime pair covers the block space")
}

// EncryptBlock returns x^e mod n.
func EncryptBlock(ks *KeySet, x *big.Int) *big.Int {
	return new(big.Int).Exp(x, ks.E, ks.N)
}

// DecryptBlock returns c^d mod n.
func DecryptBlock(ks *KeySet, c *big.Int) *big.Int {
	return new(big.Int).Exp(c, ks.D, ks.N)
}

// Encrypt encrypts message under the public part of ks.
func Encrypt(ks *KeySet, message string) (string, error) {
	const op = "rsa.Encrypt"
	if ks == nil || ks.N == nil || ks.E == nil {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "public key not set")
	}
	if ks.N.Cmp(blockSpace) < 0 {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "modulus is smaller than the block space")
	}

	text, err := codec.Prepare(message)
	if err != nil {
		return "", pkc.WithOp(err, op, pkc.ErrInput)
	}

	var b strings.Builder
	for _, pair := range codec.Pairs(codec.PadEven(text)) {
		x, err := codec.CharsToNumber(pair[0], pair[1])
		if err != nil {
			return "", pkc.WithOp(err, op, pkc.ErrInput)
		}
		b.WriteString(EncryptBlock(ks, big.NewInt(int64(x))).String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Decrypt decrypts cipher text under the private part of ks. Each block is
// written as two characters on its own line.
func Decrypt(ks *KeySet, cipherText string) (string, error) {
	const op = "rsa.Decrypt"
	if ks == nil || ks.N == nil || ks.D == nil {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "private key not set")
	}

	tokens, err := codec.Tokenize(cipherText)
	if err != nil {
		return "", pkc.WithOp(err, op, pkc.ErrInput)
	}

	var b strings.Builder
	for i, c := range tokens {
		x := DecryptBlock(ks, c)
		if x.Cmp(blockSpace) >= 0 {
			return "", pkc.TokenError(pkc.ErrInput, op, c.String(), i, "block decrypts outside the block space")
		}
		pair, err := codec.NumberToChars(int(x.Int64()))
		if err != nil {
			return "", pkc.WithOp(err, op, pkc.ErrInput)
		}
		b.WriteString(pair)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ValidatePublic checks n and e of a public key.
func ValidatePublic(n, e *big.Int) error {
	if n.Cmp(two) < 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "modulus must be at least 2")
	}
	if e.Cmp(one) <= 0 || e.Cmp(n) >= 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "public exponent must satisfy 1 < e < n")
	}
	return nil
}

// ValidatePrivate checks p, q and d of a private key: p and q are distinct
// primes and d is invertible modulo their totient.
func ValidatePrivate(p, q, d *big.Int) error {
	if !prime.IsPrime(p) || !prime.IsPrime(q) {
		return pkc.Wrapf(pkc.ErrInvalidKey, "p and q must be prime")
	}
	if p.Cmp(q) == 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "p and q must be distinct")
	}
	if d.Sign() <= 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "private exponent must be positive")
	}
	if new(big.Int).GCD(nil, nil, d, Totient(p, q)).Cmp(one) != 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "private exponent must be coprime to the totient")
	}
	return nil
}
