// Package elgamal implements ElGamal encryption over Z_p on two-character
// blocks.
//
// Each block x is encrypted as the pair (g^k mod p, r^k * x mod p) and
// written as "c1, c2" on its own line. The ephemeral k is either part of
// the key set or drawn fresh for every block.
package elgamal

import (
	"io"
	"math/big"
	"strings"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/codec"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/prime"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

var (
	one      = big.NewInt(1)
	two      = big.NewInt(2)
	minPrime = big.NewInt(codec.BlockSpace + 1)
)

// KeySet is an ElGamal key. K is nil when a fresh ephemeral exponent is
// drawn for every block. A KeySet is never modified after construction.
type KeySet struct {
	P *big.Int // Prime modulus
	G *big.Int // Base, 1 <= G < P
	R *big.Int // Public value G^A mod P
	A *big.Int // Private exponent
	K *big.Int // Ephemeral exponent, 1 <= K < P, or nil
}

// Clone returns a deep copy of ks.
func (ks *KeySet) Clone() *KeySet {
	if ks == nil {
		return nil
	}
	return &KeySet{
		P: cloneInt(ks.P), G: cloneInt(ks.G), R: cloneInt(ks.R),
		A: cloneInt(ks.A), K: cloneInt(ks.K),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// GenerateKeySet draws a fresh key. The modulus is a prime in
// [codec.BlockSpace+1, params.MaxValue].
func GenerateKeySet(r io.Reader, params core.Params) (*KeySet, error) {
	const op = "elgamal.GenerateKeySet"
	if params.Scheme != pkc.ElGamal {
		return nil, pkc.NewError(pkc.ErrInvalidParams, op, "parameters are for "+string(params.Scheme))
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidParams)
	}
	max := params.MaxValue

	a, err := utils.RandomRange(r, one, new(big.Int).Sub(max, one))
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
	}
	p, err := prime.Get(r, minPrime, max)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
	}
	pMinus1 := new(big.Int).Sub(p, one)
	k, err := utils.RandomRange(r, one, pMinus1)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
	}
	g, err := utils.RandomRange(r, one, pMinus1)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
	}

	return &KeySet{P: p, G: g, R: new(big.Int).Exp(g, a, p), A: a, K: k}, nil
}

// EncryptBlock encrypts x with ephemeral exponent k.
func EncryptBlock(ks *KeySet, x, k *big.Int) (c1, c2 *big.Int) {
	c1 = new(big.Int).Exp(ks.G, k, ks.P)
	c2 = new(big.Int).Exp(ks.R, k, ks.P)
	c2.Mul(c2, x).Mod(c2, ks.P)
	return c1, c2
}

// DecryptBlock recovers x from (c1, c2). c1^(p-2) is the inverse of c1
// modulo the prime p.
func DecryptBlock(ks *KeySet, c1, c2 *big.Int) *big.Int {
	s := new(big.Int).Exp(c1, new(big.Int).Sub(ks.P, two), ks.P)
	plain := s.Exp(s, ks.A, ks.P)
	return plain.Mul(plain, c2).Mod(plain, ks.P)
}

// Encrypt encrypts message under the public part of ks. When ks.K is nil a
// fresh k in [1, p) is read from r for every block.
func Encrypt(ks *KeySet, message string, r io.Reader) (string, error) {
	const op = "elgamal.Encrypt"
	if ks == nil || ks.P == nil || ks.G == nil || ks.R == nil {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "public key not set")
	}
	if ks.P.Cmp(minPrime) < 0 {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "modulus is not above the block space")
	}
	pMinus1 := new(big.Int).Sub(ks.P, one)
	if ks.K != nil && (ks.K.Sign() <= 0 || ks.K.Cmp(pMinus1) > 0) {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "ephemeral exponent must satisfy 1 <= k < p")
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
		k := ks.K
		if k == nil {
			if k, err = utils.RandomRange(r, one, pMinus1); err != nil {
				return "", pkc.WithOp(err, op, pkc.ErrKeyGeneration)
			}
		}
		c1, c2 := EncryptBlock(ks, big.NewInt(int64(x)), k)
		b.WriteString(c1.String())
		b.WriteString(", ")
		b.WriteString(c2.String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Decrypt decrypts cipher text made of (c1, c2) pairs.
func Decrypt(ks *KeySet, cipherText string) (string, error) {
	const op = "elgamal.Decrypt"
	if ks == nil || ks.P == nil || ks.A == nil {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "private key not set")
	}

	tokens, err := codec.Tokenize(cipherText)
	if err != nil {
		return "", pkc.WithOp(err, op, pkc.ErrInput)
	}
	if len(tokens)%2 != 0 {
		return "", pkc.NewError(pkc.ErrFormat, op, "cipher text must hold an even number of integers")
	}

	var b strings.Builder
	for i := 0; i < len(tokens); i += 2 {
		x := DecryptBlock(ks, tokens[i], tokens[i+1])
		if x.Cmp(big.NewInt(codec.BlockSpace)) >= 0 {
			return "", pkc.TokenError(pkc.ErrInput, op, tokens[i+1].String(), i+1, "block decrypts outside the block space")
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

// CheckPublicValue reports whether r = g^a mod p.
func CheckPublicValue(ks *KeySet) bool {
	return new(big.Int).Exp(ks.G, ks.A, ks.P).Cmp(ks.R) == 0
}

// ValidatePublic checks p, g and r of a public key.
func ValidatePublic(p, g, r *big.Int) error {
	if !prime.IsPrime(p) {
		return pkc.Wrapf(pkc.ErrInvalidKey, "modulus must be prime")
	}
	if g.Sign() <= 0 || g.Cmp(p) >= 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "base must satisfy 1 <= g < p")
	}
	if r.Sign() < 0 || r.Cmp(p) >= 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "public value must satisfy 0 <= r < p")
	}
	return nil
}
