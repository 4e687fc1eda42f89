// Package knapsack implements the Merkle-Hellman knapsack cryptosystem on
// single characters.
//
// A character's code is split into len(W) bits, most significant first,
// and encrypted as the sum of the public weights W[i] whose bit is set. The
// private superincreasing sequence S, modulus m and multiplier a turn the
// sum back into bits with a greedy pass.
package knapsack

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
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// KeySet is a knapsack key. Public-only key sets hold just W.
// A KeySet is never modified after construction.
type KeySet struct {
	S []*big.Int // Private superincreasing sequence
	W []*big.Int // Public weights S[i]*A mod M
	M *big.Int   // Modulus, greater than sum(S)
	A *big.Int   // Multiplier coprime to M
	Z *big.Int   // A^-1 mod M
}

// Clone returns a deep copy of ks.
func (ks *KeySet) Clone() *KeySet {
	if ks == nil {
		return nil
	}
	return &KeySet{
		S: cloneInts(ks.S), W: cloneInts(ks.W),
		M: cloneInt(ks.M), A: cloneInt(ks.A), Z: cloneInt(ks.Z),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func cloneInts(vs []*big.Int) []*big.Int {
	if vs == nil {
		return nil
	}
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = cloneInt(v)
	}
	return out
}

// Sum returns the sum of seq.
func Sum(seq []*big.Int) *big.Int {
	total := new(big.Int)
	for _, v := range seq {
		total.Add(total, v)
	}
	return total
}

// IsSuperincreasing reports whether every term of seq is positive and
// strictly greater than the sum of the terms before it.
func IsSuperincreasing(seq []*big.Int) bool {
	if len(seq) == 0 {
		return false
	}
	total := new(big.Int)
	for _, v := range seq {
		if v.Sign() <= 0 || v.Cmp(total) <= 0 {
			return false
		}
		total.Add(total, v)
	}
	return true
}

// Disguise returns W[i] = S[i]*a mod m.
func Disguise(s []*big.Int, a, m *big.Int) []*big.Int {
	w := make([]*big.Int, len(s))
	for i, v := range s {
		w[i] = new(big.Int).Mul(v, a)
		w[i].Mod(w[i], m)
	}
	return w
}

// GenerateKeySet draws a fresh key of params.WeightCount terms.
//
// Whole candidate keys are drawn until the multiplier is coprime to the
// modulus and, for two or more terms, the public weights are not
// themselves superincreasing.
func GenerateKeySet(r io.Reader, params core.Params) (*KeySet, error) {
	const op = "knapsack.GenerateKeySet"
	if params.Scheme != pkc.Knapsack {
		return nil, pkc.NewError(pkc.ErrInvalidParams, op, "parameters are for "+string(params.Scheme))
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidParams)
	}

	for i := 0; i < core.MaxKeyAttempts; i++ {
		s, err := superincreasing(r, params.MaxValue, params.WeightCount)
		if err != nil {
			return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
		}
		pad, err := utils.RandomRange(r, one, new(big.Int).Lsh(one, uint(params.WeightCount+1)))
		if err != nil {
			return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
		}
		m := Sum(s)
		m.Add(m, pad)

		a, err := prime.Get(r, two, params.MaxValue)
		if err != nil {
			return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
		}
		z := new(big.Int).ModInverse(a, m)
		if z == nil {
			continue
		}
		w := Disguise(s, a, m)
		if len(w) > 1 && IsSuperincreasing(w) {
			continue
		}
		return &KeySet{S: s, W: w, M: m, A: a, Z: z}, nil
	}
	return nil, pkc.NewError(pkc.ErrNoModularInverse, op, "no multiplier coprime to m disguises the sequence")
}

// superincreasing draws count terms. Each increment v is a
// bitLen(max)-bit value accepted only when 1 <= v <= max/count; the
// running total doubles after every term.
func superincreasing(r io.Reader, max *big.Int, count int) ([]*big.Int, error) {
	gap := new(big.Int).Quo(max, big.NewInt(int64(count)))
	bits := max.BitLen()

	s := make([]*big.Int, count)
	total := new(big.Int)
	for i := range s {
		var v *big.Int
		for attempt := 0; ; attempt++ {
			if attempt == core.MaxSampleAttempts {
				return nil, pkc.NewError(pkc.ErrKeyGeneration, "knapsack.superincreasing", "no term within the gap bound")
			}
			c, err := utils.RandomBits(r, bits)
			if err != nil {
				return nil, err
			}
			if c.Sign() > 0 && c.Cmp(gap) <= 0 {
				v = c
				break
			}
		}
		s[i] = new(big.Int).Add(v, total)
		total.Add(total, v).Lsh(total, 1)
	}
	return s, nil
}

func checkLengths(op string, ks *KeySet) error {
	if ks.S != nil && ks.W != nil && len(ks.S) != len(ks.W) {
		return pkc.NewError(pkc.ErrInvalidKey, op, "S and W have different weight counts")
	}
	return nil
}

// Encrypt encrypts message under the public weights of ks.
func Encrypt(ks *KeySet, message string) (string, error) {
	const op = "knapsack.Encrypt"
	if ks == nil || len(ks.W) == 0 {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "public key not set")
	}
	if err := checkLengths(op, ks); err != nil {
		return "", err
	}

	text, err := codec.Prepare(message)
	if err != nil {
		return "", pkc.WithOp(err, op, pkc.ErrInput)
	}

	var b strings.Builder
	for i := 0; i < len(text); i++ {
		bits, err := codec.CharToBits(text[i], len(ks.W))
		if err != nil {
			return "", pkc.TokenError(pkc.ErrInput, op, text[i:i+1], i, "character does not fit the knapsack")
		}
		total := new(big.Int)
		for j, set := range bits {
			if set {
				total.Add(total, ks.W[j])
			}
		}
		b.WriteString(total.String())
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Decrypt decrypts cipher text under the private part of ks. The inverse
// of a is recomputed from a and m. Each character is written on its own
// line.
func Decrypt(ks *KeySet, cipherText string) (string, error) {
	const op = "knapsack.Decrypt"
	if ks == nil || len(ks.S) == 0 || ks.M == nil || ks.A == nil {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "private key not set")
	}
	if err := checkLengths(op, ks); err != nil {
		return "", err
	}
	z := new(big.Int).ModInverse(ks.A, ks.M)
	if z == nil {
		return "", pkc.NewError(pkc.ErrInvalidKey, op, "a is not invertible mod m")
	}

	tokens, err := codec.Tokenize(cipherText)
	if err != nil {
		return "", pkc.WithOp(err, op, pkc.ErrInput)
	}

	var b strings.Builder
	bits := make([]bool, len(ks.S))
	for i, c := range tokens {
		total := new(big.Int).Mul(c, z)
		total.Mod(total, ks.M)
		for j := len(ks.S) - 1; j >= 0; j-- {
			bits[j] = total.Cmp(ks.S[j]) >= 0
			if bits[j] {
				total.Sub(total, ks.S[j])
			}
		}
		if total.Sign() != 0 {
			return "", pkc.TokenError(pkc.ErrInput, op, c.String(), i, "not a subset sum of the weights")
		}
		ch, err := codec.BitsToChar(bits)
		if err != nil {
			return "", pkc.TokenError(pkc.ErrInput, op, c.String(), i, "decrypts outside the alphabet")
		}
		b.WriteByte(ch)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ValidatePrivate checks m, a and S of a private key.
func ValidatePrivate(m, a *big.Int, s []*big.Int) error {
	if len(s) > core.MaxWeightCount {
		return pkc.Wrapf(pkc.ErrInvalidKey, "at most %d weights are supported", core.MaxWeightCount)
	}
	if !IsSuperincreasing(s) {
		return pkc.Wrapf(pkc.ErrInvalidKey, "S is not superincreasing")
	}
	if m.Cmp(Sum(s)) <= 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "m must exceed the sum of S")
	}
	if a.Sign() <= 0 || new(big.Int).GCD(nil, nil, a, m).Cmp(one) != 0 {
		return pkc.Wrapf(pkc.ErrInvalidKey, "a must be positive and coprime to m")
	}
	return nil
}

// ValidatePublic checks the public weights.
func ValidatePublic(w []*big.Int) error {
	if len(w) > core.MaxWeightCount {
		return pkc.Wrapf(pkc.ErrInvalidKey, "at most %d weights are supported", core.MaxWeightCount)
	}
	for _, v := range w {
		if v.Sign() <= 0 {
			return pkc.Wrapf(pkc.ErrInvalidKey, "weights must be positive")
		}
	}
	return nil
}
