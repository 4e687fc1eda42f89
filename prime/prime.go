// Package prime draws random primes from bounded ranges.
package prime

import (
	"io"
	"math/big"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

// MillerRabinRounds is the number of Miller-Rabin rounds used by IsPrime.
// ProbablyPrime also runs a Baillie-PSW test, so this is conservative.
const MillerRabinRounds = 20

var (
	two       = big.NewInt(2)
	maxSmallN = big.NewInt(core.MaxPrimeAttempts)
)

// IsPrime reports whether n is prime. The result is exact below 2^64.
func IsPrime(n *big.Int) bool {
	return n != nil && n.ProbablyPrime(MillerRabinRounds)
}

// Get returns a prime in [low, high] drawn with randomness from r.
//
// Ranges holding at most core.MaxPrimeAttempts integers are enumerated and
// one prime is picked uniformly, so an empty range fails immediately. Wider
// ranges are sampled uniformly, at most core.MaxPrimeAttempts times. Failure
// is pkc.ErrPrimeRangeExhausted.
func Get(r io.Reader, low, high *big.Int) (*big.Int, error) {
	const op = "prime.Get"
	if low == nil || high == nil {
		return nil, pkc.NewError(pkc.ErrInvalidParams, op, "nil bound")
	}

	lo := new(big.Int).Set(low)
	if lo.Cmp(two) < 0 {
		lo.Set(two)
	}
	if high.Cmp(lo) < 0 {
		return nil, pkc.NewError(pkc.ErrPrimeRangeExhausted, op,
			"no prime in ["+low.String()+", "+high.String()+"]")
	}

	width := new(big.Int).Sub(high, lo)
	if width.Cmp(maxSmallN) < 0 {
		return pickSmall(r, op, lo, high)
	}

	for i := 0; i < core.MaxPrimeAttempts; i++ {
		c, err := utils.RandomRange(r, lo, high)
		if err != nil {
			return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
		}
		if IsPrime(c) {
			return c, nil
		}
	}
	return nil, pkc.NewError(pkc.ErrPrimeRangeExhausted, op,
		"no prime found in ["+lo.String()+", "+high.String()+"]")
}

func pickSmall(r io.Reader, op string, lo, high *big.Int) (*big.Int, error) {
	var primes []*big.Int
	for c := new(big.Int).Set(lo); c.Cmp(high) <= 0; c.Add(c, big.NewInt(1)) {
		if IsPrime(c) {
			primes = append(primes, new(big.Int).Set(c))
		}
	}
	if len(primes) == 0 {
		return nil, pkc.NewError(pkc.ErrPrimeRangeExhausted, op,
			"no prime in ["+lo.String()+", "+high.String()+"]")
	}
	if len(primes) == 1 {
		return primes[0], nil
	}
	i, err := utils.RandomInt(r, big.NewInt(int64(len(primes))))
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrKeyGeneration)
	}
	return primes[i.Int64()], nil
}
