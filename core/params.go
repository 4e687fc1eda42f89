// Package core provides parameter sets, retry budgets and validation for
// the classic-pkc cryptosystems.
package core

import (
	"io"
	"math/big"
	"strings"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/logging"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

// Retry budgets. Every search loop in key generation is bounded by one of
// these and fails with pkc.ErrKeyGeneration when it runs out.
const (
	// MaxPrimeAttempts bounds candidate draws in prime.Get. Ranges no wider
	// than this are enumerated instead of sampled.
	MaxPrimeAttempts = 1 << 12

	// MaxKeyAttempts bounds the search for a distinct q, an invertible e and
	// a knapsack multiplier coprime to m.
	MaxKeyAttempts = 256

	// MaxSampleAttempts bounds rejection sampling of superincreasing terms.
	MaxSampleAttempts = 1 << 12
)

const (
	// DefaultMaxValue is the default bound on generated key magnitudes.
	DefaultMaxValue = 10000

	// DefaultWeightCount is the default knapsack length. Six bits cover
	// every code of the radix-36 alphabet.
	DefaultWeightCount = 6

	// MinWeightCount is the smallest usable knapsack length.
	MinWeightCount = 1

	// MaxWeightCount caps the knapsack length.
	MaxWeightCount = 64
)

// Minimum max values per scheme. RSA needs two distinct primes whose product
// exceeds the pair encoding space and ElGamal needs a prime modulus above it.
var (
	MinRSAMaxValue      = big.NewInt(41)
	MinElGamalMaxValue  = big.NewInt(1297)
	MinKnapsackMaxValue = big.NewInt(2)
)

// Params holds the tuning knobs of one scheme.
type Params struct {
	Scheme      pkc.Scheme `json:"scheme"`
	MaxValue    *big.Int   `json:"max_value"`
	WeightCount int        `json:"weight_count,omitempty"` // Knapsack only
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	c := p
	if p.MaxValue != nil {
		c.MaxValue = new(big.Int).Set(p.MaxValue)
	}
	return c
}

// GetParams returns the default parameter set for the given scheme.
func GetParams(scheme pkc.Scheme) (Params, error) {
	switch scheme {
	case pkc.RSA, pkc.ElGamal:
		return Params{Scheme: scheme, MaxValue: big.NewInt(DefaultMaxValue)}, nil
	case pkc.Knapsack:
		return Params{
			Scheme:      scheme,
			MaxValue:    big.NewInt(DefaultMaxValue),
			WeightCount: DefaultWeightCount,
		}, nil
	default:
		return Params{}, pkc.Wrapf(pkc.ErrUnsupportedScheme, "%q", scheme)
	}
}

// ValidateParams checks a parameter set for consistency.
func ValidateParams(params Params) error {
	if params.MaxValue == nil || params.MaxValue.Sign() <= 0 {
		return pkc.Wrapf(pkc.ErrInvalidParams, "max value must be positive")
	}
	switch params.Scheme {
	case pkc.RSA:
		if params.MaxValue.Cmp(MinRSAMaxValue) < 0 {
			return pkc.Wrapf(pkc.ErrInvalidParams, "rsa max value must be at least %s", MinRSAMaxValue)
		}
	case pkc.ElGamal:
		if params.MaxValue.Cmp(MinElGamalMaxValue) < 0 {
			return pkc.Wrapf(pkc.ErrInvalidParams, "elgamal max value must be at least %s", MinElGamalMaxValue)
		}
	case pkc.Knapsack:
		if params.WeightCount < MinWeightCount || params.WeightCount > MaxWeightCount {
			return pkc.Wrapf(pkc.ErrInvalidParams, "weight count must be in [%d, %d]", MinWeightCount, MaxWeightCount)
		}
		if params.MaxValue.Cmp(MinKnapsackMaxValue) < 0 {
			return pkc.Wrapf(pkc.ErrInvalidParams, "knapsack max value must be at least %s", MinKnapsackMaxValue)
		}
		if params.MaxValue.Cmp(big.NewInt(int64(params.WeightCount))) < 0 {
			return pkc.Wrapf(pkc.ErrInvalidParams, "knapsack max value must be at least the weight count")
		}
	default:
		return pkc.Wrapf(pkc.ErrUnsupportedScheme, "%q", params.Scheme)
	}
	return nil
}

// Config is what a Cipher needs besides its keys.
type Config struct {
	Params Params
	Rand   io.Reader
	Logger logging.Logger
}

// WithDefaults fills unset fields: crypto/rand, a no-op logger and the
// default parameters of the config's scheme.
func (c Config) WithDefaults(scheme pkc.Scheme) (Config, error) {
	if c.Params.Scheme == "" {
		c.Params.Scheme = scheme
	}
	if c.Params.Scheme != scheme {
		return c, pkc.Wrapf(pkc.ErrInvalidParams, "config is for %q, not %q", c.Params.Scheme, scheme)
	}
	def, err := GetParams(scheme)
	if err != nil {
		return c, err
	}
	if c.Params.MaxValue == nil {
		c.Params.MaxValue = def.MaxValue
	} else {
		c.Params = c.Params.Clone()
	}
	if c.Params.WeightCount == 0 {
		c.Params.WeightCount = def.WeightCount
	}
	if c.Rand == nil {
		c.Rand = utils.RandReader
	}
	if c.Logger == nil {
		c.Logger = logging.Nop()
	}
	return c, ValidateParams(c.Params)
}

// ParseMaxValue parses a decimal max value and validates it against the
// scheme's minimum.
func ParseMaxValue(params Params, value string) (Params, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return params, pkc.Wrapf(pkc.ErrKeyParse, "max value %q is not a decimal integer", value)
	}
	next := params.Clone()
	next.MaxValue = v
	if err := ValidateParams(next); err != nil {
		return params, err
	}
	return next, nil
}
