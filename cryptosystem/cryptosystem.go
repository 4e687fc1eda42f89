// Package cryptosystem builds a pkc.Cryptosystem for a scheme chosen at run
// time.
package cryptosystem

import (
	"io"
	"math/big"
	"sync"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/elgamal"
	"github.com/BackendStack21/classic-pkc-go/knapsack"
	"github.com/BackendStack21/classic-pkc-go/logging"
	"github.com/BackendStack21/classic-pkc-go/rsa"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

// Option configures New.
type Option func(*options)

type options struct {
	rand        io.Reader
	maxValue    *big.Int
	weightCount int
	logger      logging.Logger
}

// WithRand sets the source of randomness.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// WithSeed makes key generation deterministic for the given seed. The seed
// is copied, so the caller may wipe it once WithSeed returns.
func WithSeed(seed []byte) Option {
	seed = append([]byte(nil), seed...)
	return func(o *options) { o.rand = utils.NewSeededReader(seed) }
}

// WithMaxValue sets the bound on generated key magnitudes.
func WithMaxValue(v *big.Int) Option {
	return func(o *options) { o.maxValue = v }
}

// WithWeightCount sets the knapsack length. Other schemes ignore it.
func WithWeightCount(n int) Option {
	return func(o *options) { o.weightCount = n }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Config resolves opts into a validated core.Config for scheme.
func Config(scheme pkc.Scheme, opts ...Option) (core.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	params, err := core.GetParams(scheme)
	if err != nil {
		return core.Config{}, err
	}
	if o.maxValue != nil {
		params.MaxValue = new(big.Int).Set(o.maxValue)
	}
	if o.weightCount != 0 && scheme == pkc.Knapsack {
		params.WeightCount = o.weightCount
	}
	return core.Config{Params: params, Rand: o.rand, Logger: o.logger}.WithDefaults(scheme)
}

// New returns a cryptosystem of the given scheme with freshly generated
// keys.
func New(scheme pkc.Scheme, opts ...Option) (pkc.Cryptosystem, error) {
	cfg, err := Config(scheme, opts...)
	if err != nil {
		return nil, pkc.WithOp(err, "cryptosystem.New", pkc.ErrInvalidParams)
	}
	var c pkc.Cryptosystem
	switch scheme {
	case pkc.RSA:
		c, err = rsa.NewCipher(cfg)
	case pkc.ElGamal:
		c, err = elgamal.NewCipher(cfg)
	case pkc.Knapsack:
		c, err = knapsack.NewCipher(cfg)
	default:
		err = pkc.Wrapf(pkc.ErrUnsupportedScheme, "%q", scheme)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Import returns a cryptosystem of the given scheme holding only the given
// key field values, without generating keys.
func Import(scheme pkc.Scheme, public, private []string, opts ...Option) (pkc.Cryptosystem, error) {
	cfg, err := Config(scheme, opts...)
	if err != nil {
		return nil, pkc.WithOp(err, "cryptosystem.Import", pkc.ErrInvalidParams)
	}
	var c pkc.Cryptosystem
	switch scheme {
	case pkc.RSA:
		c, err = rsa.Import(cfg, public, private)
	case pkc.ElGamal:
		c, err = elgamal.Import(cfg, public, private)
	case pkc.Knapsack:
		c, err = knapsack.Import(cfg, public, private)
	default:
		err = pkc.Wrapf(pkc.ErrUnsupportedScheme, "%q", scheme)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Synchronized wraps c so that every method holds a mutex.
func Synchronized(c pkc.Cryptosystem) pkc.Cryptosystem {
	if s, ok := c.(*syncCryptosystem); ok {
		return s
	}
	return &syncCryptosystem{c: c}
}

type syncCryptosystem struct {
	mu sync.Mutex
	c  pkc.Cryptosystem
}

func (s *syncCryptosystem) Scheme() pkc.Scheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Scheme()
}

func (s *syncCryptosystem) GenerateKeys() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.GenerateKeys()
}

func (s *syncCryptosystem) Encrypt(message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Encrypt(message)
}

func (s *syncCryptosystem) Decrypt(cipherText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Decrypt(cipherText)
}

func (s *syncCryptosystem) SetPrivateKeys(values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.SetPrivateKeys(values...)
}

func (s *syncCryptosystem) SetPublicKeys(values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.SetPublicKeys(values...)
}

func (s *syncCryptosystem) PrivateKeys() []pkc.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.PrivateKeys()
}

func (s *syncCryptosystem) PublicKeys() []pkc.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.PublicKeys()
}

func (s *syncCryptosystem) MaxValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.MaxValue()
}

func (s *syncCryptosystem) SetMaxValue(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.SetMaxValue(value)
}
