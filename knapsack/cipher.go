package knapsack

import (
	"math/big"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/codec"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/logging"
)

// Key field names, in import order.
const (
	FieldM = "m"
	FieldA = "a"
	FieldS = "S"
	FieldW = "W"
)

// Cipher holds the current knapsack key set and implements
// pkc.Cryptosystem. It is not safe for concurrent use.
type Cipher struct {
	cfg  core.Config
	keys *KeySet
}

var _ pkc.Cryptosystem = (*Cipher)(nil)

// NewCipher returns a Cipher with freshly generated keys.
func NewCipher(cfg core.Config) (*Cipher, error) {
	cfg, err := cfg.WithDefaults(pkc.Knapsack)
	if err != nil {
		return nil, pkc.WithOp(err, "knapsack.NewCipher", pkc.ErrInvalidParams)
	}
	c := &Cipher{cfg: cfg}
	if err := c.GenerateKeys(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromKeySet returns a Cipher holding a copy of ks.
func FromKeySet(cfg core.Config, ks *KeySet) (*Cipher, error) {
	const op = "knapsack.FromKeySet"
	cfg, err := cfg.WithDefaults(pkc.Knapsack)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidParams)
	}
	if ks == nil || len(ks.W) == 0 {
		return nil, pkc.NewError(pkc.ErrInvalidKey, op, "public key not set")
	}
	if err := ValidatePublic(ks.W); err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}
	if ks.S != nil {
		if ks.M == nil || ks.A == nil {
			return nil, pkc.NewError(pkc.ErrInvalidKey, op, "private key is incomplete")
		}
		if err := ValidatePrivate(ks.M, ks.A, ks.S); err != nil {
			return nil, pkc.WithOp(err, op, pkc.ErrInvalidKey)
		}
	}
	return &Cipher{cfg: cfg, keys: ks.Clone()}, nil
}

// Import returns a Cipher holding only the given key fields, in the order
// reported by PublicKeys and PrivateKeys. private may be empty.
func Import(cfg core.Config, public, private []string) (*Cipher, error) {
	cfg, err := cfg.WithDefaults(pkc.Knapsack)
	if err != nil {
		return nil, pkc.WithOp(err, "knapsack.Import", pkc.ErrInvalidParams)
	}
	c := &Cipher{cfg: cfg, keys: &KeySet{}}
	if err := c.SetPublicKeys(public...); err != nil {
		return nil, err
	}
	if len(private) > 0 {
		if err := c.SetPrivateKeys(private...); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Cipher) Scheme() pkc.Scheme { return pkc.Knapsack }

// KeySet returns a copy of the current key set.
func (c *Cipher) KeySet() *KeySet { return c.keys.Clone() }

func (c *Cipher) GenerateKeys() error {
	ks, err := GenerateKeySet(c.cfg.Rand, c.cfg.Params)
	if err != nil {
		c.cfg.Logger.Warn("key generation failed", "scheme", pkc.Knapsack, "error", err)
		return err
	}
	c.keys = ks
	c.cfg.Logger.Debug("generated keys", "scheme", pkc.Knapsack,
		"weights", len(ks.W), "W", codec.FormatList(ks.W),
		logging.Redacted(FieldS), logging.Redacted(FieldM), logging.Redacted(FieldA))
	return nil
}

func (c *Cipher) Encrypt(message string) (string, error) {
	return Encrypt(c.keys, message)
}

func (c *Cipher) Decrypt(cipherText string) (string, error) {
	return Decrypt(c.keys, cipherText)
}

// SetPrivateKeys imports m, a and S. The inverse of a is recomputed.
func (c *Cipher) SetPrivateKeys(values ...string) error {
	const op = "knapsack.SetPrivateKeys"
	if len(values) != 3 {
		return pkc.NewError(pkc.ErrKeyParse, op, "want m, a, S")
	}
	m, err := codec.ParseDecimal(FieldM, values[0])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	a, err := codec.ParseDecimal(FieldA, values[1])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	s, err := codec.ParseList(FieldS, values[2])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	if err := ValidatePrivate(m, a, s); err != nil {
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}

	next := c.keys.Clone()
	next.M, next.A, next.S = m, a, s
	next.Z = new(big.Int).ModInverse(a, m)
	c.keys = next
	c.cfg.Logger.Debug("imported private key", "scheme", pkc.Knapsack, "weights", len(s),
		logging.Redacted(FieldS), logging.Redacted(FieldM), logging.Redacted(FieldA))
	return nil
}

// SetPublicKeys imports W.
func (c *Cipher) SetPublicKeys(values ...string) error {
	const op = "knapsack.SetPublicKeys"
	if len(values) != 1 {
		return pkc.NewError(pkc.ErrKeyParse, op, "want W")
	}
	w, err := codec.ParseList(FieldW, values[0])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	if err := ValidatePublic(w); err != nil {
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}

	next := c.keys.Clone()
	next.W = w
	c.keys = next
	c.cfg.Logger.Debug("imported public key", "scheme", pkc.Knapsack, "W", codec.FormatList(w))
	return nil
}

func (c *Cipher) PrivateKeys() []pkc.Field {
	return []pkc.Field{
		{Name: FieldM, Value: c.M()},
		{Name: FieldA, Value: c.A()},
		{Name: FieldS, Value: c.S()},
	}
}

func (c *Cipher) PublicKeys() []pkc.Field {
	return []pkc.Field{{Name: FieldW, Value: c.W()}}
}

func (c *Cipher) MaxValue() string { return c.cfg.Params.MaxValue.String() }

func (c *Cipher) SetMaxValue(value string) error {
	params, err := core.ParseMaxValue(c.cfg.Params, value)
	if err != nil {
		return pkc.WithOp(err, "knapsack.SetMaxValue", pkc.ErrInvalidParams)
	}
	c.cfg.Params = params
	return nil
}

// WeightCount returns the number of weights in the current key.
func (c *Cipher) WeightCount() int {
	if c.keys.S != nil {
		return len(c.keys.S)
	}
	return len(c.keys.W)
}

// SetWeightCount changes the number of weights used by the next
// GenerateKeys call.
func (c *Cipher) SetWeightCount(n int) error {
	params := c.cfg.Params.Clone()
	params.WeightCount = n
	if err := core.ValidateParams(params); err != nil {
		return pkc.WithOp(err, "knapsack.SetWeightCount", pkc.ErrInvalidParams)
	}
	c.cfg.Params = params
	return nil
}

func (c *Cipher) M() string { return codec.FormatInt(c.keys.M) }
func (c *Cipher) A() string { return codec.FormatInt(c.keys.A) }

// S returns the private sequence as "s0, s1, ...".
func (c *Cipher) S() string { return codec.FormatList(c.keys.S) }

// W returns the public weights as "w0, w1, ...".
func (c *Cipher) W() string { return codec.FormatList(c.keys.W) }
