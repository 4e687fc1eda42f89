package rsa

import (
	"math/big"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/codec"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/logging"
)

// Key field names, in import order.
const (
	FieldP = "p"
	FieldQ = "q"
	FieldD = "d"
	FieldN = "n"
	FieldE = "e"
)

// Cipher holds the current RSA key set and implements pkc.Cryptosystem.
// It is not safe for concurrent use.
type Cipher struct {
	cfg  core.Config
	keys *KeySet
}

var _ pkc.Cryptosystem = (*Cipher)(nil)

// NewCipher returns a Cipher with freshly generated keys.
func NewCipher(cfg core.Config) (*Cipher, error) {
	cfg, err := cfg.WithDefaults(pkc.RSA)
	if err != nil {
		return nil, pkc.WithOp(err, "rsa.NewCipher", pkc.ErrInvalidParams)
	}
	c := &Cipher{cfg: cfg}
	if err := c.GenerateKeys(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromKeySet returns a Cipher holding a copy of ks.
func FromKeySet(cfg core.Config, ks *KeySet) (*Cipher, error) {
	const op = "rsa.FromKeySet"
	cfg, err := cfg.WithDefaults(pkc.RSA)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidParams)
	}
	if ks == nil || ks.N == nil || ks.E == nil {
		return nil, pkc.NewError(pkc.ErrInvalidKey, op, "public key not set")
	}
	if err := ValidatePublic(ks.N, ks.E); err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}
	return &Cipher{cfg: cfg, keys: ks.Clone()}, nil
}

// Import returns a Cipher holding only the given key fields, in the order
// reported by PublicKeys and PrivateKeys. private may be empty.
func Import(cfg core.Config, public, private []string) (*Cipher, error) {
	cfg, err := cfg.WithDefaults(pkc.RSA)
	if err != nil {
		return nil, pkc.WithOp(err, "rsa.Import", pkc.ErrInvalidParams)
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

func (c *Cipher) Scheme() pkc.Scheme { return pkc.RSA }

// KeySet returns a copy of the current key set.
func (c *Cipher) KeySet() *KeySet { return c.keys.Clone() }

func (c *Cipher) GenerateKeys() error {
	ks, err := GenerateKeySet(c.cfg.Rand, c.cfg.Params)
	if err != nil {
		c.cfg.Logger.Warn("key generation failed", "scheme", pkc.RSA, "error", err)
		return err
	}
	c.keys = ks
	c.cfg.Logger.Debug("generated keys", "scheme", pkc.RSA,
		"n", ks.N, "e", ks.E,
		logging.Redacted(FieldP), logging.Redacted(FieldQ), logging.Redacted(FieldD))
	return nil
}

func (c *Cipher) Encrypt(message string) (string, error) {
	return Encrypt(c.keys, message)
}

func (c *Cipher) Decrypt(cipherText string) (string, error) {
	return Decrypt(c.keys, cipherText)
}

// SetPrivateKeys imports p, q and d. The totient and modulus are recomputed
// from p and q.
func (c *Cipher) SetPrivateKeys(values ...string) error {
	const op = "rsa.SetPrivateKeys"
	if len(values) != 3 {
		return pkc.NewError(pkc.ErrKeyParse, op, "want p, q, d")
	}
	p, err := codec.ParseDecimal(FieldP, values[0])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	q, err := codec.ParseDecimal(FieldQ, values[1])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	d, err := codec.ParseDecimal(FieldD, values[2])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	if err := ValidatePrivate(p, q, d); err != nil {
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}

	next := c.keys.Clone()
	next.P, next.Q, next.D = p, q, d
	next.N = new(big.Int).Mul(p, q)
	next.M = Totient(p, q)
	c.keys = next
	c.cfg.Logger.Debug("imported private key", "scheme", pkc.RSA, "n", next.N,
		logging.Redacted(FieldP), logging.Redacted(FieldQ), logging.Redacted(FieldD))
	return nil
}

// SetPublicKeys imports n and e.
func (c *Cipher) SetPublicKeys(values ...string) error {
	const op = "rsa.SetPublicKeys"
	if len(values) != 2 {
		return pkc.NewError(pkc.ErrKeyParse, op, "want n, e")
	}
	n, err := codec.ParseDecimal(FieldN, values[0])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	e, err := codec.ParseDecimal(FieldE, values[1])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	if err := ValidatePublic(n, e); err != nil {
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}

	next := c.keys.Clone()
	next.N, next.E = n, e
	c.keys = next
	c.cfg.Logger.Debug("imported public key", "scheme", pkc.RSA, "n", n, "e", e)
	return nil
}

func (c *Cipher) PrivateKeys() []pkc.Field {
	return []pkc.Field{
		{Name: FieldP, Value: c.P()},
		{Name: FieldQ, Value: c.Q()},
		{Name: FieldD, Value: c.D()},
	}
}

func (c *Cipher) PublicKeys() []pkc.Field {
	return []pkc.Field{
		{Name: FieldN, Value: c.N()},
		{Name: FieldE, Value: c.E()},
	}
}

func (c *Cipher) MaxValue() string { return c.cfg.Params.MaxValue.String() }

func (c *Cipher) SetMaxValue(value string) error {
	params, err := core.ParseMaxValue(c.cfg.Params, value)
	if err != nil {
		return pkc.WithOp(err, "rsa.SetMaxValue", pkc.ErrInvalidParams)
	}
	c.cfg.Params = params
	return nil
}

// Getters render key components in decimal, or "" when unset.

func (c *Cipher) P() string { return codec.FormatInt(c.keys.P) }
func (c *Cipher) Q() string { return codec.FormatInt(c.keys.Q) }
func (c *Cipher) N() string { return codec.FormatInt(c.keys.N) }
func (c *Cipher) E() string { return codec.FormatInt(c.keys.E) }
func (c *Cipher) D() string { return codec.FormatInt(c.keys.D) }
