package elgamal

import (
	"math/big"
	"strings"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/codec"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/logging"
)

// Key field names, in import order.
const (
	FieldA = "a"
	FieldK = "k"
	FieldP = "p"
	FieldG = "g"
	FieldR = "r"
)

// Cipher holds the current ElGamal key set and implements
// pkc.Cryptosystem. It is not safe for concurrent use.
type Cipher struct {
	cfg  core.Config
	keys *KeySet
}

var _ pkc.Cryptosystem = (*Cipher)(nil)

// NewCipher returns a Cipher with freshly generated keys.
func NewCipher(cfg core.Config) (*Cipher, error) {
	cfg, err := cfg.WithDefaults(pkc.ElGamal)
	if err != nil {
		return nil, pkc.WithOp(err, "elgamal.NewCipher", pkc.ErrInvalidParams)
	}
	c := &Cipher{cfg: cfg}
	if err := c.GenerateKeys(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromKeySet returns a Cipher holding a copy of ks.
func FromKeySet(cfg core.Config, ks *KeySet) (*Cipher, error) {
	const op = "elgamal.FromKeySet"
	cfg, err := cfg.WithDefaults(pkc.ElGamal)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidParams)
	}
	if ks == nil || ks.P == nil || ks.G == nil || ks.R == nil {
		return nil, pkc.NewError(pkc.ErrInvalidKey, op, "public key not set")
	}
	if err := ValidatePublic(ks.P, ks.G, ks.R); err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}
	return &Cipher{cfg: cfg, keys: ks.Clone()}, nil
}

// Import returns a Cipher holding only the given key fields, in the order
// reported by PublicKeys and PrivateKeys. private may be empty.
func Import(cfg core.Config, public, private []string) (*Cipher, error) {
	cfg, err := cfg.WithDefaults(pkc.ElGamal)
	if err != nil {
		return nil, pkc.WithOp(err, "elgamal.Import", pkc.ErrInvalidParams)
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

func (c *Cipher) Scheme() pkc.Scheme { return pkc.ElGamal }

// KeySet returns a copy of the current key set.
func (c *Cipher) KeySet() *KeySet { return c.keys.Clone() }

func (c *Cipher) GenerateKeys() error {
	ks, err := GenerateKeySet(c.cfg.Rand, c.cfg.Params)
	if err != nil {
		c.cfg.Logger.Warn("key generation failed", "scheme", pkc.ElGamal, "error", err)
		return err
	}
	c.keys = ks
	c.cfg.Logger.Debug("generated keys", "scheme", pkc.ElGamal,
		"p", ks.P, "g", ks.G, "r", ks.R,
		logging.Redacted(FieldA), logging.Redacted(FieldK))
	return nil
}

// Encrypt checks that the held public value matches the private exponent
// before encrypting, so a half-imported key pair fails loudly.
func (c *Cipher) Encrypt(message string) (string, error) {
	if c.keys.A != nil && !CheckPublicValue(c.keys) {
		return "", pkc.NewError(pkc.ErrInvalidKey, "elgamal.Encrypt", "r does not equal g^a mod p")
	}
	return Encrypt(c.keys, message, c.cfg.Rand)
}

func (c *Cipher) Decrypt(cipherText string) (string, error) {
	return Decrypt(c.keys, cipherText)
}

// SetPrivateKeys imports a and k. An empty k selects a fresh ephemeral
// exponent per block.
func (c *Cipher) SetPrivateKeys(values ...string) error {
	const op = "elgamal.SetPrivateKeys"
	if len(values) != 2 {
		return pkc.NewError(pkc.ErrKeyParse, op, "want a, k")
	}
	a, err := codec.ParseDecimal(FieldA, values[0])
	if err != nil {
		return pkc.WithOp(err, op, pkc.ErrKeyParse)
	}
	if a.Sign() <= 0 {
		return pkc.NewError(pkc.ErrInvalidKey, op, "private exponent must be positive")
	}

	next := c.keys.Clone()
	next.A, next.K = a, nil
	if strings.TrimSpace(values[1]) != "" {
		k, err := codec.ParseDecimal(FieldK, values[1])
		if err != nil {
			return pkc.WithOp(err, op, pkc.ErrKeyParse)
		}
		if k.Sign() <= 0 || (next.P != nil && k.Cmp(next.P) >= 0) {
			return pkc.NewError(pkc.ErrInvalidKey, op, "ephemeral exponent must satisfy 1 <= k < p")
		}
		next.K = k
	}
	c.keys = next
	c.cfg.Logger.Debug("imported private key", "scheme", pkc.ElGamal,
		"random_k", next.K == nil, logging.Redacted(FieldA), logging.Redacted(FieldK))
	return nil
}

// SetPublicKeys imports p, g and r. A held private exponent that does not
// match the new public value is discarded, as is a k that is not below p.
func (c *Cipher) SetPublicKeys(values ...string) error {
	const op = "elgamal.SetPublicKeys"
	if len(values) != 3 {
		return pkc.NewError(pkc.ErrKeyParse, op, "want p, g, r")
	}
	names := []string{FieldP, FieldG, FieldR}
	parsed := make([]*big.Int, 3)
	for i, v := range values {
		n, err := codec.ParseDecimal(names[i], v)
		if err != nil {
			return pkc.WithOp(err, op, pkc.ErrKeyParse)
		}
		parsed[i] = n
	}
	p, g, r := parsed[0], parsed[1], parsed[2]
	if err := ValidatePublic(p, g, r); err != nil {
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}

	next := c.keys.Clone()
	next.P, next.G, next.R = p, g, r
	if next.A != nil && !CheckPublicValue(next) {
		// The held exponent belongs to a different key pair.
		next.A = nil
		c.cfg.Logger.Debug("discarded private exponent of the replaced key", "scheme", pkc.ElGamal)
	}
	if next.K != nil && next.K.Cmp(p) >= 0 {
		next.K = nil
	}
	c.keys = next
	c.cfg.Logger.Debug("imported public key", "scheme", pkc.ElGamal, "p", p, "g", g, "r", r)
	return nil
}

func (c *Cipher) PrivateKeys() []pkc.Field {
	return []pkc.Field{
		{Name: FieldA, Value: c.A()},
		{Name: FieldK, Value: c.K()},
	}
}

func (c *Cipher) PublicKeys() []pkc.Field {
	return []pkc.Field{
		{Name: FieldP, Value: c.P()},
		{Name: FieldG, Value: c.G()},
		{Name: FieldR, Value: c.R()},
	}
}

func (c *Cipher) MaxValue() string { return c.cfg.Params.MaxValue.String() }

func (c *Cipher) SetMaxValue(value string) error {
	params, err := core.ParseMaxValue(c.cfg.Params, value)
	if err != nil {
		return pkc.WithOp(err, "elgamal.SetMaxValue", pkc.ErrInvalidParams)
	}
	c.cfg.Params = params
	return nil
}

func (c *Cipher) A() string { return codec.FormatInt(c.keys.A) }

// K returns "" when a fresh k is drawn per block.
func (c *Cipher) K() string { return codec.FormatInt(c.keys.K) }

func (c *Cipher) P() string { return codec.FormatInt(c.keys.P) }
func (c *Cipher) G() string { return codec.FormatInt(c.keys.G) }
func (c *Cipher) R() string { return codec.FormatInt(c.keys.R) }
