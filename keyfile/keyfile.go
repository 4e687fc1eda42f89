// Package keyfile reads and writes key documents: JSON files holding the
// key fields of one cryptosystem.
//
// A document carries a checksum computed as HMAC-SHA3-256 keyed by the
// public fields over the private fields. The public fields are not secret,
// so the checksum only detects accidental corruption, NOT tampering.
package keyfile

import (
	"crypto/hmac"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/cryptosystem"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

// Document is the on-disk form of a key set.
type Document struct {
	ID        uuid.UUID   `json:"id"`
	Scheme    pkc.Scheme  `json:"scheme"`
	CreatedAt string      `json:"created_at"`
	MaxValue  string      `json:"max_value,omitempty"`
	Public    []pkc.Field `json:"public"`
	Private   []pkc.Field `json:"private,omitempty"`
	KeyHMAC   string      `json:"key_hmac,omitempty"` // HMAC for integrity verification
}

// Export captures the current keys of c. Private fields are left out unless
// withPrivate is set.
func Export(c pkc.Cryptosystem, withPrivate bool) *Document {
	d := &Document{
		ID:        uuid.New(),
		Scheme:    c.Scheme(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		MaxValue:  c.MaxValue(),
		Public:    c.PublicKeys(),
	}
	if withPrivate {
		if private := c.PrivateKeys(); anySet(private) {
			d.Private = private
		}
	}
	d.KeyHMAC = d.checksum()
	return d
}

func anySet(fields []pkc.Field) bool {
	for _, f := range fields {
		if f.Value != "" {
			return true
		}
	}
	return false
}

// PublicOnly returns a copy of d without private fields.
func (d *Document) PublicOnly() *Document {
	out := *d
	out.Public = append([]pkc.Field(nil), d.Public...)
	out.Private = nil
	out.KeyHMAC = out.checksum()
	return &out
}

// HasPrivate reports whether d carries private fields.
func (d *Document) HasPrivate() bool { return len(d.Private) > 0 }

func canonical(fields []pkc.Field) []byte {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%s=%s\n", f.Name, f.Value)
	}
	return []byte(b.String())
}

func (d *Document) checksum() string {
	key := utils.HashWithDomain("classic-pkc-go/keyfile/"+string(d.Scheme), canonical(d.Public))
	h := hmac.New(sha3.New256, key)
	h.Write(canonical(d.Private))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Marshal renders d as indented JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Parse decodes and checks a document. A document without a checksum is
// accepted; one with a wrong checksum is not.
func Parse(data []byte) (*Document, error) {
	const op = "keyfile.Parse"
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, pkc.NewError(pkc.ErrKeyParse, op, err.Error())
	}
	scheme, err := pkc.ParseScheme(string(d.Scheme))
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrUnsupportedScheme)
	}
	d.Scheme = scheme
	if len(d.Public) == 0 {
		return nil, pkc.NewError(pkc.ErrKeyParse, op, "document has no public fields")
	}
	if d.KeyHMAC != "" {
		want, err := base64.StdEncoding.DecodeString(d.KeyHMAC)
		if err != nil {
			return nil, pkc.NewError(pkc.ErrKeyParse, op, "checksum is not base64")
		}
		got, _ := base64.StdEncoding.DecodeString(d.checksum())
		if !utils.ConstantTimeEqual(want, got) {
			return nil, pkc.NewError(pkc.ErrInvalidKey, op, "checksum mismatch")
		}
	}
	return &d, nil
}

func checkNames(op, group string, got, want []pkc.Field) error {
	g, w := pkc.FieldNames(got), pkc.FieldNames(want)
	if strings.Join(g, ",") != strings.Join(w, ",") {
		return pkc.NewError(pkc.ErrKeyParse, op,
			fmt.Sprintf("%s fields %v, want %v", group, g, w))
	}
	return nil
}

// Apply imports the fields of d into c. The document is first imported
// into a scratch cryptosystem, so malformed or inconsistent fields are
// rejected before c is touched. If importing into c still fails, its
// previous public and private fields are restored.
func Apply(d *Document, c pkc.Cryptosystem) error {
	const op = "keyfile.Apply"
	if d.Scheme != c.Scheme() {
		return pkc.NewError(pkc.ErrInvalidKey, op,
			fmt.Sprintf("document is for %s, cryptosystem is %s", d.Scheme, c.Scheme()))
	}
	if err := checkNames(op, "public", d.Public, c.PublicKeys()); err != nil {
		return err
	}
	var private []string
	if d.HasPrivate() {
		if err := checkNames(op, "private", d.Private, c.PrivateKeys()); err != nil {
			return err
		}
		private = pkc.FieldValues(d.Private)
	}
	if _, err := cryptosystem.Import(d.Scheme, pkc.FieldValues(d.Public), private); err != nil {
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}

	prevPublic, prevPrivate := c.PublicKeys(), c.PrivateKeys()
	err := c.SetPublicKeys(pkc.FieldValues(d.Public)...)
	if err == nil && d.HasPrivate() {
		err = c.SetPrivateKeys(private...)
	}
	if err != nil {
		if rerr := restore(c, prevPublic, prevPrivate); rerr != nil {
			return errors.Join(pkc.WithOp(err, op, pkc.ErrInvalidKey), rerr)
		}
		return pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}
	return nil
}

func restore(c pkc.Cryptosystem, public, private []pkc.Field) error {
	if !anySet(public) {
		return nil
	}
	if err := c.SetPublicKeys(pkc.FieldValues(public)...); err != nil {
		return fmt.Errorf("restore public keys: %w", err)
	}
	if anySet(private) {
		if err := c.SetPrivateKeys(pkc.FieldValues(private)...); err != nil {
			return fmt.Errorf("restore private keys: %w", err)
		}
	}
	return nil
}

// Load builds a cryptosystem holding exactly the keys of d. opts are
// applied before the document's own max value. A max value outside the
// scheme's range is ignored; it only bounds later key generation.
func Load(d *Document, opts ...cryptosystem.Option) (pkc.Cryptosystem, error) {
	const op = "keyfile.Load"
	if d.MaxValue != "" {
		v, ok := new(big.Int).SetString(d.MaxValue, 10)
		if !ok {
			return nil, pkc.NewError(pkc.ErrKeyParse, op, "max value is not a decimal integer")
		}
		withMax := append(opts[:len(opts):len(opts)], cryptosystem.WithMaxValue(v))
		if _, err := cryptosystem.Config(d.Scheme, withMax...); err == nil {
			opts = withMax
		}
	}
	var private []string
	if d.HasPrivate() {
		private = pkc.FieldValues(d.Private)
	}
	c, err := cryptosystem.Import(d.Scheme, pkc.FieldValues(d.Public), private, opts...)
	if err != nil {
		return nil, pkc.WithOp(err, op, pkc.ErrInvalidKey)
	}
	if err := checkNames(op, "public", d.Public, c.PublicKeys()); err != nil {
		return nil, err
	}
	if d.HasPrivate() {
		if err := checkNames(op, "private", d.Private, c.PrivateKeys()); err != nil {
			return nil, err
		}
	}
	return c, nil
}
