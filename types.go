// Package pkc implements three classical public-key cryptosystems (RSA,
// ElGamal and a Merkle-Hellman knapsack) over arbitrary-precision integers.
//
// WARNING: Key sizes are deliberately tiny and the schemes are textbook
// constructions without padding. They exist for teaching. DO NOT use them
// to protect real data.
package pkc

import "strings"

// Scheme identifies one of the supported cryptosystems.
type Scheme string

const (
	// RSA is the Rivest-Shamir-Adleman cryptosystem.
	RSA Scheme = "rsa"
	// ElGamal is the ElGamal cryptosystem over Z_p.
	ElGamal Scheme = "elgamal"
	// Knapsack is the Merkle-Hellman knapsack cryptosystem.
	Knapsack Scheme = "knapsack"
)

// Schemes lists every supported scheme in a stable order.
func Schemes() []Scheme {
	return []Scheme{RSA, ElGamal, Knapsack}
}

// ParseScheme maps a user supplied name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rsa":
		return RSA, nil
	case "elgamal", "el-gamal", "el_gamal":
		return ElGamal, nil
	case "knapsack", "merkle-hellman", "mh":
		return Knapsack, nil
	default:
		return "", Wrapf(ErrUnsupportedScheme, "%q", name)
	}
}

// =============================================================================
// Key Fields
// =============================================================================

// Field is a named key component rendered as a decimal string. List valued
// components (knapsack sequences) are rendered as comma separated decimals.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldNames returns the names of the given fields in order.
func FieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// FieldValues returns the values of the given fields in order.
func FieldValues(fields []Field) []string {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	return values
}

// =============================================================================
// Capability Interface
// =============================================================================

// Cryptosystem is the capability surface shared by every scheme. An
// implementation holds mutable key state and is not safe for concurrent use.
type Cryptosystem interface {
	// Scheme reports which cryptosystem this is.
	Scheme() Scheme

	// GenerateKeys replaces the current key set with a freshly generated one.
	// The previous keys are kept when generation fails.
	GenerateKeys() error

	// Encrypt encrypts an alphanumeric message. Characters that are not
	// ASCII letters or digits are stripped first.
	Encrypt(message string) (string, error)

	// Decrypt decrypts cipher text made of non-negative decimal integers
	// separated by commas or whitespace.
	Decrypt(cipherText string) (string, error)

	// SetPrivateKeys imports the private key fields, in the order reported
	// by PrivateKeys.
	SetPrivateKeys(values ...string) error

	// SetPublicKeys imports the public key fields, in the order reported by
	// PublicKeys.
	SetPublicKeys(values ...string) error

	// PrivateKeys exports the private key fields.
	PrivateKeys() []Field

	// PublicKeys exports the public key fields.
	PublicKeys() []Field

	// MaxValue returns the bound on generated key magnitudes.
	MaxValue() string

	// SetMaxValue changes the bound used by the next GenerateKeys call.
	SetMaxValue(value string) error
}
