package codec

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

// Prepare sanitizes a message for encryption. A message with no encodable
// characters is rejected.
func Prepare(message string) (string, error) {
	const op = "codec.Prepare"
	if err := utils.CheckLength(len(message), utils.MaxMessageLength); err != nil {
		return "", pkc.NewError(pkc.ErrInput, op, err.Error())
	}
	text := Sanitize(message)
	if text == "" {
		return "", pkc.NewError(pkc.ErrInput, op, "message has no alphanumeric characters")
	}
	return text, nil
}

// Tokenize splits cipher text into non-negative integers. Commas and
// whitespace separate tokens; any other character that is not a letter or
// digit is dropped. A token containing a letter is rejected with its
// position.
func Tokenize(cipherText string) ([]*big.Int, error) {
	const op = "codec.Tokenize"

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || unicode.IsSpace(r):
			return ' '
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		default:
			return -1
		}
	}, cipherText)

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil, pkc.NewError(pkc.ErrFormat, op, "empty cipher text")
	}
	if err := utils.CheckLength(len(fields), utils.MaxTokenCount); err != nil {
		return nil, pkc.NewError(pkc.ErrInput, op, err.Error())
	}

	out := make([]*big.Int, len(fields))
	for i, f := range fields {
		if !isDigits(f) {
			return nil, pkc.TokenError(pkc.ErrInput, op, f, i, "not a non-negative decimal integer")
		}
		v, _ := new(big.Int).SetString(f, 10)
		out[i] = v
	}
	return out, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// ParseDecimal parses a non-negative decimal key component. name labels
// the error.
func ParseDecimal(name, value string) (*big.Int, error) {
	s := strings.TrimSpace(value)
	if !isDigits(s) {
		return nil, pkc.NewError(pkc.ErrKeyParse, "codec.ParseDecimal",
			fmt.Sprintf("%s: %q is not a non-negative decimal integer", name, value))
	}
	v, _ := new(big.Int).SetString(s, 10)
	return v, nil
}

// ParseList parses a comma or whitespace separated list of decimals.
func ParseList(name, value string) ([]*big.Int, error) {
	fields := strings.Fields(strings.ReplaceAll(value, ",", " "))
	if len(fields) == 0 {
		return nil, pkc.NewError(pkc.ErrKeyParse, "codec.ParseList", name+": empty list")
	}
	out := make([]*big.Int, len(fields))
	for i, f := range fields {
		v, err := ParseDecimal(fmt.Sprintf("%s[%d]", name, i), f)
		if err != nil {
			return nil, pkc.WithOp(err, "codec.ParseList", pkc.ErrKeyParse)
		}
		out[i] = v
	}
	return out, nil
}

// FormatList renders values as "a, b, c".
func FormatList(values []*big.Int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// FormatInt renders v in decimal, or "" when v is nil.
func FormatInt(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
