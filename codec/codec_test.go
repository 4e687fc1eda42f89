package codec

import (
	"errors"
	"math/big"
	"testing"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/stretchr/testify/require"
)

func TestCodeAndSymbol(t *testing.T) {
	for i := 0; i < Radix; i++ {
		sym, ok := Symbol(i)
		require.True(t, ok)
		code, ok := Code(sym)
		require.True(t, ok)
		require.Equal(t, i, code)
	}

	code, ok := Code('t')
	require.True(t, ok)
	require.Equal(t, 29, code)

	_, ok = Code('!')
	require.False(t, ok)
	_, ok = Symbol(Radix)
	require.False(t, ok)
	_, ok = Symbol(-1)
	require.False(t, ok)
}

func TestAlphabetConstants(t *testing.T) {
	require.Len(t, Alphabet, Radix)
	require.Equal(t, int64(1296), big.NewInt(BlockSpace).Int64())
	require.Equal(t, int64(BlockSpace+1), big.NewInt(BlockSpace+1).Int64())
}

func TestCharsToNumber(t *testing.T) {
	n, err := CharsToNumber('1', 'T')
	require.NoError(t, err)
	require.Equal(t, 65, n)

	n, err = CharsToNumber('z', 'z')
	require.NoError(t, err)
	require.Equal(t, BlockSpace-1, n)

	_, err = CharsToNumber('1', '#')
	require.ErrorIs(t, err, pkc.ErrInput)
	var perr *pkc.Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "#", perr.Token)
	require.Equal(t, 1, perr.Pos)
}

func TestNumberToChars(t *testing.T) {
	for n := 0; n < BlockSpace; n++ {
		s, err := NumberToChars(n)
		require.NoError(t, err)
		back, err := CharsToNumber(s[0], s[1])
		require.NoError(t, err)
		require.Equal(t, n, back)
	}

	_, err := NumberToChars(BlockSpace)
	require.ErrorIs(t, err, pkc.ErrInput)
	_, err = NumberToChars(-1)
	require.ErrorIs(t, err, pkc.ErrInput)
}

func TestCharToBits(t *testing.T) {
	bits, err := CharToBits('A', 6)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false, true, false, true, false}, bits)

	c, err := BitsToChar(bits)
	require.NoError(t, err)
	require.Equal(t, byte('A'), c)

	for i := 0; i < Radix; i++ {
		bits, err := CharToBits(Alphabet[i], 6)
		require.NoError(t, err)
		c, err := BitsToChar(bits)
		require.NoError(t, err)
		require.Equal(t, Alphabet[i], c)
	}
}

func TestCharToBitsNarrowWidth(t *testing.T) {
	_, err := CharToBits('V', 5)
	require.NoError(t, err)

	for _, c := range []byte("WXYZ") {
		_, err := CharToBits(c, 5)
		require.ErrorIs(t, err, pkc.ErrInput, "%c", c)
	}

	_, err = CharToBits('A', 0)
	require.ErrorIs(t, err, pkc.ErrInput)
}

func TestBitsToCharOutOfAlphabet(t *testing.T) {
	// 100100 = 36
	_, err := BitsToChar([]bool{true, false, false, true, false, false})
	require.ErrorIs(t, err, pkc.ErrInput)

	wide := make([]bool, 64)
	wide[0] = true
	_, err = BitsToChar(wide)
	require.ErrorIs(t, err, pkc.ErrInput)
}

func TestSanitizeAndPairs(t *testing.T) {
	require.Equal(t, "HELLOWORLD1", Sanitize("Hello, world! 1"))
	require.Equal(t, "", Sanitize("éè !?"))
	require.Equal(t, "ABCX", PadEven("ABC"))
	require.Equal(t, "AB", PadEven("AB"))
	require.Equal(t, []string{"AB", "CX"}, Pairs("ABCX"))
	require.Empty(t, Pairs(""))
}

func TestPrepare(t *testing.T) {
	text, err := Prepare("hi there")
	require.NoError(t, err)
	require.Equal(t, "HITHERE", text)

	_, err = Prepare("  ...  ")
	require.ErrorIs(t, err, pkc.ErrInput)
}

func TestTokenize(t *testing.T) {
	got, err := Tokenize(" 12, 7\n99 \t0 ")
	require.NoError(t, err)
	require.Equal(t, "12, 7, 99, 0", FormatList(got))

	got, err = Tokenize("1430, 697;\n")
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = Tokenize("12,ab")
	require.ErrorIs(t, err, pkc.ErrInput)
	var perr *pkc.Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "ab", perr.Token)
	require.Equal(t, 1, perr.Pos)

	_, err = Tokenize("   ")
	require.ErrorIs(t, err, pkc.ErrFormat)
	_, err = Tokenize(",,")
	require.ErrorIs(t, err, pkc.ErrFormat)
}

func TestParseDecimalAndList(t *testing.T) {
	v, err := ParseDecimal("n", " 3233 ")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(3233), v)

	for _, bad := range []string{"", "-5", "12a", "1.5"} {
		_, err := ParseDecimal("n", bad)
		require.ErrorIs(t, err, pkc.ErrKeyParse, "%q", bad)
	}

	list, err := ParseList("S", "2, 3,7 14")
	require.NoError(t, err)
	require.Equal(t, "2, 3, 7, 14", FormatList(list))

	_, err = ParseList("S", " , ")
	require.ErrorIs(t, err, pkc.ErrKeyParse)
	_, err = ParseList("S", "2, x")
	require.ErrorIs(t, err, pkc.ErrKeyParse)

	require.Equal(t, "", FormatInt(nil))
	require.Equal(t, "17", FormatInt(big.NewInt(17)))
}
