package elgamal

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/core"
	"github.com/BackendStack21/classic-pkc-go/prime"
	"github.com/BackendStack21/classic-pkc-go/utils"
	"github.com/stretchr/testify/require"
)

type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) {
	return 0, errors.New("simulated rand failure")
}

// handbook returns the key of Handbook of Applied Cryptography example 8.17.
func handbook() *KeySet {
	return &KeySet{
		P: big.NewInt(2357), G: big.NewInt(2), R: big.NewInt(1185),
		A: big.NewInt(1751), K: big.NewInt(1520),
	}
}

func TestHandbookVector(t *testing.T) {
	ks := handbook()
	require.True(t, CheckPublicValue(ks))

	c1, c2 := EncryptBlock(ks, big.NewInt(2035), ks.K)
	require.Equal(t, int64(1430), c1.Int64())
	require.Equal(t, int64(697), c2.Int64())
	require.Equal(t, int64(2035), DecryptBlock(ks, c1, c2).Int64())
}

func TestDecryptionIsIndependentOfK(t *testing.T) {
	ks := handbook()
	other := ks.Clone()
	other.K = big.NewInt(1521)

	a, err := Encrypt(ks, "HELLO", nil)
	require.NoError(t, err)
	b, err := Encrypt(other, "HELLO", nil)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	pa, err := Decrypt(ks, a)
	require.NoError(t, err)
	pb, err := Decrypt(ks, b)
	require.NoError(t, err)
	require.Equal(t, "HE\nLL\nOX\n", pa)
	require.Equal(t, pa, pb)
}

func TestOutputFormat(t *testing.T) {
	ct, err := Encrypt(handbook(), "1T", nil)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(ct, "\n"), "\n")
	require.Len(t, lines, 1)
	require.Regexp(t, `^\d+, \d+$`, lines[0])
	require.True(t, strings.HasPrefix(ct, "1430, "))
}

func TestRandomKMode(t *testing.T) {
	ks := handbook()
	ks.K = nil

	msg := "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG"
	a, err := Encrypt(ks, msg, utils.RandReader)
	require.NoError(t, err)
	b, err := Encrypt(ks, msg, utils.RandReader)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	pa, err := Decrypt(ks, a)
	require.NoError(t, err)
	pb, err := Decrypt(ks, b)
	require.NoError(t, err)
	require.Equal(t, pa, pb)
	require.Equal(t, "THEQUICKBROWNFOXJUMPSOVERTHELAZYDOGX", strings.ReplaceAll(pa, "\n", ""))

	_, err = Encrypt(ks, msg, errorReader{})
	require.ErrorIs(t, err, pkc.ErrKeyGeneration)
}

func TestGenerateKeySetInvariants(t *testing.T) {
	params, err := core.GetParams(pkc.ElGamal)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		ks, err := GenerateKeySet(utils.RandReader, params)
		require.NoError(t, err)

		require.True(t, prime.IsPrime(ks.P))
		require.True(t, ks.P.Int64() > 1296 && ks.P.Cmp(params.MaxValue) <= 0)
		require.True(t, ks.A.Sign() > 0 && ks.A.Cmp(params.MaxValue) < 0)
		require.True(t, ks.G.Sign() > 0 && ks.G.Cmp(ks.P) < 0)
		require.True(t, ks.K.Sign() > 0 && ks.K.Cmp(ks.P) < 0)
		require.True(t, CheckPublicValue(ks))

		ct, err := Encrypt(ks, "ROUND TRIP 123", nil)
		require.NoError(t, err)
		pt, err := Decrypt(ks, ct)
		require.NoError(t, err)
		require.Equal(t, "ROUNDTRIP123", strings.ReplaceAll(pt, "\n", ""))
	}
}

func TestGenerateKeySetSmallestMaxValue(t *testing.T) {
	params, _ := core.GetParams(pkc.ElGamal)
	params.MaxValue = new(big.Int).Set(core.MinElGamalMaxValue)

	ks, err := GenerateKeySet(utils.RandReader, params)
	require.NoError(t, err)
	require.Equal(t, int64(1297), ks.P.Int64())
}

func TestGenerateKeySetRejectsBadParams(t *testing.T) {
	params, _ := core.GetParams(pkc.RSA)
	_, err := GenerateKeySet(utils.RandReader, params)
	require.ErrorIs(t, err, pkc.ErrInvalidParams)

	params, _ = core.GetParams(pkc.ElGamal)
	params.MaxValue = big.NewInt(1296)
	_, err = GenerateKeySet(utils.RandReader, params)
	require.ErrorIs(t, err, pkc.ErrInvalidParams)
}

func TestMalformedCipherText(t *testing.T) {
	ks := handbook()

	_, err := Decrypt(ks, "1,2,3")
	require.ErrorIs(t, err, pkc.ErrFormat)

	_, err = Decrypt(ks, "1430, x697")
	require.ErrorIs(t, err, pkc.ErrInput)
	var perr *pkc.Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "elgamal.Decrypt", perr.Op)
	require.Equal(t, 1, perr.Pos)

	_, err = Decrypt(ks, "")
	require.ErrorIs(t, err, pkc.ErrFormat)

	// (1430, 697) decrypts to 2035, outside the block space.
	_, err = Decrypt(ks, "1430, 697")
	require.ErrorIs(t, err, pkc.ErrInput)

	_, err = Encrypt(ks, "---", nil)
	require.ErrorIs(t, err, pkc.ErrInput)
}

func TestMissingOrBadKeys(t *testing.T) {
	_, err := Encrypt(&KeySet{}, "AB", nil)
	require.ErrorIs(t, err, pkc.ErrInvalidKey)

	_, err = Decrypt(&KeySet{P: big.NewInt(2357)}, "1, 2")
	require.ErrorIs(t, err, pkc.ErrInvalidKey)

	small := &KeySet{P: big.NewInt(1291), G: big.NewInt(2), R: big.NewInt(4), K: big.NewInt(3)}
	_, err = Encrypt(small, "AB", nil)
	require.ErrorIs(t, err, pkc.ErrInvalidKey)

	badK := handbook()
	badK.K = big.NewInt(2357)
	_, err = Encrypt(badK, "AB", nil)
	require.ErrorIs(t, err, pkc.ErrInvalidKey)
}
