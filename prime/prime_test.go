package prime

import (
	"errors"
	"math/big"
	"testing"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/utils"
	"github.com/stretchr/testify/require"
)

func TestGetSmallRanges(t *testing.T) {
	tests := []struct {
		low, high int64
		want      []int64
	}{
		{13, 13, []int64{13}},
		{2, 2, []int64{2}},
		{0, 3, []int64{2, 3}},
		{1297, 1310, []int64{1297, 1301, 1303, 1307}},
		{14, 20, []int64{17, 19}},
	}
	for _, tt := range tests {
		allowed := make(map[int64]bool)
		for _, w := range tt.want {
			allowed[w] = true
		}
		for i := 0; i < 50; i++ {
			p, err := Get(utils.RandReader, big.NewInt(tt.low), big.NewInt(tt.high))
			require.NoError(t, err)
			require.True(t, allowed[p.Int64()], "Get(%d, %d) = %s", tt.low, tt.high, p)
		}
	}
}

func TestGetEmptyRanges(t *testing.T) {
	ranges := [][2]int64{{4, 4}, {1, 1}, {24, 28}, {0, 1}, {10, 5}}
	for _, rg := range ranges {
		_, err := Get(utils.RandReader, big.NewInt(rg[0]), big.NewInt(rg[1]))
		require.Error(t, err, "range %v", rg)
		require.True(t, errors.Is(err, pkc.ErrKeyGeneration), "range %v: %v", rg, err)
		require.True(t, errors.Is(err, pkc.ErrPrimeRangeExhausted), "range %v: %v", rg, err)
	}
}

func TestGetWideRange(t *testing.T) {
	low := big.NewInt(2)
	high := new(big.Int).Lsh(big.NewInt(1), 64)
	for i := 0; i < 20; i++ {
		p, err := Get(utils.RandReader, low, high)
		require.NoError(t, err)
		require.True(t, IsPrime(p))
		require.True(t, p.Cmp(low) >= 0 && p.Cmp(high) <= 0)
	}
}

func TestGetIsDeterministicWithSeed(t *testing.T) {
	low, high := big.NewInt(2), big.NewInt(1_000_000)
	a, err := Get(utils.NewSeededReader([]byte("prime")), low, high)
	require.NoError(t, err)
	b, err := Get(utils.NewSeededReader([]byte("prime")), low, high)
	require.NoError(t, err)
	require.Equal(t, 0, a.Cmp(b))
}

func TestGetNilBound(t *testing.T) {
	_, err := Get(nil, nil, big.NewInt(10))
	require.ErrorIs(t, err, pkc.ErrInvalidParams)
}

func TestIsPrime(t *testing.T) {
	for _, n := range []int64{2, 3, 5, 61, 53, 2357, 7919} {
		require.True(t, IsPrime(big.NewInt(n)), "%d", n)
	}
	for _, n := range []int64{-7, 0, 1, 4, 1296, 3233, 7917} {
		require.False(t, IsPrime(big.NewInt(n)), "%d", n)
	}
	require.False(t, IsPrime(nil))
}
