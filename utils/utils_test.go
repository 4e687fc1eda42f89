package utils

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"testing"
)

type errorReader struct{}

func (e *errorReader) Read(p []byte) (int, error) {
	return 0, errors.New("simulated rand failure")
}

// constReader always yields the same byte.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

func TestRandomInt(t *testing.T) {
	if _, err := RandomInt(nil, big.NewInt(0)); !errors.Is(err, ErrNonPositiveBound) {
		t.Errorf("RandomInt(0) error = %v, want ErrNonPositiveBound", err)
	}

	val, err := RandomInt(nil, big.NewInt(1))
	if err != nil {
		t.Fatalf("RandomInt(1) failed: %v", err)
	}
	if val.Sign() != 0 {
		t.Errorf("RandomInt(1) should return 0, got %s", val)
	}

	max := big.NewInt(100)
	for i := 0; i < 1000; i++ {
		val, err := RandomInt(RandReader, max)
		if err != nil {
			t.Fatalf("RandomInt failed: %v", err)
		}
		if val.Sign() < 0 || val.Cmp(max) >= 0 {
			t.Errorf("RandomInt returned value out of range: %s", val)
		}
	}
}

func TestRandomInt_Exhausted(t *testing.T) {
	// All-ones draws for max=100 are always 127, which is rejected.
	_, err := RandomInt(constReader(0xFF), big.NewInt(100))
	if !errors.Is(err, ErrSamplingExhausted) {
		t.Errorf("expected ErrSamplingExhausted, got %v", err)
	}
}

func TestRandomInt_ReaderError(t *testing.T) {
	if _, err := RandomInt(&errorReader{}, big.NewInt(1000)); err == nil {
		t.Error("expected error from rand failure")
	}
}

func TestRandomBits(t *testing.T) {
	v, err := RandomBits(constReader(0xFF), 10)
	if err != nil {
		t.Fatal(err)
	}
	if v.Cmp(big.NewInt(1023)) != 0 {
		t.Errorf("RandomBits(10) of all ones = %s, want 1023", v)
	}

	v, err = RandomBits(nil, 0)
	if err != nil || v.Sign() != 0 {
		t.Errorf("RandomBits(0) = %v, %v; want 0, nil", v, err)
	}
}

func TestRandomRange(t *testing.T) {
	low, high := big.NewInt(1297), big.NewInt(1300)
	seen := make(map[int64]bool)
	for i := 0; i < 400; i++ {
		v, err := RandomRange(RandReader, low, high)
		if err != nil {
			t.Fatal(err)
		}
		if v.Cmp(low) < 0 || v.Cmp(high) > 0 {
			t.Fatalf("RandomRange returned %s outside [%s, %s]", v, low, high)
		}
		seen[v.Int64()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected both ends to be reachable, saw %v", seen)
	}

	v, err := RandomRange(nil, big.NewInt(7), big.NewInt(7))
	if err != nil || v.Int64() != 7 {
		t.Errorf("RandomRange(7, 7) = %v, %v; want 7, nil", v, err)
	}

	if _, err := RandomRange(nil, big.NewInt(5), big.NewInt(4)); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}
}

func TestRandomBytes(t *testing.T) {
	b, err := RandomBytes(nil, 32)
	if err != nil {
		t.Fatalf("RandomBytes failed: %v", err)
	}
	if len(b) != 32 {
		t.Errorf("Expected 32 bytes, got %d", len(b))
	}

	b2, _ := RandomBytes(nil, 32)
	if bytes.Equal(b, b2) {
		t.Error("RandomBytes returned duplicate values")
	}

	old := RandReader
	RandReader = &errorReader{}
	defer func() { RandReader = old }()
	if _, err := RandomBytes(nil, 32); err == nil {
		t.Error("expected error from rand failure")
	}
}

func TestValidateSeedEntropy(t *testing.T) {
	if err := ValidateSeedEntropy(make([]byte, 8)); err == nil {
		t.Error("ValidateSeedEntropy should reject short seeds")
	}
	if err := ValidateSeedEntropy(make([]byte, 32)); err == nil {
		t.Error("ValidateSeedEntropy should reject all zeros")
	}

	seq := make([]byte, 32)
	for i := range seq {
		seq[i] = byte(i)
	}
	if err := ValidateSeedEntropy(seq); err == nil {
		t.Error("ValidateSeedEntropy should reject sequential bytes")
	}

	good, _ := RandomBytes(nil, 32)
	if err := ValidateSeedEntropy(good); err != nil {
		t.Errorf("ValidateSeedEntropy rejected good seed: %v", err)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte{1, 2, 3}
	if !ConstantTimeEqual(a, []byte{1, 2, 3}) {
		t.Error("ConstantTimeEqual failed for equal slices")
	}
	if ConstantTimeEqual(a, []byte{1, 2, 4}) {
		t.Error("ConstantTimeEqual passed for unequal slices")
	}
	if ConstantTimeEqual(a, a[:2]) {
		t.Error("ConstantTimeEqual passed for different lengths")
	}
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3}
	Zeroize(b)
	for _, v := range b {
		if v != 0 {
			t.Error("Zeroize failed")
		}
	}
}

func TestShake(t *testing.T) {
	data := []byte("test")
	if !bytes.Equal(ExpandWithDomain("domain", data, 32), ExpandWithDomain("domain", data, 32)) {
		t.Error("ExpandWithDomain not deterministic")
	}
	if bytes.Equal(ExpandWithDomain("domain", data, 32), ExpandWithDomain("other", data, 32)) {
		t.Error("ExpandWithDomain should separate domains")
	}
	if got := len(ExpandWithDomain("domain", data, 100)); got != 100 {
		t.Errorf("ExpandWithDomain returned %d bytes, want 100", got)
	}

	dHash := HashWithDomain("domain", data)
	if len(dHash) != 32 {
		t.Errorf("HashWithDomain returned wrong length: %d", len(dHash))
	}
	if bytes.Equal(dHash, HashWithDomain("other", data)) {
		t.Error("HashWithDomain should separate domains")
	}
}

func TestNewSeededReader(t *testing.T) {
	a := make([]byte, 64)
	b := make([]byte, 64)
	if _, err := io.ReadFull(NewSeededReader([]byte("seed")), a); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(NewSeededReader([]byte("seed")), b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("seeded readers with the same seed diverged")
	}

	seed := []byte("seed")
	r := NewSeededReader(seed)
	Zeroize(seed)
	d := make([]byte, 64)
	if _, err := io.ReadFull(r, d); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, d) {
		t.Error("seeded reader depends on the seed slice after construction")
	}

	c := make([]byte, 64)
	_, _ = io.ReadFull(NewSeededReader([]byte("other")), c)
	if bytes.Equal(a, c) {
		t.Error("seeded readers with different seeds matched")
	}

	x, _ := RandomInt(NewSeededReader([]byte{1}), big.NewInt(1_000_000))
	y, _ := RandomInt(NewSeededReader([]byte{1}), big.NewInt(1_000_000))
	if x.Cmp(y) != 0 {
		t.Errorf("RandomInt over seeded readers: %s != %s", x, y)
	}
}
