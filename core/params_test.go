package core

import (
	"errors"
	"math/big"
	"testing"

	pkc "github.com/BackendStack21/classic-pkc-go"
)

func TestGetParams(t *testing.T) {
	for _, scheme := range pkc.Schemes() {
		params, err := GetParams(scheme)
		if err != nil {
			t.Fatalf("GetParams(%s) failed: %v", scheme, err)
		}
		if params.Scheme != scheme {
			t.Errorf("Expected %s, got %s", scheme, params.Scheme)
		}
		if params.MaxValue.Cmp(big.NewInt(DefaultMaxValue)) != 0 {
			t.Errorf("Expected default max value, got %s", params.MaxValue)
		}
	}

	knapsack, _ := GetParams(pkc.Knapsack)
	if knapsack.WeightCount != DefaultWeightCount {
		t.Errorf("Expected weight count %d, got %d", DefaultWeightCount, knapsack.WeightCount)
	}

	// Test invalid
	_, err := GetParams("INVALID")
	if !errors.Is(err, pkc.ErrUnsupportedScheme) {
		t.Errorf("GetParams(INVALID) should fail with ErrUnsupportedScheme, got %v", err)
	}
}

func TestValidateParams(t *testing.T) {
	for _, scheme := range pkc.Schemes() {
		params, _ := GetParams(scheme)
		if err := ValidateParams(params); err != nil {
			t.Errorf("ValidateParams failed for default %s params: %v", scheme, err)
		}
	}

	rsa, _ := GetParams(pkc.RSA)
	invalid := rsa.Clone()
	invalid.MaxValue = big.NewInt(0)
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject max value 0")
	}

	invalid = rsa.Clone()
	invalid.MaxValue = big.NewInt(40)
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject an rsa max value below the minimum")
	}

	elgamal, _ := GetParams(pkc.ElGamal)
	invalid = elgamal.Clone()
	invalid.MaxValue = big.NewInt(1296)
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject an elgamal max value without a prime above 1295")
	}

	knapsack, _ := GetParams(pkc.Knapsack)
	invalid = knapsack.Clone()
	invalid.WeightCount = 0
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject weight count 0")
	}

	invalid = knapsack.Clone()
	invalid.WeightCount = MaxWeightCount + 1
	if err := ValidateParams(invalid); err == nil {
		t.Error("ValidateParams should reject an oversized weight count")
	}

	invalid = knapsack.Clone()
	invalid.MaxValue = big.NewInt(5)
	if err := ValidateParams(invalid); !errors.Is(err, pkc.ErrInvalidParams) {
		t.Errorf("ValidateParams should reject max value below the weight count, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	params, _ := GetParams(pkc.RSA)
	clone := params.Clone()
	clone.MaxValue.SetInt64(99)
	if params.MaxValue.Int64() != DefaultMaxValue {
		t.Error("Clone shares the max value with the original")
	}
}
