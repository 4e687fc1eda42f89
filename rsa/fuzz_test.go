package rsa

import (
	"testing"
)

// FuzzDecrypt tests decryption with random cipher text
func FuzzDecrypt(f *testing.F) {
	f.Add("2790")
	f.Add("12,ab")
	f.Add("")
	f.Add("99999999999999999999, 1")

	ks := textbook()
	f.Fuzz(func(t *testing.T, s string) {
		// Should not panic, may return error
		_, _ = Decrypt(ks, s)
	})
}

// FuzzRoundTrip checks that every encryptable message decrypts
func FuzzRoundTrip(f *testing.F) {
	f.Add("HELLO")
	f.Add("a b c")
	f.Add("")

	ks := textbook()
	f.Fuzz(func(t *testing.T, msg string) {
		ct, err := Encrypt(ks, msg)
		if err != nil {
			return
		}
		if _, err := Decrypt(ks, ct); err != nil {
			t.Fatalf("Decrypt(Encrypt(%q)): %v", msg, err)
		}
	})
}
