package pkc

// Version of the classic-pkc-go implementation.
const Version = "0.3.0"

// API summary:
//
// Construction:
//   - cryptosystem.New(scheme, opts...) - Build a Cryptosystem with fresh keys
//   - cryptosystem.Synchronized(c) - Serialize access to a Cryptosystem
//
// Per-scheme functions (rsa, elgamal, knapsack):
//   - GenerateKeySet(random, params) - Produce an immutable key set
//   - Encrypt(pub, message) / Decrypt(priv, cipherText) - Text transforms
//   - EncryptBlock / DecryptBlock - Raw integer transforms
//
// Shared building blocks:
//   - prime.Get(random, low, high) - Random prime in a closed range
//   - codec.CharsToNumber / codec.CharToBits - Radix-36 and bit encodings
//   - utils.NewSeededReader(seed) - Reproducible randomness
//   - keyfile.Export / keyfile.Apply - JSON key documents
