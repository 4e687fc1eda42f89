// Package logging provides a minimal logging facade for the cryptosystems.
//
// Logger wraps the subset of log/slog used by this module. Ciphers log key
// generation and key imports at debug level; they never log secret key
// material, only a redaction placeholder in its place:
//
//	logger := logging.New(slog.New(slog.NewTextHandler(os.Stderr, nil)))
//	logger.Debug("generated keys", "scheme", "rsa", logging.Redacted("d"))
//	// Logs: ... scheme=rsa d=[redacted]
//
// Passing nil to New binds to slog.Default(). Nop discards everything and is
// the default for ciphers built without a logger.
package logging
