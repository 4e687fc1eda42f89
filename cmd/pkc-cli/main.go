// Command pkc-cli generates keys for the classic cryptosystems and encrypts
// or decrypts messages with them.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/cryptosystem"
	"github.com/BackendStack21/classic-pkc-go/logging"
	"github.com/BackendStack21/classic-pkc-go/utils"
)

const appName = "pkc-cli"

// Flag names. Each one is also readable from the environment as PKC_<NAME>
// and from the config file under the same key.
const (
	flagScheme      = "scheme"
	flagMaxValue    = "max-value"
	flagWeightCount = "weight-count"
	flagSeed        = "seed"
	flagConfig      = "config"
	flagVerbose     = "verbose"
	flagOutput      = "output"
	flagKeys        = "keys"
	flagInput       = "input"
	flagMessage     = "message"
	flagCipherText  = "ciphertext"
)

// maxInputSize bounds messages and cipher text read from files or stdin.
const maxInputSize = 1 << 22

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the registered code of its kind, or 1.
func exitCode(err error) int {
	if kind := pkc.KindOf(err); kind != nil {
		return int(kind.ABCICode())
	}
	return 1
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   appName,
		Short: "Classic public-key cryptosystems (RSA, ElGamal, Merkle-Hellman knapsack)",
		Long: appName + ` works with textbook RSA, ElGamal and Merkle-Hellman knapsack keys.

Keys are tiny and the schemes have no padding. They exist for teaching.
DO NOT use them to protect real data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd.Flags())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	fs := root.PersistentFlags()
	fs.StringP(flagScheme, "s", string(pkc.RSA), "cryptosystem: rsa, elgamal or knapsack")
	fs.String(flagMaxValue, "", "bound on generated key magnitudes (default 10000)")
	fs.Int(flagWeightCount, 0, "knapsack length (default 6)")
	fs.String(flagSeed, "", "hex seed for reproducible key generation")
	fs.String(flagConfig, "", "config file (yaml, json or toml)")
	fs.BoolP(flagVerbose, "v", false, "log debug output to stderr")
	fs.StringP(flagOutput, "o", "", "write output to file instead of stdout")

	root.AddCommand(
		newKeygenCmd(v),
		newEncryptCmd(v),
		newDecryptCmd(v),
		newKeysCmd(v),
		newBenchmarkCmd(v),
		newVersionCmd(),
	)
	return root
}

func initConfig(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix("PKC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := bindFlags(v, fs); err != nil {
		return err
	}
	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return pkc.Wrapf(pkc.ErrInvalidParams, "read config %s: %v", path, err)
		}
	}
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// settings is the resolved configuration shared by the commands.
type settings struct {
	scheme pkc.Scheme
	opts   []cryptosystem.Option
	logger logging.Logger
	output string
}

func loadSettings(v *viper.Viper, errOut io.Writer) (*settings, error) {
	level := slog.LevelWarn
	if v.GetBool(flagVerbose) {
		level = slog.LevelDebug
	}
	logger := logging.NewText(errOut, level)

	scheme, err := pkc.ParseScheme(v.GetString(flagScheme))
	if err != nil {
		return nil, err
	}

	opts := []cryptosystem.Option{cryptosystem.WithLogger(logger)}
	if s := strings.TrimSpace(v.GetString(flagMaxValue)); s != "" {
		mv, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, pkc.Wrapf(pkc.ErrKeyParse, "--%s %q is not a decimal integer", flagMaxValue, s)
		}
		opts = append(opts, cryptosystem.WithMaxValue(mv))
	}
	if n := v.GetInt(flagWeightCount); n != 0 {
		opts = append(opts, cryptosystem.WithWeightCount(n))
	}
	if s := v.GetString(flagSeed); s != "" {
		seed, err := hex.DecodeString(s)
		if err != nil {
			return nil, pkc.Wrapf(pkc.ErrInvalidParams, "--%s must be hex: %v", flagSeed, err)
		}
		if err := utils.ValidateSeedEntropy(seed); err != nil {
			logger.Warn("weak seed", "error", err)
		}
		opts = append(opts, cryptosystem.WithSeed(seed))
		utils.Zeroize(seed)
	}

	return &settings{
		scheme: scheme,
		opts:   opts,
		logger: logger.With("scheme", scheme),
		output: v.GetString(flagOutput),
	}, nil
}

// readInput returns the inline value when set, else the contents of the
// --input file, else stdin.
func readInput(cmd *cobra.Command, v *viper.Viper, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	var r io.Reader = cmd.InOrStdin()
	if path := v.GetString(flagInput); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxInputSize {
		return "", pkc.Wrapf(pkc.ErrInput, "input exceeds %d bytes", maxInputSize)
	}
	return string(data), nil
}

// writeOutput writes data to path with owner-only permissions, or to the
// command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0600)
}
