package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pkc "github.com/BackendStack21/classic-pkc-go"
	"github.com/BackendStack21/classic-pkc-go/cryptosystem"
	"github.com/BackendStack21/classic-pkc-go/keyfile"
)

const benchmarkMessage = "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG 0123456789"

func newKeygenCmd(v *viper.Viper) *cobra.Command {
	var publicOnly bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a key document",
		Example: `  pkc-cli keygen --scheme elgamal --output keys.json
  pkc-cli keygen -s knapsack --weight-count 8 --seed 00112233445566778899aabbccddeeff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			start := time.Now()
			c, err := cryptosystem.New(s.scheme, s.opts...)
			if err != nil {
				return err
			}
			s.logger.Debug("key generation finished", "elapsed", time.Since(start))

			data, err := keyfile.Marshal(keyfile.Export(c, !publicOnly))
			if err != nil {
				return err
			}
			return writeOutput(cmd, s.output, append(data, '\n'))
		},
	}
	cmd.Flags().BoolVar(&publicOnly, "public-only", false, "leave private fields out of the document")
	return cmd
}

// loadKeys reads and opens the key document named by --keys.
func loadKeys(v *viper.Viper, s *settings) (pkc.Cryptosystem, *keyfile.Document, error) {
	path := v.GetString(flagKeys)
	if path == "" {
		return nil, nil, pkc.Wrapf(pkc.ErrInvalidParams, "--%s is required", flagKeys)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := keyfile.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	if doc.Scheme != s.scheme && v.IsSet(flagScheme) {
		s.logger.Warn("key document overrides --scheme", "document", doc.Scheme)
	}
	c, err := keyfile.Load(doc, s.opts...)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("loaded keys", "id", doc.ID, "private", doc.HasPrivate())
	return c, doc, nil
}

func newEncryptCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message with the public key of a key document",
		Example: `  pkc-cli encrypt --keys keys.json --message "Hello World"
  echo "attack at dawn" | pkc-cli encrypt --keys keys.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c, _, err := loadKeys(v, s)
			if err != nil {
				return err
			}
			message, err := readInput(cmd, v, v.GetString(flagMessage))
			if err != nil {
				return err
			}
			ct, err := c.Encrypt(message)
			if err != nil {
				return err
			}
			return writeOutput(cmd, s.output, []byte(ct))
		},
	}
	cmd.Flags().String(flagKeys, "", "key document")
	cmd.Flags().StringP(flagMessage, "m", "", "message to encrypt")
	cmd.Flags().StringP(flagInput, "i", "", "read the message from file")
	return cmd
}

func newDecryptCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt cipher text with the private key of a key document",
		Example: `  pkc-cli decrypt --keys keys.json --ciphertext "2790"
  pkc-cli decrypt --keys keys.json --input ct.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c, doc, err := loadKeys(v, s)
			if err != nil {
				return err
			}
			if !doc.HasPrivate() {
				return pkc.Wrapf(pkc.ErrInvalidKey, "key document has no private fields")
			}
			cipherText, err := readInput(cmd, v, v.GetString(flagCipherText))
			if err != nil {
				return err
			}
			pt, err := c.Decrypt(cipherText)
			if err != nil {
				return err
			}
			return writeOutput(cmd, s.output, []byte(pt))
		},
	}
	cmd.Flags().String(flagKeys, "", "key document")
	cmd.Flags().StringP(flagCipherText, "c", "", "cipher text to decrypt")
	cmd.Flags().StringP(flagInput, "i", "", "read the cipher text from file")
	return cmd
}

func newKeysCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect key documents",
	}
	cmd.AddCommand(newKeysShowCmd(v))
	return cmd
}

func newKeysShowCmd(v *viper.Viper) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the fields of a key document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			_, doc, err := loadKeys(v, s)
			if err != nil {
				return err
			}
			if dump {
				return writeOutput(cmd, s.output, []byte(spew.Sdump(doc)))
			}

			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", doc.ID)
			fmt.Fprintf(w, "Scheme:\t%s\n", doc.Scheme)
			fmt.Fprintf(w, "Created:\t%s\n", doc.CreatedAt)
			fmt.Fprintf(w, "Max value:\t%s\n", doc.MaxValue)
			fmt.Fprintln(w, "Public:")
			for _, f := range doc.Public {
				fmt.Fprintf(w, "  %s\t%s\n", f.Name, f.Value)
			}
			if doc.HasPrivate() {
				fmt.Fprintln(w, "Private:")
				for _, f := range doc.Private {
					fmt.Fprintf(w, "  %s\t%s\n", f.Name, f.Value)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return writeOutput(cmd, s.output, []byte(b.String()))
		},
	}
	cmd.Flags().String(flagKeys, "", "key document")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the parsed document structure")
	return cmd
}

func newBenchmarkCmd(v *viper.Viper) *cobra.Command {
	var (
		iterations int
		all        bool
	)
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Time key generation, encryption and decryption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if iterations < 1 {
				iterations = 1
			}
			schemes := []pkc.Scheme{s.scheme}
			if all {
				schemes = pkc.Schemes()
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s Benchmark Results\n", appName)
			fmt.Fprintf(&b, "Iterations: %d\n\n", iterations)
			for _, scheme := range schemes {
				if err := benchmarkScheme(&b, scheme, iterations, s.opts); err != nil {
					return err
				}
			}
			return writeOutput(cmd, s.output, []byte(b.String()))
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "number of iterations")
	cmd.Flags().BoolVar(&all, "all", false, "benchmark every scheme")
	return cmd
}

func benchmarkScheme(b *strings.Builder, scheme pkc.Scheme, iterations int, opts []cryptosystem.Option) error {
	var keygenTotal, encryptTotal, decryptTotal time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		c, err := cryptosystem.New(scheme, opts...)
		keygenTotal += time.Since(start)
		if err != nil {
			return err
		}

		start = time.Now()
		ct, err := c.Encrypt(benchmarkMessage)
		encryptTotal += time.Since(start)
		if err != nil {
			return err
		}

		start = time.Now()
		_, err = c.Decrypt(ct)
		decryptTotal += time.Since(start)
		if err != nil {
			return err
		}
	}

	n := time.Duration(iterations)
	fmt.Fprintf(b, "%s\n", scheme)
	fmt.Fprintf(b, "  KeyGen:  %v (avg)\n", keygenTotal/n)
	fmt.Fprintf(b, "  Encrypt: %v (avg)\n", encryptTotal/n)
	fmt.Fprintf(b, "  Decrypt: %v (avg)\n\n", decryptTotal/n)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s\n", appName, pkc.Version)
		},
	}
}
