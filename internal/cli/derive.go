package cli

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/aestrace/internal/validation"
	"github.com/Davincible/aestrace/pkg/crypto/hdkey"
	"github.com/Davincible/aestrace/pkg/keymaterial"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type DeriveResult struct {
	Path     string `json:"path"`
	Hex      string `json:"hex"`
	Mnemonic string `json:"mnemonic"`
}

func NewDeriveCommand() *cobra.Command {
	var (
		words      string
		path       string
		passphrase string
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive an AES-128 key from a mnemonic phrase",
		Long: `Derive a 128-bit key from the BIP-39 seed of a mnemonic phrase along a
BIP-32 path. The key is the first 16 bytes of the derived private key, the
same key 'encrypt --mnemonic ... --path ...' uses.`,
		Example: `  # Derive along the configured default path
  aestrace derive --mnemonic "abandon abandon ... about"

  # Derive a second key
  aestrace derive --path "m/0'/1'"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Derivation.DefaultPath
			}
			if err := hdkey.ValidatePath(path); err != nil {
				return err
			}

			if words == "" {
				p := newPrompter(cmd)
				words, err = p.AskSecret("Enter mnemonic phrase: ")
				if err != nil {
					return err
				}
			}
			if err := validation.ValidateMnemonic(words); err != nil {
				return err
			}

			key, err := keymaterial.FromHDPath(words, passphrase, path)
			if err != nil {
				return err
			}
			defer key.Zero()
			slog.Debug("Derived key", "path", path)

			encoded, err := key.Mnemonic()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, DeriveResult{Path: path, Hex: key.Hex(), Mnemonic: encoded})
			}

			yellow := color.New(color.FgYellow)
			fmt.Fprintln(out)
			yellow.Fprintln(out, "Derivation Path:")
			fmt.Fprintf(out, "  %s\n\n", path)
			yellow.Fprintln(out, "Key:")
			fmt.Fprintf(out, "  Hex:      %s\n", key.Hex())
			fmt.Fprintf(out, "  Mnemonic: %s\n", encoded)

			return nil
		},
	}

	cmd.Flags().StringVar(&words, "mnemonic", "", "12-word BIP-39 mnemonic (prompted if omitted)")
	cmd.Flags().StringVarP(&path, "path", "p", "", "BIP-32 derivation path (defaults to the configured path)")
	cmd.Flags().StringVar(&passphrase, "hd-passphrase", "", "BIP-39 passphrase")

	return cmd
}
