package cli

import (
	"fmt"

	"github.com/Davincible/aestrace/pkg/keymaterial"
	"github.com/Davincible/aestrace/pkg/secure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type KeygenResult struct {
	Hex      string `json:"hex"`
	Mnemonic string `json:"mnemonic"`
}

func NewKeygenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random AES-128 key",
		Long: `Generate a random 128-bit key and print it as hex and as a 12-word
BIP-39 mnemonic. Either form can be passed back with --key-hex or --mnemonic.`,
		Example: `  aestrace keygen
  aestrace keygen --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := secure.Random(keymaterial.Size)
			if err != nil {
				return fmt.Errorf("failed to generate key: %w", err)
			}
			defer secure.Zero(raw)

			key, err := keymaterial.FromBytes(raw)
			if err != nil {
				return err
			}
			defer key.Zero()

			words, err := key.Mnemonic()
			if err != nil {
				return fmt.Errorf("failed to encode mnemonic: %w", err)
			}

			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, KeygenResult{Hex: key.Hex(), Mnemonic: words})
			}

			yellow := color.New(color.FgYellow, color.Bold)
			red := color.New(color.FgRed, color.Bold)

			fmt.Fprintln(out)
			yellow.Fprintln(out, "Generated AES-128 key:")
			fmt.Fprintf(out, "  Hex:      %s\n", key.Hex())
			fmt.Fprintf(out, "  Mnemonic: %s\n", words)
			fmt.Fprintln(out)
			red.Fprintln(out, "Keep this key private. Anyone holding it can reproduce your ciphertexts.")

			return nil
		},
	}

	return cmd
}
