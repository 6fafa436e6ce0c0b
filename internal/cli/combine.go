package cli

import (
	"fmt"

	"github.com/Davincible/aestrace/pkg/keymaterial"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type CombineResult struct {
	Hex      string `json:"hex"`
	Mnemonic string `json:"mnemonic"`
}

func NewCombineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine [share...]",
		Short: "Recover a key from Shamir shares",
		Long: `Combine hex-encoded key shares produced by 'split' and print the
recovered key. At least the threshold number of shares is required; fewer
shares yield an unrelated key.`,
		Example: `  aestrace combine 3f9a...01 77c2...02 a815...03`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keymaterial.FromShares(args)
			if err != nil {
				return err
			}
			defer key.Zero()

			words, err := key.Mnemonic()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, CombineResult{Hex: key.Hex(), Mnemonic: words})
			}

			green := color.New(color.FgGreen, color.Bold)
			fmt.Fprintln(out)
			green.Fprintln(out, "Recovered key:")
			fmt.Fprintf(out, "  Hex:      %s\n", key.Hex())
			fmt.Fprintf(out, "  Mnemonic: %s\n", words)

			return nil
		},
	}

	return cmd
}
