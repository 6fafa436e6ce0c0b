package cli

import (
	"fmt"

	"github.com/Davincible/aestrace/pkg/crypto/keysplit"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [share...]",
		Short: "Verify the format of key shares",
		Long: `Check that each share decodes as hex and has the length of a 16-byte key
share. This cannot tell whether shares belong to the same key.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := keysplit.ParseShares(args)
			if err != nil {
				return err
			}

			green := color.New(color.FgGreen, color.Bold)
			out := cmd.OutOrStdout()
			for _, s := range shares {
				green.Fprint(out, "✓ ")
				fmt.Fprintf(out, "Share %d: %d bytes\n", s.Index, len(s.Data))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Remember: you need at least the threshold number of shares.")
			return nil
		},
	}

	return cmd
}
