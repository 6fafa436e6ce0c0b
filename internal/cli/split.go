package cli

import (
	"fmt"

	"github.com/Davincible/aestrace/internal/validation"
	"github.com/Davincible/aestrace/pkg/crypto/keysplit"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type SplitResult struct {
	Shares    []string `json:"shares"`
	Threshold int      `json:"threshold"`
	Total     int      `json:"total"`
}

func NewSplitCommand() *cobra.Command {
	var (
		keys      keyFlags
		parts     int
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a key into Shamir shares",
		Long: `Split a 128-bit key into shares using Shamir's Secret Sharing. Any
threshold-sized subset of shares recovers the key with 'combine', or can be
passed straight to 'encrypt' with repeated --share flags.`,
		Example: `  # 3-of-5 shares of a hex key
  aestrace split --key-hex 000102030405060708090a0b0c0d0e0f -n 5 -t 3

  # Shares of a passphrase-derived key
  aestrace split --passphrase "hunter2" -n 3 -t 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateSplitParams(parts, threshold); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			key, err := keys.resolveKey(cfg, newPrompter(cmd))
			if err != nil {
				return err
			}
			defer key.Zero()

			shares, err := keysplit.Split(key[:], keysplit.Config{Parts: parts, Threshold: threshold})
			if err != nil {
				return err
			}

			result := SplitResult{Threshold: threshold, Total: parts}
			for _, share := range shares {
				result.Shares = append(result.Shares, share.Hex())
			}

			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, result)
			}

			yellow := color.New(color.FgYellow, color.Bold)
			red := color.New(color.FgRed, color.Bold)

			fmt.Fprintln(out)
			yellow.Fprintf(out, "Split key into %d shares (threshold %d)\n\n", parts, threshold)
			for i, share := range result.Shares {
				fmt.Fprintf(out, "Share %d: %s\n", i+1, share)
			}
			fmt.Fprintln(out)
			red.Fprintln(out, "Store each share separately. Any", threshold, "of them recover the key.")

			return nil
		},
	}

	keys.register(cmd)
	cmd.Flags().IntVarP(&parts, "parts", "n", 5, "Total number of shares to create")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 3, "Minimum shares needed to reconstruct")

	return cmd
}
