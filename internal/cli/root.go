package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the aestrace command tree. level is lowered to
// Debug when --verbose is given.
func NewRootCommand(version string, level *slog.LevelVar) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aestrace",
		Short: "Trace the AES-128 cipher one round at a time",
		Long: `aestrace encrypts a single 16-byte block with AES-128, implemented from
its round primitives, and shows the working state after every round.

Features:
- Full FIPS-197 forward cipher for 128-bit keys
- Stage-by-stage trace of the 4x4 state and each round key
- Key schedule inspection
- Keys from text, hex, passphrases (PBKDF2), BIP-39 mnemonics,
  BIP-32 derivation paths or Shamir key shares
- JSON trace reports that can be re-verified later
- Built-in known-answer self test`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && level != nil {
				level.Set(slog.LevelDebug)
			}
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.AddCommand(
		NewEncryptCommand(),
		NewScheduleCommand(),
		NewSelfTestCommand(),
		NewKeygenCommand(),
		NewDeriveCommand(),
		NewSplitCommand(),
		NewCombineCommand(),
		NewVerifyCommand(),
		NewCheckCommand(),
		NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("profile", "", "Apply a saved configuration profile")

	rootCmd.SetVersionTemplate(fmt.Sprintf("aestrace %s\n", version))

	return rootCmd
}
