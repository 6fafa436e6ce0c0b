package cli

import (
	"encoding/hex"

	"github.com/Davincible/aestrace/pkg/crypto/aes128"
	"github.com/spf13/cobra"
)

type ScheduleResult struct {
	Rounds [][]string `json:"rounds"`
}

func NewScheduleCommand() *cobra.Command {
	var keys keyFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the 44-word AES-128 key schedule",
		Long: `Expand a 128-bit key into the 44 words (11 round keys) used by the
cipher and print them grouped by round.`,
		Example: `  aestrace schedule --key-hex 2b7e151628aed2a6abf7158809cf4f3c
  aestrace schedule --key "Thats my Kung Fu" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			key, err := keys.resolveKey(cfg, newPrompter(cmd))
			if err != nil {
				return err
			}
			defer key.Zero()

			ks, err := aes128.ExpandKey(key[:])
			if err != nil {
				return err
			}
			defer ks.Zero()

			if wantJSON(cmd) {
				var result ScheduleResult
				for r := 0; r <= aes128.Rounds; r++ {
					rk := ks.RoundKey(r)
					words := make([]string, 4)
					for i, w := range rk {
						words[i] = hex.EncodeToString(w[:])
					}
					result.Rounds = append(result.Rounds, words)
				}
				return writeJSON(cmd.OutOrStdout(), result)
			}

			newTraceRenderer(cmd.OutOrStdout(), cfg.UI.UppercaseHex).Schedule(&ks)
			return nil
		},
	}

	keys.register(cmd)

	return cmd
}
