package cli

import (
	"errors"
	"fmt"

	"github.com/Davincible/aestrace/pkg/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type CheckResult struct {
	File       string `json:"file"`
	Ciphertext string `json:"ciphertext"`
	Stages     int    `json:"stages"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}

// NewCheckCommand creates a command to re-verify saved trace reports
func NewCheckCommand() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "check REPORT...",
		Short: "Re-verify saved trace reports",
		Long: `Load trace reports written by 'encrypt --report', re-run the cipher on
the recorded key and plaintext, and confirm that the ciphertext and every
recorded stage still match. Sealed reports need their passphrase, given with
--passphrase or prompted for.`,
		Example: `  aestrace check trace.json`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			green := color.New(color.FgGreen, color.Bold)
			red := color.New(color.FgRed, color.Bold)
			out := cmd.OutOrStdout()

			p := newPrompter(cmd)

			var results []CheckResult
			invalid := 0
			for _, path := range args {
				res := CheckResult{File: path}

				r, err := report.Load(path)
				if errors.Is(err, report.ErrSealed) {
					r, err = loadSealed(path, passphrase, p)
				}
				if err == nil {
					res.Ciphertext = r.Ciphertext
					res.Stages = len(r.Stages)
					err = r.Verify()
				}
				if err != nil {
					res.Error = err.Error()
					invalid++
				} else {
					res.Valid = true
				}
				results = append(results, res)
			}

			if wantJSON(cmd) {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, res := range results {
					if res.Valid {
						green.Fprint(out, "✓ ")
						fmt.Fprintf(out, "%s: ciphertext %s, %d stages verified\n", res.File, res.Ciphertext, res.Stages)
					} else {
						red.Fprint(out, "✗ ")
						fmt.Fprintf(out, "%s: %s\n", res.File, res.Error)
					}
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d reports failed verification", invalid, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase for sealed reports")

	return cmd
}

func loadSealed(path, passphrase string, p *prompter) (*report.Report, error) {
	if passphrase == "" {
		var err error
		passphrase, err = p.AskSecret(fmt.Sprintf("Passphrase for %s: ", path))
		if err != nil {
			return nil, err
		}
	}
	return report.LoadSealed(path, []byte(passphrase))
}
