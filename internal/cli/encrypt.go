package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Davincible/aestrace/internal/validation"
	"github.com/Davincible/aestrace/pkg/config"
	"github.com/Davincible/aestrace/pkg/crypto/aes128"
	"github.com/Davincible/aestrace/pkg/keymaterial"
	"github.com/Davincible/aestrace/pkg/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// keyFlags are the key inputs shared by every command that needs a key.
type keyFlags struct {
	text         string
	hex          string
	passphrase   string
	mnemonic     string
	path         string
	hdPassphrase string
	shares       []string
}

func (f *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "key", "k", "", "Key as text (truncated or padded to 16 bytes)")
	cmd.Flags().StringVar(&f.hex, "key-hex", "", "Key as 32 hex digits")
	cmd.Flags().StringVar(&f.passphrase, "passphrase", "", "Derive the key from a passphrase with PBKDF2")
	cmd.Flags().StringVar(&f.mnemonic, "mnemonic", "", "Key as a 12-word BIP-39 mnemonic")
	cmd.Flags().StringVar(&f.path, "path", "", "Derive the key from the mnemonic seed along this BIP-32 path (\"default\" uses the configured path)")
	cmd.Flags().StringVar(&f.hdPassphrase, "hd-passphrase", "", "BIP-39 passphrase used with --path")
	cmd.Flags().StringArrayVar(&f.shares, "share", nil, "Hex key share (repeat for each share)")
}

func (f *keyFlags) options(cfg *config.Config) keymaterial.KeyOptions {
	path := f.path
	if path == "default" {
		path = cfg.Derivation.DefaultPath
	}
	return keymaterial.KeyOptions{
		Text:       f.text,
		Hex:        f.hex,
		Passphrase: f.passphrase,
		Mnemonic:   f.mnemonic,
		Path:       path,
		Shares:     f.shares,
		Pad:        cfg.Defaults.PadByte,
		KDF:        cfg.KDFParams(),
		HDSecret:   f.hdPassphrase,
	}
}

// resolveKey returns the key from flags, prompting when none was given.
func (f *keyFlags) resolveKey(cfg *config.Config, p *prompter) (keymaterial.Block, error) {
	opts := f.options(cfg)

	if opts.Empty() && opts.Path == "" {
		if cfg.Defaults.InputFormat == config.InputFormatHex {
			answer, err := p.AskSecret("Enter key (32 hex digits): ")
			if err != nil {
				return keymaterial.Block{}, err
			}
			opts.Hex = answer
		} else {
			answer, err := p.AskSecret("Enter key (16 chars): ")
			if err != nil {
				return keymaterial.Block{}, err
			}
			if answer == "" {
				return keymaterial.Block{}, fmt.Errorf("key cannot be empty")
			}
			opts.Text = answer
		}
	}

	if opts.Hex != "" {
		if err := validation.ValidateBlockHex(opts.Hex); err != nil {
			return keymaterial.Block{}, fmt.Errorf("invalid key: %w", err)
		}
	}

	if opts.Passphrase != "" {
		if err := validation.ValidatePassphrase(opts.Passphrase); err != nil {
			return keymaterial.Block{}, err
		}
	}

	key, source, err := opts.Resolve()
	if err != nil {
		return keymaterial.Block{}, err
	}
	slog.Debug("Resolved key material", "source", source)
	return key, nil
}

type EncryptResult struct {
	Plaintext  string               `json:"plaintext"`
	Ciphertext string               `json:"ciphertext"`
	Stages     []report.StageRecord `json:"stages,omitempty"`
	Report     string               `json:"report,omitempty"`
}

func NewEncryptCommand() *cobra.Command {
	var (
		keys       keyFlags
		text       string
		blockHex   string
		trace      bool
		schedule   bool
		reportPath string
		seal       bool
		sealPass   string
	)

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt one 16-byte block and trace every round",
		Long: `Encrypt a single 16-byte block with AES-128 and print the state after
the initial load, the round 0 key addition and each of the ten rounds.

Text inputs are truncated or padded to 16 bytes with the configured pad byte
(a space by default). Hex inputs must be exactly 32 digits. When no plaintext
or key is given on the command line you are prompted for them.`,
		Example: `  # FIPS-197 Appendix C.1
  aestrace encrypt --hex 00112233445566778899aabbccddeeff --key-hex 000102030405060708090a0b0c0d0e0f

  # Text block and key, with the key schedule
  aestrace encrypt --text "Two One Nine Two" --key "Thats my Kung Fu" --schedule

  # Key from a passphrase, ciphertext only
  aestrace encrypt --text "attack at dawn" --passphrase "hunter2" --trace=false

  # Key derived from a mnemonic along the configured default path
  aestrace encrypt --text hello --mnemonic "legal winner ..." --path default

  # Save a verifiable JSON trace
  aestrace encrypt --text hello --key secret --report trace.json

  # Save it encrypted under a passphrase
  aestrace encrypt --text hello --key secret --report trace.json --seal`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("trace") {
				trace = cfg.ShowTrace()
			}
			if !cmd.Flags().Changed("schedule") {
				schedule = cfg.ShowSchedule()
			}

			p := newPrompter(cmd)
			out := cmd.OutOrStdout()
			outputJSON := wantJSON(cmd)

			ptOpts := keymaterial.PlaintextOptions{Text: text, Hex: blockHex, Pad: cfg.Defaults.PadByte}
			if ptOpts.Empty() {
				if cfg.Defaults.InputFormat == config.InputFormatHex {
					ptOpts.Hex, err = p.Ask("Enter block (32 hex digits): ")
				} else {
					ptOpts.Text, err = p.Ask("Enter text (16 chars): ")
				}
				if err != nil {
					return fmt.Errorf("failed to read plaintext: %w", err)
				}
				if ptOpts.Empty() {
					return fmt.Errorf("plaintext cannot be empty")
				}
			}
			if ptOpts.Hex != "" {
				if err := validation.ValidateBlockHex(ptOpts.Hex); err != nil {
					return fmt.Errorf("invalid plaintext: %w", err)
				}
			}

			plaintext, err := ptOpts.Resolve()
			if err != nil {
				return err
			}
			defer plaintext.Zero()

			key, err := keys.resolveKey(cfg, p)
			if err != nil {
				return err
			}
			defer key.Zero()

			renderer := newTraceRenderer(out, cfg.UI.UppercaseHex)

			if schedule && !outputJSON {
				ks, err := aes128.ExpandKey(key[:])
				if err != nil {
					return err
				}
				renderer.Schedule(&ks)
				ks.Zero()
			}

			var rec report.Recorder
			observer := func(s aes128.Stage) {
				rec.Observe(s)
				if trace && !outputJSON {
					renderer.Observe(s)
				}
			}

			ciphertext, err := aes128.EncryptWithObserver(plaintext[:], key[:], observer)
			if err != nil {
				return fmt.Errorf("encryption failed: %w", err)
			}

			result := EncryptResult{
				Plaintext:  plaintext.Hex(),
				Ciphertext: hex.EncodeToString(ciphertext),
			}
			if trace {
				for _, s := range rec.Stages() {
					result.Stages = append(result.Stages, report.NewStageRecord(s))
				}
			}

			if seal && reportPath == "" {
				return fmt.Errorf("--seal requires --report")
			}
			if reportPath != "" {
				var passphrase []byte
				if seal {
					if sealPass == "" {
						sealPass, err = p.AskSecret("Report passphrase: ")
						if err != nil {
							return err
						}
					}
					if sealPass == "" {
						return fmt.Errorf("report passphrase cannot be empty")
					}
					if err := validation.ValidatePassphrase(sealPass); err != nil {
						return err
					}
					passphrase = []byte(sealPass)
				}
				saved, err := saveReport(cfg, reportPath, key[:], plaintext[:], passphrase)
				if err != nil {
					return err
				}
				result.Report = saved
			}

			if outputJSON {
				return writeJSON(out, result)
			}

			fmt.Fprintln(out)
			green := color.New(color.FgGreen, color.Bold)
			green.Fprint(out, "Ciphertext: ")
			fmt.Fprintln(out, formatHex(ciphertext, cfg.UI.UppercaseHex))
			fmt.Fprintf(out, "Hex:        %x\n", ciphertext)
			if result.Report != "" {
				fmt.Fprintf(out, "Report:     %s\n", result.Report)
			}

			return nil
		},
	}

	keys.register(cmd)
	cmd.Flags().StringVarP(&text, "text", "t", "", "Plaintext as text (truncated or padded to 16 bytes)")
	cmd.Flags().StringVar(&blockHex, "hex", "", "Plaintext as 32 hex digits")
	cmd.Flags().BoolVar(&trace, "trace", true, "Print the state after every stage")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "Print the expanded key schedule")
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Write a JSON trace report to this file")
	cmd.Flags().BoolVar(&seal, "seal", false, "Encrypt the report with a passphrase")
	cmd.Flags().StringVar(&sealPass, "seal-passphrase", "", "Passphrase for --seal (prompted if omitted)")

	return cmd
}

// saveReport writes the trace report, sealed when passphrase is non-empty.
func saveReport(cfg *config.Config, path string, key, plaintext, passphrase []byte) (string, error) {
	if !filepath.IsAbs(path) && cfg.Report.Directory != "" {
		path = filepath.Join(cfg.Report.Directory, path)
	}

	mode, err := cfg.ReportFileMode()
	if err != nil {
		return "", err
	}

	r, err := report.Build(key, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to build report: %w", err)
	}
	if len(passphrase) > 0 {
		err = r.SaveSealed(path, mode, passphrase, report.DefaultSealParams())
	} else {
		err = r.Save(path, mode)
	}
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	slog.Debug("Wrote trace report", "path", path, "sealed", len(passphrase) > 0)
	return path, nil
}
