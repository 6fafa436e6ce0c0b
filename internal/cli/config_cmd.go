package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/Davincible/aestrace/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewConfigCommand groups the configuration subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage configuration",
		Long: `Inspect and manage the aestrace configuration file and saved profiles.

The file lives at $AESTRACE_CONFIG, $XDG_CONFIG_HOME/aestrace/config.json or
~/.config/aestrace/config.json, and is created with defaults on first use.`,
	}

	cmd.AddCommand(
		newConfigPathCommand(),
		newConfigShowCommand(),
		newConfigInitCommand(),
		newConfigProfileCommand(),
	)

	return cmd
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if _, err := config.ResetConfig(path); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}

func newConfigProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved profiles",
		Long: `Profiles are named presets applied with the global --profile flag. Each
one can override the input format, the default derivation path and the KDF
iteration count.`,
	}

	cmd.AddCommand(
		newProfileAddCommand(),
		newProfileListCommand(),
		newProfileDeleteCommand(),
	)

	return cmd
}

func newProfileAddCommand() *cobra.Command {
	var profile config.Profile

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a profile",
		Example: `  aestrace config profile add vectors --input-format hex
  aestrace --profile vectors encrypt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewConfigManager()
			if err != nil {
				return err
			}

			profile.Name = args[0]
			p := profile
			if err := cm.AddProfile(&p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.Description, "description", "", "Profile description")
	cmd.Flags().StringVar(&profile.InputFormat, "input-format", "", "Input format (text or hex)")
	cmd.Flags().StringVar(&profile.DerivationPath, "derivation-path", "", "Default BIP-32 derivation path")
	cmd.Flags().IntVar(&profile.KDFIterations, "kdf-iterations", 0, "PBKDF2 iteration count")

	return cmd
}

func newProfileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewConfigManager()
			if err != nil {
				return err
			}

			profiles := cm.ListProfiles()
			sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })

			out := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return writeJSON(out, profiles)
			}

			if len(profiles) == 0 {
				fmt.Fprintln(out, "No profiles saved")
				return nil
			}
			for _, p := range profiles {
				fmt.Fprintf(out, "%-16s %s\n", p.Name, p.Description)
			}
			return nil
		},
	}
}

func newProfileDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := config.NewConfigManager()
			if err != nil {
				return err
			}
			if err := cm.DeleteProfile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q\n", args[0])
			return nil
		},
	}
}
