package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Davincible/aestrace/internal/validation"
	"github.com/Davincible/aestrace/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loadConfig reads the user's configuration and applies --profile.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cm, err := config.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.Debug("Loaded configuration", "path", cm.Path())

	if profile, _ := cmd.Flags().GetString("profile"); profile != "" {
		if err := cm.ApplyProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to apply profile: %w", err)
		}
		slog.Debug("Applied profile", "profile", profile)
	}

	cfg := cm.GetConfig()
	if !cfg.UI.UseColor {
		color.NoColor = true
	}
	return cfg, nil
}

func wantJSON(cmd *cobra.Command) bool {
	outputJSON, _ := cmd.Flags().GetBool("json")
	return outputJSON
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// prompter reads answers from the command's input. A single buffered reader
// is shared so consecutive prompts over a pipe do not lose data.
type prompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		in:  cmd.InOrStdin(),
		out: cmd.ErrOrStderr(),
	}
}

func (p *prompter) terminal() (int, bool) {
	f, ok := p.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}

func (p *prompter) readLine() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return validation.SanitizeInput(line), nil
}

// Ask reads one visible line.
func (p *prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

// AskSecret reads one line without echo when attached to a terminal.
func (p *prompter) AskSecret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if fd, ok := p.terminal(); ok {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	return p.readLine()
}

// formatHex renders bytes as space separated pairs.
func formatHex(b []byte, upper bool) string {
	format := "%02x"
	if upper {
		format = "%02X"
	}
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf(format, v)
	}
	return strings.Join(parts, " ")
}
