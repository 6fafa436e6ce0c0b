package keymaterial

import (
	"fmt"
	"strings"

	"github.com/Davincible/aestrace/pkg/crypto/kdf"
)

// KeySource names where a key came from.
type KeySource string

const (
	SourceText       KeySource = "text"
	SourceHex        KeySource = "hex"
	SourcePassphrase KeySource = "passphrase"
	SourceMnemonic   KeySource = "mnemonic"
	SourceHDPath     KeySource = "hd-path"
	SourceShares     KeySource = "shares"
)

// KeyOptions collects the mutually exclusive ways of supplying a key. When
// Path is set the key is derived hierarchically from Mnemonic's seed instead
// of being the mnemonic entropy itself.
type KeyOptions struct {
	Text       string
	Hex        string
	Passphrase string
	Mnemonic   string
	Path       string
	Shares     []string

	Pad      byte
	KDF      kdf.Params
	HDSecret string
}

// Empty reports whether no key input was given.
func (o KeyOptions) Empty() bool {
	return len(o.sources()) == 0
}

func (o KeyOptions) sources() []KeySource {
	var s []KeySource
	if o.Text != "" {
		s = append(s, SourceText)
	}
	if o.Hex != "" {
		s = append(s, SourceHex)
	}
	if o.Passphrase != "" {
		s = append(s, SourcePassphrase)
	}
	if o.Mnemonic != "" {
		if o.Path != "" {
			s = append(s, SourceHDPath)
		} else {
			s = append(s, SourceMnemonic)
		}
	}
	if len(o.Shares) > 0 {
		s = append(s, SourceShares)
	}
	return s
}

// Resolve produces the key from exactly one configured source.
func (o KeyOptions) Resolve() (Block, KeySource, error) {
	if o.Path != "" && o.Mnemonic == "" {
		return Block{}, "", fmt.Errorf("a derivation path requires a mnemonic")
	}

	sources := o.sources()
	switch len(sources) {
	case 0:
		return Block{}, "", fmt.Errorf("no key supplied")
	case 1:
	default:
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = string(s)
		}
		return Block{}, "", fmt.Errorf("conflicting key sources: %s", strings.Join(names, ", "))
	}

	var (
		b   Block
		err error
	)
	source := sources[0]
	switch source {
	case SourceText:
		b = FromText(o.Text, o.pad())
	case SourceHex:
		b, err = FromHex(o.Hex)
	case SourcePassphrase:
		params := o.KDF
		if len(params.Salt) == 0 && params.Iterations == 0 {
			params = kdf.DefaultParams()
		}
		b, err = FromPassphrase(o.Passphrase, params)
	case SourceMnemonic:
		b, err = FromMnemonic(o.Mnemonic)
	case SourceHDPath:
		b, err = FromHDPath(o.Mnemonic, o.HDSecret, o.Path)
	case SourceShares:
		b, err = FromShares(o.Shares)
	}
	if err != nil {
		return Block{}, source, fmt.Errorf("%s key: %w", source, err)
	}
	return b, source, nil
}

func (o KeyOptions) pad() byte {
	if o.Pad == 0 {
		return DefaultPad
	}
	return o.Pad
}

// PlaintextOptions selects how the block to encrypt is read.
type PlaintextOptions struct {
	Text string
	Hex  string
	Pad  byte
}

func (o PlaintextOptions) Empty() bool {
	return o.Text == "" && o.Hex == ""
}

func (o PlaintextOptions) Resolve() (Block, error) {
	switch {
	case o.Text != "" && o.Hex != "":
		return Block{}, fmt.Errorf("conflicting plaintext sources: text, hex")
	case o.Hex != "":
		b, err := FromHex(o.Hex)
		if err != nil {
			return Block{}, fmt.Errorf("hex plaintext: %w", err)
		}
		return b, nil
	case o.Text != "":
		pad := o.Pad
		if pad == 0 {
			pad = DefaultPad
		}
		return FromText(o.Text, pad), nil
	default:
		return Block{}, fmt.Errorf("no plaintext supplied")
	}
}

