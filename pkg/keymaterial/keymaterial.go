// Package keymaterial turns user-facing inputs (text, hex, passphrases,
// mnemonics, derivation paths, key shares) into the exact 16-byte blocks the
// cipher consumes. Padding and truncation policy lives here, not in the
// cipher.
package keymaterial

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Davincible/aestrace/pkg/crypto/hdkey"
	"github.com/Davincible/aestrace/pkg/crypto/kdf"
	"github.com/Davincible/aestrace/pkg/crypto/keysplit"
	"github.com/Davincible/aestrace/pkg/crypto/mnemonic"
	"github.com/Davincible/aestrace/pkg/secure"
)

const (
	Size = 16
	// DefaultPad fills short text inputs.
	DefaultPad = byte(' ')
)

// Block is one 16-byte key or plaintext.
type Block [Size]byte

func (b Block) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, b[:])
	return out
}

func (b Block) Hex() string {
	return hex.EncodeToString(b[:])
}

// Mnemonic encodes the block as a 12-word BIP-39 phrase.
func (b Block) Mnemonic() (string, error) {
	m, err := mnemonic.FromKey(b[:])
	if err != nil {
		return "", err
	}
	return m.Words(), nil
}

func (b *Block) Zero() {
	secure.Zero(b[:])
}

// FromText truncates s to 16 bytes or right-pads it with pad.
func FromText(s string, pad byte) Block {
	var b Block
	n := copy(b[:], s)
	for i := n; i < Size; i++ {
		b[i] = pad
	}
	return b
}

func FromBytes(data []byte) (Block, error) {
	var b Block
	if len(data) != Size {
		return b, fmt.Errorf("expected %d bytes, got %d", Size, len(data))
	}
	copy(b[:], data)
	return b, nil
}

// FromHex parses exactly 32 hex digits. Whitespace anywhere is ignored.
func FromHex(s string) (Block, error) {
	clean := strings.Join(strings.Fields(s), "")
	data, err := hex.DecodeString(clean)
	if err != nil {
		return Block{}, fmt.Errorf("invalid hex: %w", err)
	}
	defer secure.Zero(data)
	return FromBytes(data)
}

func FromPassphrase(passphrase string, params kdf.Params) (Block, error) {
	key, err := kdf.DeriveKey([]byte(passphrase), params)
	if err != nil {
		return Block{}, err
	}
	defer secure.Zero(key)
	return FromBytes(key)
}

func FromMnemonic(words string) (Block, error) {
	m, err := mnemonic.FromWords(words)
	if err != nil {
		return Block{}, err
	}
	key, err := m.Key()
	if err != nil {
		return Block{}, err
	}
	defer secure.Zero(key)
	return FromBytes(key)
}

// FromHDPath derives a key from the BIP-39 seed of words along path.
func FromHDPath(words, passphrase, path string) (Block, error) {
	m, err := mnemonic.FromWords(words)
	if err != nil {
		return Block{}, err
	}

	seed := m.Seed(passphrase)
	defer secure.Zero(seed)

	master, err := hdkey.NewMasterKey(seed)
	if err != nil {
		return Block{}, err
	}
	child, err := master.DerivePath(path)
	if err != nil {
		return Block{}, fmt.Errorf("failed to derive key: %w", err)
	}
	key, err := child.CipherKey()
	if err != nil {
		return Block{}, err
	}
	return FromBytes(key)
}

func FromShares(encoded []string) (Block, error) {
	shares, err := keysplit.ParseShares(encoded)
	if err != nil {
		return Block{}, err
	}
	key, err := keysplit.Combine(shares)
	if err != nil {
		return Block{}, err
	}
	defer secure.Zero(key)
	return FromBytes(key)
}
