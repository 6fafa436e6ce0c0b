// Package mnemonic encodes 128-bit cipher keys as 12-word BIP-39 phrases.
package mnemonic

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	EntropyBits = 128
	WordCount   = 12
)

type Mnemonic struct {
	words []string
}

// New returns a mnemonic for a freshly generated random key.
func New() (*Mnemonic, error) {
	entropy, err := bip39.NewEntropy(EntropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}

	return FromKey(entropy)
}

func FromWords(words string) (*Mnemonic, error) {
	fields := strings.Fields(words)
	if len(fields) != WordCount {
		return nil, fmt.Errorf("mnemonic must have %d words (got %d)", WordCount, len(fields))
	}

	phrase := strings.Join(fields, " ")
	if !bip39.IsMnemonicValid(phrase) {
		return nil, fmt.Errorf("invalid mnemonic phrase")
	}

	return &Mnemonic{words: fields}, nil
}

func FromKey(key []byte) (*Mnemonic, error) {
	if len(key) != EntropyBits/8 {
		return nil, fmt.Errorf("key must be %d bytes, got %d", EntropyBits/8, len(key))
	}

	phrase, err := bip39.NewMnemonic(key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate mnemonic from key: %w", err)
	}

	return &Mnemonic{words: strings.Split(phrase, " ")}, nil
}

func (m *Mnemonic) Words() string {
	return strings.Join(m.words, " ")
}

func (m *Mnemonic) WordList() []string {
	result := make([]string, len(m.words))
	copy(result, m.words)
	return result
}

// Key recovers the 16-byte key the phrase encodes.
func (m *Mnemonic) Key() ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(m.Words())
	if err != nil {
		return nil, fmt.Errorf("failed to get key from mnemonic: %w", err)
	}
	return entropy, nil
}

// Seed stretches the phrase into a 64-byte BIP-39 seed, the input for
// hierarchical key derivation.
func (m *Mnemonic) Seed(passphrase string) []byte {
	return bip39.NewSeed(m.Words(), passphrase)
}
