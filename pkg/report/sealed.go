package report

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Davincible/aestrace/pkg/secure"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealed is returned by Load for a report written with SaveSealed.
var ErrSealed = errors.New("report is sealed with a passphrase")

const (
	sealSaltSize = 32

	// Upper bounds accepted from a sealed file.
	MaxSealTime      = 64
	MaxSealMemoryKiB = 1024 * 1024 // 1GB
)

// SealParams are the Argon2id costs used to derive the sealing key.
type SealParams struct {
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory_kib"`
	Threads   uint8  `json:"threads"`
}

func DefaultSealParams() SealParams {
	return SealParams{
		Time:      3,
		MemoryKiB: 64 * 1024, // 64MB
		Threads:   4,
	}
}

// Validate rejects costs argon2 cannot run with or that exceed the limits.
func (p SealParams) Validate() error {
	if p.Time == 0 || p.Time > MaxSealTime {
		return fmt.Errorf("seal time must be between 1 and %d, got %d", MaxSealTime, p.Time)
	}
	if p.Threads == 0 {
		return fmt.Errorf("seal threads must be at least 1")
	}
	if p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > MaxSealMemoryKiB {
		return fmt.Errorf("seal memory must be between %d and %d KiB, got %d",
			8*uint32(p.Threads), MaxSealMemoryKiB, p.MemoryKiB)
	}
	return nil
}

type envelope struct {
	Version    int        `json:"version"`
	Params     SealParams `json:"params"`
	Salt       string     `json:"salt"`
	Nonce      string     `json:"nonce"`
	Ciphertext string     `json:"ciphertext"`
}

func sealingKey(passphrase, salt []byte, p SealParams) []byte {
	return argon2.IDKey(passphrase, salt, p.Time, p.MemoryKiB, p.Threads, chacha20poly1305.KeySize)
}

// SaveSealed writes the report encrypted with ChaCha20-Poly1305 under a key
// derived from passphrase with Argon2id.
func (r *Report) SaveSealed(path string, perm os.FileMode, passphrase []byte, params SealParams) error {
	if len(passphrase) == 0 {
		return fmt.Errorf("passphrase cannot be empty")
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid seal parameters: %w", err)
	}

	plain, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	defer secure.Zero(plain)

	salt := make([]byte, sealSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	key := sealingKey(passphrase, salt, params)
	defer secure.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := struct {
		Sealed envelope `json:"sealed"`
	}{
		Sealed: envelope{
			Version:    FormatVersion,
			Params:     params,
			Salt:       hex.EncodeToString(salt),
			Nonce:      hex.EncodeToString(nonce),
			Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, plain, nil)),
		},
	}

	data, err := json.MarshalIndent(sealed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return writeFile(path, data, perm)
}

// LoadSealed reads a report written by SaveSealed. Plain reports are returned
// as is.
func LoadSealed(path string, passphrase []byte) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file struct {
		Sealed *envelope `json:"sealed"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if file.Sealed == nil {
		return parse(data)
	}
	env := file.Sealed

	if env.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported sealed report version %d", env.Version)
	}
	if err := env.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seal parameters: %w", err)
	}

	salt, err := hex.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("invalid nonce: %w", err)
	}
	ciphertext, err := hex.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	key := sealingKey(passphrase, salt, env.Params)
	defer secure.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	defer secure.Zero(plain)

	return parse(plain)
}
