// Package kdf stretches passphrases into AES-128 keys with PBKDF2-HMAC-SHA256
// or Argon2id.
package kdf

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgorithmPBKDF2   = "pbkdf2"
	AlgorithmArgon2id = "argon2id"
)

const (
	KeySize           = 16
	DefaultIterations = 100000
	MinIterations     = 1000
	DefaultSalt       = "aestrace-kdf-v1"

	DefaultArgon2Time      = 3
	DefaultArgon2MemoryKiB = 64 * 1024 // 64MB
	DefaultArgon2Threads   = 4
)

// Params selects the algorithm and its cost. Iterations applies to PBKDF2;
// Time, MemoryKiB and Threads apply to Argon2id. An empty Algorithm means
// PBKDF2.
type Params struct {
	Algorithm  string
	Salt       []byte
	Iterations int
	Time       uint32
	MemoryKiB  uint32
	Threads    uint8
}

func DefaultParams() Params {
	return Params{
		Algorithm:  AlgorithmPBKDF2,
		Salt:       []byte(DefaultSalt),
		Iterations: DefaultIterations,
		Time:       DefaultArgon2Time,
		MemoryKiB:  DefaultArgon2MemoryKiB,
		Threads:    DefaultArgon2Threads,
	}
}

func (p Params) algorithm() string {
	if p.Algorithm == "" {
		return AlgorithmPBKDF2
	}
	return p.Algorithm
}

func (p Params) Validate() error {
	if len(p.Salt) == 0 {
		return fmt.Errorf("salt cannot be empty")
	}

	switch p.algorithm() {
	case AlgorithmPBKDF2:
		if p.Iterations < MinIterations {
			return fmt.Errorf("iterations must be at least %d, got %d", MinIterations, p.Iterations)
		}
	case AlgorithmArgon2id:
		if p.Time == 0 {
			return fmt.Errorf("argon2 time must be at least 1")
		}
		if p.Threads == 0 {
			return fmt.Errorf("argon2 threads must be at least 1")
		}
		if p.MemoryKiB < 8*uint32(p.Threads) {
			return fmt.Errorf("argon2 memory must be at least %d KiB for %d threads, got %d",
				8*uint32(p.Threads), p.Threads, p.MemoryKiB)
		}
	default:
		return fmt.Errorf("unknown algorithm %q", p.Algorithm)
	}

	return nil
}

// DeriveKey returns a 16-byte key for passphrase.
func DeriveKey(passphrase []byte, params Params) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kdf parameters: %w", err)
	}

	if params.algorithm() == AlgorithmArgon2id {
		return argon2.IDKey(passphrase, params.Salt, params.Time, params.MemoryKiB, params.Threads, KeySize), nil
	}
	return pbkdf2.Key(passphrase, params.Salt, params.Iterations, KeySize, sha256.New), nil
}
