// Package keysplit splits an AES-128 key into Shamir shares so it can be
// escrowed across several holders and recombined for encryption.
package keysplit

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/shamir"
)

const (
	KeySize = 16
	// ShareSize is the key length plus the one-byte x coordinate tag.
	ShareSize = KeySize + 1
)

type Share struct {
	Index byte
	Data  []byte
}

// Hex encodes the share data for display and transport.
func (s Share) Hex() string {
	return hex.EncodeToString(s.Data)
}

type Config struct {
	Parts     int
	Threshold int
}

func (c *Config) Validate() error {
	if c.Parts < 2 {
		return fmt.Errorf("parts must be at least 2, got %d", c.Parts)
	}
	if c.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", c.Threshold)
	}
	if c.Threshold > c.Parts {
		return fmt.Errorf("threshold (%d) cannot be greater than parts (%d)", c.Threshold, c.Parts)
	}
	if c.Parts > 255 {
		return fmt.Errorf("parts cannot exceed 255, got %d", c.Parts)
	}
	return nil
}

func Split(key []byte, config Config) ([]Share, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}

	shares, err := shamir.Split(key, config.Parts, config.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split key: %w", err)
	}

	result := make([]Share, len(shares))
	for i, share := range shares {
		result[i] = Share{
			Index: byte(i + 1),
			Data:  share,
		}
	}

	return result, nil
}

func Combine(shares []Share) ([]byte, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("at least 2 shares are required for reconstruction")
	}

	shareBytes := make([][]byte, len(shares))
	for i, share := range shares {
		if err := VerifyShare(share); err != nil {
			return nil, err
		}
		shareBytes[i] = share.Data
	}

	key, err := shamir.Combine(shareBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to combine shares: %w", err)
	}

	return key, nil
}

func VerifyShare(share Share) error {
	if len(share.Data) == 0 {
		return fmt.Errorf("share %d has empty data", share.Index)
	}
	if len(share.Data) != ShareSize {
		return fmt.Errorf("share %d: invalid share length: expected %d, got %d", share.Index, ShareSize, len(share.Data))
	}
	if share.Index == 0 {
		return fmt.Errorf("share index cannot be 0")
	}
	return nil
}

// ParseShares decodes hex-encoded shares, numbering them in order.
func ParseShares(encoded []string) ([]Share, error) {
	shares := make([]Share, 0, len(encoded))
	for i, s := range encoded {
		data, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("share %d: invalid hex: %w", i+1, err)
		}
		share := Share{Index: byte(i + 1), Data: data}
		if err := VerifyShare(share); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, nil
}
