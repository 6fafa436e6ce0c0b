// Package hdkey derives AES-128 keys from a BIP-32 hierarchy so that one
// backed-up seed can yield any number of independent cipher keys.
package hdkey

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

const (
	HardenedKeyOffset = bip32.FirstHardenedChild

	// CipherKeySize is the number of private-key bytes used as an AES-128 key.
	CipherKeySize = 16

	// DefaultPath is used when no derivation path is configured.
	DefaultPath = "m/0'/0'"
)

type HDKey struct {
	key  *bip32.Key
	path string
}

func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) < 16 {
		return nil, fmt.Errorf("seed must be at least 16 bytes")
	}

	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	return &HDKey{
		key:  masterKey,
		path: "m",
	}, nil
}

// ParsePath converts a path such as m/0'/7 into child indexes. Both ' and h
// mark a hardened segment.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "m" || path == "M" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "m/") && !strings.HasPrefix(path, "M/") {
		return nil, fmt.Errorf("path must start with 'm/' or 'M/'")
	}

	segments := strings.Split(path, "/")[1:]
	indexes := make([]uint32, 0, len(segments))

	for i, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("empty segment at position %d", i+1)
		}

		hardened := strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h")
		if hardened {
			segment = strings.TrimSuffix(strings.TrimSuffix(segment, "'"), "h")
		}

		index, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment '%s': %w", segment, err)
		}
		if index >= uint64(HardenedKeyOffset) {
			return nil, fmt.Errorf("path segment %d out of range", index)
		}

		childIndex := uint32(index)
		if hardened {
			childIndex += HardenedKeyOffset
		}
		indexes = append(indexes, childIndex)
	}

	return indexes, nil
}

func ValidatePath(path string) error {
	_, err := ParsePath(path)
	return err
}

func (h *HDKey) DerivePath(path string) (*HDKey, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	currentKey := h.key
	for _, childIndex := range indexes {
		newKey, err := currentKey.NewChildKey(childIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child key at index %d: %w", childIndex, err)
		}
		currentKey = newKey
	}

	return &HDKey{
		key:  currentKey,
		path: strings.TrimSpace(path),
	}, nil
}

func (h *HDKey) PrivateKey() []byte {
	out := make([]byte, len(h.key.Key))
	copy(out, h.key.Key)
	return out
}

func (h *HDKey) PrivateKeyHex() string {
	return hex.EncodeToString(h.PrivateKey())
}

// CipherKey returns the leading 16 bytes of the private key.
func (h *HDKey) CipherKey() ([]byte, error) {
	if !h.key.IsPrivate {
		return nil, fmt.Errorf("cipher keys can only be taken from private keys")
	}
	priv := h.PrivateKey()
	if len(priv) < CipherKeySize {
		return nil, fmt.Errorf("private key too short: %d bytes", len(priv))
	}
	return priv[:CipherKeySize], nil
}

func (h *HDKey) Path() string {
	return h.path
}

func (h *HDKey) IsPrivate() bool {
	return h.key.IsPrivate
}
