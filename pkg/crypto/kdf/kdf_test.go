package kdf

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyVectors(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		params     Params
		want       string
	}{
		{
			name:       "password/salt 4096 iterations",
			passphrase: "password",
			params:     Params{Salt: []byte("salt"), Iterations: 4096},
			want:       "c5e478d59288c841aa530db6845c4c8d",
		},
		{
			name:       "Default parameters",
			passphrase: "correct horse battery staple",
			params:     DefaultParams(),
			want:       "7b2bf17e89cbcde977efe408ab3c138d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey([]byte(tt.passphrase), tt.params)
			require.NoError(t, err)
			assert.Len(t, key, KeySize)
			assert.Equal(t, tt.want, hex.EncodeToString(key))
		})
	}
}

func TestDeriveKeyRejects(t *testing.T) {
	_, err := DeriveKey(nil, DefaultParams())
	assert.ErrorContains(t, err, "passphrase cannot be empty")

	_, err = DeriveKey([]byte("pw"), Params{Salt: []byte("s"), Iterations: 10})
	assert.ErrorContains(t, err, "iterations must be at least")

	_, err = DeriveKey([]byte("pw"), Params{Iterations: DefaultIterations})
	assert.ErrorContains(t, err, "salt cannot be empty")
}

func TestDeriveKeyArgon2id(t *testing.T) {
	params := Params{
		Algorithm: AlgorithmArgon2id,
		Salt:      []byte(DefaultSalt),
		Time:      1,
		MemoryKiB: 64,
		Threads:   1,
	}

	a, err := DeriveKey([]byte("correct horse battery staple"), params)
	require.NoError(t, err)
	assert.Len(t, a, KeySize)

	b, err := DeriveKey([]byte("correct horse battery staple"), params)
	require.NoError(t, err)
	assert.Equal(t, a, b, "derivation must be deterministic")

	params.Salt = []byte("another salt")
	c, err := DeriveKey([]byte("correct horse battery staple"), params)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	pb, err := DeriveKey([]byte("correct horse battery staple"), DefaultParams())
	require.NoError(t, err)
	assert.NotEqual(t, a, pb)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{"Defaults", DefaultParams(), ""},
		{"Empty algorithm is pbkdf2", Params{Salt: []byte("s"), Iterations: MinIterations}, ""},
		{"Unknown algorithm", Params{Algorithm: "scrypt", Salt: []byte("s")}, "unknown algorithm"},
		{"Argon2 zero time", Params{Algorithm: AlgorithmArgon2id, Salt: []byte("s"), MemoryKiB: 64, Threads: 1}, "time must be at least 1"},
		{"Argon2 zero threads", Params{Algorithm: AlgorithmArgon2id, Salt: []byte("s"), Time: 1, MemoryKiB: 64}, "threads must be at least 1"},
		{"Argon2 too little memory", Params{Algorithm: AlgorithmArgon2id, Salt: []byte("s"), Time: 1, MemoryKiB: 16, Threads: 4}, "memory must be at least 32 KiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
