package aes128

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGMulIdentityAndZero(t *testing.T) {
	for a := 0; a < 256; a++ {
		assert.Equal(t, byte(a), GMul(byte(a), 1), "a*1 for a=%#02x", a)
		assert.Equal(t, byte(0), GMul(byte(a), 0), "a*0 for a=%#02x", a)
		assert.Equal(t, byte(0), GMul(0, byte(a)), "0*a for a=%#02x", a)
	}
}

func TestGMulKnownProducts(t *testing.T) {
	tests := []struct {
		name string
		a, b byte
		want byte
	}{
		{"FIPS-197 4.2 example", 0x57, 0x83, 0xc1},
		{"FIPS-197 4.2.1 example", 0x57, 0x13, 0xfe},
		{"xtime without carry", 0x57, 0x02, 0xae},
		{"xtime with carry", 0xae, 0x02, 0x47},
		{"high bit reduction", 0x80, 0x02, 0x1b},
		{"times two", 0xd4, 0x02, 0xb3},
		{"times three", 0xd4, 0x03, 0x67},
		{"inverse pair", 0x53, 0xca, 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GMul(tt.a, tt.b))
		})
	}
}

func TestGMulFieldLaws(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			ab := GMul(byte(a), byte(b))
			if ab != GMul(byte(b), byte(a)) {
				t.Fatalf("GMul not commutative for %#02x, %#02x", a, b)
			}
			// distributes over XOR
			c := byte(a*7 + b)
			if GMul(byte(a), byte(b)^c) != ab^GMul(byte(a), c) {
				t.Fatalf("GMul not distributive for %#02x, %#02x, %#02x", a, b, c)
			}
		}
	}
}

func TestGMulEveryNonZeroHasInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		found := false
		for b := 1; b < 256; b++ {
			if GMul(byte(a), byte(b)) == 1 {
				found = true
				break
			}
		}
		assert.True(t, found, "no inverse for %#02x", a)
	}
}
