package aes128

// GF(2^8) arithmetic modulo the AES (Rijndael) polynomial
// x^8 + x^4 + x^3 + x + 1 (0x11B).

const (
	rijndaelPoly = 0x11B
	// reduction is applied after a carry out of bit 7.
	reduction = byte(rijndaelPoly & 0xFF)
)

// GMul multiplies a and b in GF(2^8) using the shift-and-add method.
func GMul(a, b byte) byte {
	var p byte

	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}

		carry := a & 0x80
		a <<= 1
		if carry != 0 {
			a ^= reduction
		}
		b >>= 1
	}

	return p
}
