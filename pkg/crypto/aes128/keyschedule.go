package aes128

// Word is four bytes of the expanded key.
type Word [4]byte

// RoundKey is the 16 bytes XORed into the state in one round. Word c is
// applied to column c of the state.
type RoundKey [4]Word

// KeySchedule holds the 44 words expanded from a 128-bit key: 11 round keys
// of 4 words each.
type KeySchedule [ScheduleWords]Word

// rcon holds the round constants [x^(i-1), 0, 0, 0] for i = 1..10. AES-128
// never needs more than ten.
var rcon = [10]Word{
	{0x01, 0x00, 0x00, 0x00},
	{0x02, 0x00, 0x00, 0x00},
	{0x04, 0x00, 0x00, 0x00},
	{0x08, 0x00, 0x00, 0x00},
	{0x10, 0x00, 0x00, 0x00},
	{0x20, 0x00, 0x00, 0x00},
	{0x40, 0x00, 0x00, 0x00},
	{0x80, 0x00, 0x00, 0x00},
	{0x1b, 0x00, 0x00, 0x00},
	{0x36, 0x00, 0x00, 0x00},
}

func roundConstant(i int) Word {
	if i < 0 || i >= len(rcon) {
		panic(&InvariantError{Table: "round constant", Index: i, Limit: len(rcon)})
	}
	return rcon[i]
}

// ExpandKey derives the key schedule from a 16-byte cipher key.
func ExpandKey(key []byte) (KeySchedule, error) {
	if len(key) != KeySize {
		return KeySchedule{}, lengthError("key", len(key))
	}

	var k [KeySize]byte
	copy(k[:], key)
	return expandKey(k), nil
}

func expandKey(key [KeySize]byte) KeySchedule {
	var w KeySchedule

	for i := 0; i < 4; i++ {
		w[i] = Word{key[4*i], key[4*i+1], key[4*i+2], key[4*i+3]}
	}

	for i := 4; i < ScheduleWords; i++ {
		temp := w[i-1]
		if i%4 == 0 {
			temp = xorWord(subWord(rotWord(temp)), roundConstant(i/4-1))
		}
		w[i] = xorWord(w[i-4], temp)
	}

	return w
}

// RoundKey returns the four words used in round r (0 through 10).
func (ks *KeySchedule) RoundKey(r int) RoundKey {
	if r < 0 || r > Rounds {
		panic(&InvariantError{Table: "round key", Index: r, Limit: Rounds + 1})
	}
	return RoundKey{ks[4*r], ks[4*r+1], ks[4*r+2], ks[4*r+3]}
}

// Zero overwrites every word of the schedule.
func (ks *KeySchedule) Zero() {
	for i := range ks {
		ks[i] = Word{}
	}
}

func rotWord(w Word) Word {
	return Word{w[1], w[2], w[3], w[0]}
}

func subWord(w Word) Word {
	return Word{Substitute(w[0]), Substitute(w[1]), Substitute(w[2]), Substitute(w[3])}
}

func xorWord(a, b Word) Word {
	return Word{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}
