// Package aes128 implements the AES-128 forward cipher on a single block,
// built directly from its round primitives.
package aes128

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16
	// KeySize is the AES-128 key size in bytes.
	KeySize = 16
	// Rounds is the number of rounds for a 128-bit key.
	Rounds = 10
	// ScheduleWords is the number of words in an expanded AES-128 key.
	ScheduleWords = 4 * (Rounds + 1)
)

// Encrypt enciphers exactly one 16-byte block under a 16-byte key. Inputs of
// any other length fail with ErrInvalidLength and nothing is computed.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	return EncryptWithObserver(plaintext, key, nil)
}

// EncryptWithObserver is Encrypt with a tracing hook. obs, when non-nil, is
// called with a snapshot after every stage; it cannot influence the result.
func EncryptWithObserver(plaintext, key []byte, obs Observer) ([]byte, error) {
	if len(plaintext) != BlockSize {
		return nil, lengthError("plaintext", len(plaintext))
	}
	if len(key) != KeySize {
		return nil, lengthError("key", len(key))
	}

	var pt [BlockSize]byte
	var k [KeySize]byte
	copy(pt[:], plaintext)
	copy(k[:], key)

	out := encrypt(pt, k, obs)
	return out[:], nil
}

// EncryptBlock is the fixed-size form of Encrypt.
func EncryptBlock(plaintext [BlockSize]byte, key [KeySize]byte) [BlockSize]byte {
	return encrypt(plaintext, key, nil)
}

func encrypt(plaintext [BlockSize]byte, key [KeySize]byte, obs Observer) [BlockSize]byte {
	state := NewState(plaintext)
	schedule := expandKey(key)
	defer schedule.Zero()

	obs.emit(StageInitial, 0, &state, schedule.RoundKey(0))

	AddRoundKey(&state, schedule.RoundKey(0))
	obs.emit(StageRound, 0, &state, schedule.RoundKey(0))

	for r := 1; r < Rounds; r++ {
		SubBytes(&state)
		ShiftRows(&state)
		MixColumns(&state)
		AddRoundKey(&state, schedule.RoundKey(r))
		obs.emit(StageRound, r, &state, schedule.RoundKey(r))
	}

	SubBytes(&state)
	ShiftRows(&state)
	AddRoundKey(&state, schedule.RoundKey(Rounds))
	obs.emit(StageRound, Rounds, &state, schedule.RoundKey(Rounds))

	return state.Bytes()
}
