package aes128

// State is the 4x4 working grid, indexed [row][column]. Byte i+4*j of a
// block is held at State[i][j].
type State [4][4]byte

// NewState loads a block into a State column by column.
func NewState(block [BlockSize]byte) State {
	var s State
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			s[i][j] = block[i+4*j]
		}
	}
	return s
}

// Bytes flattens the state back into a block, column by column.
func (s *State) Bytes() [BlockSize]byte {
	var out [BlockSize]byte
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			out[i+4*j] = s[i][j]
		}
	}
	return out
}

// AddRoundKey XORs the round key into the state. Applying the same key twice
// restores the original state.
func AddRoundKey(s *State, rk RoundKey) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s[i][j] ^= rk[j][i]
		}
	}
}

// SubBytes replaces every byte of the state with its S-box value.
func SubBytes(s *State) {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s[i][j] = Substitute(s[i][j])
		}
	}
}

// ShiftRows rotates row r left by r positions.
func ShiftRows(s *State) {
	for r := 1; r < 4; r++ {
		row := s[r]
		for c := 0; c < 4; c++ {
			s[r][c] = row[(c+r)%4]
		}
	}
}

// MixColumns multiplies each column by the fixed MDS matrix
//
//	02 03 01 01
//	01 02 03 01
//	01 01 02 03
//	03 01 01 02
//
// over GF(2^8).
func MixColumns(s *State) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[0][c], s[1][c], s[2][c], s[3][c]

		s[0][c] = GMul(a0, 2) ^ GMul(a1, 3) ^ a2 ^ a3
		s[1][c] = a0 ^ GMul(a1, 2) ^ GMul(a2, 3) ^ a3
		s[2][c] = a0 ^ a1 ^ GMul(a2, 2) ^ GMul(a3, 3)
		s[3][c] = GMul(a0, 3) ^ a1 ^ a2 ^ GMul(a3, 2)
	}
}
