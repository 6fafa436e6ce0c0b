package aes128

import "fmt"

// StageKind identifies which point of the cipher a Stage was taken at.
type StageKind int

const (
	// StageInitial is the plaintext as loaded, before any key is mixed in.
	StageInitial StageKind = iota
	// StageRound is the state after the AddRoundKey that closes a round.
	// Round 0 is the pre-whitening XOR.
	StageRound
)

func (k StageKind) String() string {
	switch k {
	case StageInitial:
		return "initial"
	case StageRound:
		return "round"
	default:
		return fmt.Sprintf("StageKind(%d)", int(k))
	}
}

// Stage is a snapshot of the working state handed to an Observer.
type Stage struct {
	Kind     StageKind
	Round    int
	State    State
	RoundKey RoundKey
}

// Label is a human readable name for the stage.
func (s Stage) Label() string {
	switch {
	case s.Kind == StageInitial:
		return "Initial Text State"
	case s.Round == Rounds:
		return "Final Ciphertext State"
	default:
		return fmt.Sprintf("Text State After Round %d", s.Round)
	}
}

// Observer receives one Stage per traced step: the initial load and the end
// of rounds 0 through 10.
type Observer func(Stage)

// StageCount is the number of stages a full encryption reports.
const StageCount = Rounds + 2

func (obs Observer) emit(kind StageKind, round int, s *State, rk RoundKey) {
	if obs == nil {
		return
	}
	obs(Stage{Kind: kind, Round: round, State: *s, RoundKey: rk})
}
