package cli

import (
	"fmt"
	"io"

	"github.com/Davincible/aestrace/pkg/crypto/aes128"
	"github.com/fatih/color"
)

// traceRenderer prints observer stages in the classic "--- title ---"
// layout: a header followed by four rows of hex.
type traceRenderer struct {
	w      io.Writer
	upper  bool
	header *color.Color
	key    *color.Color
	final  *color.Color
}

func newTraceRenderer(w io.Writer, upper bool) *traceRenderer {
	return &traceRenderer{
		w:      w,
		upper:  upper,
		header: color.New(color.FgCyan, color.Bold),
		key:    color.New(color.FgYellow),
		final:  color.New(color.FgGreen, color.Bold),
	}
}

func (r *traceRenderer) grid(title string, c *color.Color, rows [4][4]byte) {
	fmt.Fprintln(r.w)
	c.Fprintf(r.w, "--- %s ---\n", title)
	for _, row := range rows {
		fmt.Fprintln(r.w, formatHex(row[:], r.upper))
	}
}

// roundKeyGrid lays the key out like the state: word c is column c.
func roundKeyGrid(rk aes128.RoundKey) [4][4]byte {
	var g [4][4]byte
	for c := 0; c < 4; c++ {
		for i := 0; i < 4; i++ {
			g[i][c] = rk[c][i]
		}
	}
	return g
}

// Observe is an aes128.Observer.
func (r *traceRenderer) Observe(s aes128.Stage) {
	switch {
	case s.Kind == aes128.StageInitial:
		r.grid(s.Label(), r.header, s.State)
		r.grid("Initial Key (Round 0 Key)", r.key, roundKeyGrid(s.RoundKey))
	case s.Round == 0:
		r.grid(s.Label(), r.header, s.State)
	case s.Round == aes128.Rounds:
		r.grid(fmt.Sprintf("Round %d Key", s.Round), r.key, roundKeyGrid(s.RoundKey))
		r.grid(s.Label(), r.final, s.State)
	default:
		r.grid(fmt.Sprintf("Round %d Key", s.Round), r.key, roundKeyGrid(s.RoundKey))
		r.grid(s.Label(), r.header, s.State)
	}
}

// Schedule prints the expanded key, one round per line.
func (r *traceRenderer) Schedule(ks *aes128.KeySchedule) {
	fmt.Fprintln(r.w)
	r.header.Fprintln(r.w, "--- Key Schedule ---")
	for round := 0; round <= aes128.Rounds; round++ {
		rk := ks.RoundKey(round)
		words := make([]string, 4)
		for i, w := range rk {
			words[i] = fmt.Sprintf("w[%02d]=%s", 4*round+i, formatHex(w[:], r.upper))
		}
		fmt.Fprintf(r.w, "Round %2d: %s  %s  %s  %s\n", round, words[0], words[1], words[2], words[3])
	}
}
