// Package report records a traced encryption as JSON so it can be archived,
// diffed against other implementations and re-verified later.
package report

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Davincible/aestrace/pkg/crypto/aes128"
	"github.com/Davincible/aestrace/pkg/secure"
)

const (
	FormatVersion   = 1
	DefaultFileMode = os.FileMode(0600)
)

type Report struct {
	Version    int           `json:"version"`
	CreatedAt  time.Time     `json:"created_at"`
	Key        string        `json:"key"`
	Plaintext  string        `json:"plaintext"`
	Ciphertext string        `json:"ciphertext"`
	Stages     []StageRecord `json:"stages"`
}

// StageRecord is one observer snapshot. State holds the four rows and
// RoundKey the four words, each as hex.
type StageRecord struct {
	Kind     string    `json:"kind"`
	Round    int       `json:"round"`
	Label    string    `json:"label"`
	State    [4]string `json:"state"`
	RoundKey [4]string `json:"round_key"`
}

// Recorder collects stages; its Observe method is an aes128.Observer.
type Recorder struct {
	stages []aes128.Stage
}

func (r *Recorder) Observe(s aes128.Stage) {
	r.stages = append(r.stages, s)
}

func (r *Recorder) Stages() []aes128.Stage {
	out := make([]aes128.Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// Build encrypts plaintext under key and records every stage.
func Build(key, plaintext []byte) (*Report, error) {
	var rec Recorder
	ct, err := aes128.EncryptWithObserver(plaintext, key, rec.Observe)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Version:    FormatVersion,
		CreatedAt:  time.Now().UTC(),
		Key:        hex.EncodeToString(key),
		Plaintext:  hex.EncodeToString(plaintext),
		Ciphertext: hex.EncodeToString(ct),
		Stages:     make([]StageRecord, 0, len(rec.stages)),
	}
	for _, s := range rec.stages {
		r.Stages = append(r.Stages, NewStageRecord(s))
	}
	return r, nil
}

func NewStageRecord(s aes128.Stage) StageRecord {
	rec := StageRecord{
		Kind:  s.Kind.String(),
		Round: s.Round,
		Label: s.Label(),
	}
	for i := 0; i < 4; i++ {
		rec.State[i] = hex.EncodeToString(s.State[i][:])
		rec.RoundKey[i] = hex.EncodeToString(s.RoundKey[i][:])
	}
	return rec
}

// Verify re-runs the cipher on the recorded inputs and checks the ciphertext
// and every recorded stage.
func (r *Report) Verify() error {
	if r.Version != FormatVersion {
		return fmt.Errorf("unsupported report version %d", r.Version)
	}

	key, err := hex.DecodeString(r.Key)
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	defer secure.Zero(key)

	plaintext, err := hex.DecodeString(r.Plaintext)
	if err != nil {
		return fmt.Errorf("invalid plaintext: %w", err)
	}

	want, err := hex.DecodeString(r.Ciphertext)
	if err != nil {
		return fmt.Errorf("invalid ciphertext: %w", err)
	}

	fresh, err := Build(key, plaintext)
	if err != nil {
		return fmt.Errorf("failed to re-run cipher: %w", err)
	}

	got, _ := hex.DecodeString(fresh.Ciphertext)
	if !secure.ConstantTimeCompare(want, got) {
		return fmt.Errorf("ciphertext mismatch: report has %s, cipher produced %s", r.Ciphertext, fresh.Ciphertext)
	}

	if len(r.Stages) != len(fresh.Stages) {
		return fmt.Errorf("report has %d stages, expected %d", len(r.Stages), len(fresh.Stages))
	}
	for i := range r.Stages {
		if r.Stages[i] != fresh.Stages[i] {
			return fmt.Errorf("stage %d (%s) differs from recomputed trace", i, fresh.Stages[i].Label)
		}
	}

	return nil
}

func (r *Report) Save(path string, perm os.FileMode) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return writeFile(path, data, perm)
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultFileMode
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Load reads a plain report. It returns ErrSealed for a sealed one.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var probe struct {
		Sealed *envelope `json:"sealed"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if probe.Sealed != nil {
		return nil, ErrSealed
	}

	return parse(data)
}

func parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
