package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Davincible/aestrace/pkg/config"
	"github.com/Davincible/aestrace/pkg/crypto/aes128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEncrypt(t *testing.T, out string) EncryptResult {
	t.Helper()
	var res EncryptResult
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestEncryptKnownAnswerJSON(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey, "--json")
	res := decodeEncrypt(t, out)

	assert.Equal(t, fipsPlaintext, res.Plaintext)
	assert.Equal(t, fipsCiphertext, res.Ciphertext)
	require.Len(t, res.Stages, aes128.StageCount)
	assert.Equal(t, "Initial Text State", res.Stages[0].Label)
	assert.Equal(t, "Text State After Round 0", res.Stages[1].Label)
	assert.Equal(t, "Final Ciphertext State", res.Stages[aes128.StageCount-1].Label)
}

func TestEncryptTraceOutput(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "", "encrypt", "--text", "Two One Nine Two", "--key", "Thats my Kung Fu")

	for _, want := range []string{
		"--- Initial Text State ---",
		"--- Initial Key (Round 0 Key) ---",
		"--- Text State After Round 0 ---",
		"--- Round 1 Key ---",
		"--- Text State After Round 9 ---",
		"--- Round 10 Key ---",
		"--- Final Ciphertext State ---",
		// First row of the initial state: bytes 0, 4, 8 and 12.
		"54 4F 4E 20",
		"Hex:        29c3505f571420f6402299b31a02d73a",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Round 1 Key"), strings.Index(out, "Text State After Round 1 "))
}

func TestEncryptWithoutTrace(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey, "--trace=false")
	assert.NotContains(t, out, "---")
	assert.Contains(t, out, "Ciphertext: 69 C4 E0 D8 6A 7B 04 30 D8 CD B7 80 70 B4 C5 5A")
}

func TestEncryptSchedule(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", "2b7e151628aed2a6abf7158809cf4f3c",
		"--trace=false", "--schedule")
	assert.Contains(t, out, "--- Key Schedule ---")
	assert.Contains(t, out, "w[04]=A0 FA FE 17")
	assert.Contains(t, out, "w[43]=B6 63 0C A6")
}

func TestEncryptPadsShortText(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "", "encrypt", "--text", "hello", "--key-hex", fipsKey, "--json")
	res := decodeEncrypt(t, out)
	assert.Equal(t, "68656c6c6f"+strings.Repeat("20", 11), res.Plaintext)

	out = mustExecute(t, "", "encrypt", "--text", "this text is longer than a block", "--key-hex", fipsKey, "--json")
	res = decodeEncrypt(t, out)
	assert.Equal(t, "746869732074657874206973206c6f6e", res.Plaintext)
}

func TestEncryptPrompts(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "Two One Nine Two\nThats my Kung Fu\n", "encrypt", "--json")
	res := decodeEncrypt(t, out)
	assert.Equal(t, "29c3505f571420f6402299b31a02d73a", res.Ciphertext)
}

func TestEncryptErrors(t *testing.T) {
	setupCLI(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"Short hex plaintext", []string{"--hex", "0011", "--key-hex", fipsKey}, "invalid plaintext"},
		{"Short hex key", []string{"--hex", fipsPlaintext, "--key-hex", "0001"}, "invalid key: block must be 32 hex digits"},
		{"Non-hex key", []string{"--hex", fipsPlaintext, "--key-hex", strings.Repeat("zz", 16)}, "invalid key: invalid hex characters"},
		{"Conflicting keys", []string{"--hex", fipsPlaintext, "--key", "k", "--key-hex", fipsKey}, "conflicting key sources"},
		{"Both plaintexts", []string{"--hex", fipsPlaintext, "--text", "t", "--key", "k"}, "conflicting plaintext sources"},
		{"Path without mnemonic", []string{"--hex", fipsPlaintext, "--path", "m/0'"}, "requires a mnemonic"},
		{"Seal without report", []string{"--hex", fipsPlaintext, "--key", "k", "--seal"}, "--seal requires --report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"encrypt"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestHexErrorsMatchForKeyAndPlaintext(t *testing.T) {
	setupCLI(t)

	_, ptErr := execute(t, "", "encrypt", "--hex", "0011", "--key-hex", fipsKey)
	require.Error(t, ptErr)
	_, keyErr := execute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", "0011")
	require.Error(t, keyErr)

	assert.Equal(t,
		strings.TrimPrefix(ptErr.Error(), "invalid plaintext: "),
		strings.TrimPrefix(keyErr.Error(), "invalid key: "))

	_, err := execute(t, "", "schedule", "--key-hex", "0011")
	assert.ErrorContains(t, err, "invalid key: block must be 32 hex digits")
}

func TestEncryptVerbosity(t *testing.T) {
	path := setupCLI(t)

	setVerbosity := func(v string) {
		cm, err := config.NewConfigManagerAt(path)
		require.NoError(t, err)
		cfg := cm.GetConfig()
		cfg.UI.Verbosity = v
		cm.SetConfig(cfg)
		require.NoError(t, cm.SaveConfig())
	}

	setVerbosity(config.VerbosityQuiet)
	out := mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey)
	assert.NotContains(t, out, "---")
	assert.Contains(t, out, "Ciphertext: 69 C4 E0 D8")

	out = mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey, "--trace")
	assert.Contains(t, out, "--- Final Ciphertext State ---")

	setVerbosity(config.VerbosityVerbose)
	out = mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey)
	assert.Contains(t, out, "--- Key Schedule ---")
	assert.Contains(t, out, "--- Final Ciphertext State ---")

	setVerbosity(config.VerbosityNormal)
	out = mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey)
	assert.NotContains(t, out, "--- Key Schedule ---")
	assert.Contains(t, out, "--- Final Ciphertext State ---")
}

func TestEncryptEmptyPrompt(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "\n", "encrypt")
	assert.ErrorContains(t, err, "plaintext cannot be empty")
}

func TestReportAndCheck(t *testing.T) {
	setupCLI(t)
	path := filepath.Join(t.TempDir(), "trace.json")

	out := mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey, "--report", path, "--trace=false")
	assert.Contains(t, out, "Report:     "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out = mustExecute(t, "", "check", path)
	assert.Contains(t, out, "12 stages verified")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), fipsCiphertext, strings.Repeat("0", 32), 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0600))

	out, err = execute(t, "", "check", path)
	assert.ErrorContains(t, err, "1 of 1 reports failed verification")
	assert.Contains(t, out, "ciphertext mismatch")
}

func TestSealedReportAndCheck(t *testing.T) {
	setupCLI(t)
	path := filepath.Join(t.TempDir(), "sealed.json")

	mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey, "--trace=false",
		"--report", path, "--seal", "--seal-passphrase", "hunter2")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), fipsCiphertext)

	out := mustExecute(t, "", "check", path, "--passphrase", "hunter2")
	assert.Contains(t, out, "12 stages verified")

	out = mustExecute(t, "hunter2\n", "check", path)
	assert.Contains(t, out, "12 stages verified")

	_, err = execute(t, "", "check", path, "--passphrase", "wrong")
	assert.Error(t, err)
}

func TestCheckJSON(t *testing.T) {
	setupCLI(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	missing := filepath.Join(dir, "missing.json")

	mustExecute(t, "", "encrypt", "--hex", fipsPlaintext, "--key-hex", fipsKey, "--trace=false", "--report", good)

	out, err := execute(t, "", "check", good, missing, "--json")
	assert.Error(t, err)

	var results []CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.Equal(t, fipsCiphertext, results[0].Ciphertext)
	assert.False(t, results[1].Valid)
	assert.Contains(t, results[1].Error, "failed to read file")
}

func TestRoundKeyGrid(t *testing.T) {
	rk := aes128.RoundKey{
		{0x00, 0x01, 0x02, 0x03},
		{0x04, 0x05, 0x06, 0x07},
		{0x08, 0x09, 0x0a, 0x0b},
		{0x0c, 0x0d, 0x0e, 0x0f},
	}
	g := roundKeyGrid(rk)
	assert.Equal(t, [4]byte{0x00, 0x04, 0x08, 0x0c}, g[0])
	assert.Equal(t, [4]byte{0x03, 0x07, 0x0b, 0x0f}, g[3])
}
