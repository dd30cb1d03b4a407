package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcpdev/xshacl/internal/kg"
	"github.com/gcpdev/xshacl/internal/testutil"
)

// runCommand executes the root command with args and returns stdout,
// stderr, and the command error.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// decodeResponse unmarshals the JSON envelope and its data payload.
func decodeResponse(t *testing.T, out string, data any) Response {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return Response{Status: resp.Status, Error: resp.Error}
}

const minCountYAML = `
constraint_id: sh:MinCountConstraintComponent
property_path: ex:hasName
violation_type: cardinality
constraint_params:
  minCount: "1"
`

var tokenPattern = regexp.MustCompile(`^sig_[0-9a-f]{32}$`)

func TestTokenCommand(t *testing.T) {
	path := writeSignatureFile(t, minCountYAML)

	stdout, _, err := runCommand(t, "token", path, "--format", "json")
	require.NoError(t, err)

	var result TokenResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Regexp(t, tokenPattern, result.Token)
}

func TestTokenCommandStableAcrossParamOrder(t *testing.T) {
	first := writeSignatureFile(t, `
constraint_id: sh:RangeConstraintComponent
violation_type: value_range
constraint_params:
  minInclusive: "0"
  maxInclusive: "10"
`)
	second := writeSignatureFile(t, `
constraint_id: sh:RangeConstraintComponent
violation_type: value_range
constraint_params:
  maxInclusive: "10"
  minInclusive: "0"
`)

	out1, _, err := runCommand(t, "token", first, "--format", "json")
	require.NoError(t, err)
	out2, _, err := runCommand(t, "token", second, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, out1, out2, "parameter order must not change the token")
}

func TestTokenCommandTextOutput(t *testing.T) {
	path := writeSignatureFile(t, minCountYAML)

	stdout, _, err := runCommand(t, "token", path)
	require.NoError(t, err)
	assert.Regexp(t, `^sig_[0-9a-f]{32}\n$`, stdout)
}

func TestTokenCommandBadFile(t *testing.T) {
	_, _, err := runCommand(t, "token", filepath.Join(t.TempDir(), "no_such.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidFormatRejected(t *testing.T) {
	path := writeSignatureFile(t, minCountYAML)
	_, _, err := runCommand(t, "token", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLookupMiss(t *testing.T) {
	path := writeSignatureFile(t, minCountYAML)
	store := filepath.Join(t.TempDir(), "kg.ttl")

	stdout, _, err := runCommand(t, "lookup", path, "--store", store, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err), "a miss exits 1, not 2")

	var result LookupResult
	decodeResponse(t, stdout, &result)
	assert.False(t, result.Hit)
	assert.Nil(t, result.Explanation)
	assert.Regexp(t, tokenPattern, result.Token)
}

func TestLookupHit(t *testing.T) {
	path := writeSignatureFile(t, minCountYAML)
	store := filepath.Join(t.TempDir(), "kg.ttl")
	expl := testutil.Explanation(testutil.NewFocusNode())

	seeded, err := kg.Open(kg.WithStorePath(store))
	require.NoError(t, err)
	require.NoError(t, seeded.Put(testutil.MinCountSignature(), expl))

	stdout, _, err := runCommand(t, "lookup", path, "--store", store, "--format", "json")
	require.NoError(t, err)

	var result LookupResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Hit)
	require.NotNil(t, result.Explanation)
	assert.Equal(t, expl.NaturalLanguageExplanation, result.Explanation.NaturalLanguageExplanation)
	assert.Equal(t, expl.CorrectionSuggestions, result.Explanation.CorrectionSuggestions)
}

func TestLookupVerboseTokenOnStderr(t *testing.T) {
	path := writeSignatureFile(t, minCountYAML)
	store := filepath.Join(t.TempDir(), "kg.ttl")

	stdout, stderr, _ := runCommand(t, "lookup", path, "--store", store, "--format", "json", "--verbose")
	assert.Contains(t, stderr, "canonical token: sig_")
	decodeResponse(t, stdout, nil)
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "kg.ttl")
	auditPath := filepath.Join(dir, "audit.db")
	sigPath := writeSignatureFile(t, minCountYAML)

	// seed one entry through the audited lookup path
	_, _, err := runCommand(t, "lookup", sigPath, "--store", store, "--audit", auditPath)
	require.Error(t, err) // miss

	seeded, err := kg.Open(kg.WithStorePath(store))
	require.NoError(t, err)
	require.NoError(t, seeded.Put(testutil.MinCountSignature(), testutil.Explanation(testutil.NewFocusNode())))

	stdout, _, err := runCommand(t, "stats", "--store", store, "--audit", auditPath, "--format", "json")
	require.NoError(t, err)

	var result StatsResult
	decodeResponse(t, stdout, &result)
	assert.Equal(t, store, result.StorePath)
	assert.Greater(t, result.Facts, 0)
	assert.Len(t, result.Signatures, 1)
	assert.Regexp(t, tokenPattern, result.Signatures[0])
	assert.Equal(t, int64(1), result.Events["get/miss"])
}

func TestStatsEmptyStore(t *testing.T) {
	store := filepath.Join(t.TempDir(), "kg.ttl")

	stdout, _, err := runCommand(t, "stats", "--store", store, "--format", "json")
	require.NoError(t, err)

	var result StatsResult
	decodeResponse(t, stdout, &result)
	assert.Equal(t, 0, result.Facts)
	assert.Empty(t, result.Signatures)
	assert.Nil(t, result.Events)
}

func TestClearRequiresConfirmation(t *testing.T) {
	store := filepath.Join(t.TempDir(), "kg.ttl")

	_, _, err := runCommand(t, "clear", "--store", store)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--yes")
}

func TestClearCommand(t *testing.T) {
	store := filepath.Join(t.TempDir(), "kg.ttl")
	seeded, err := kg.Open(kg.WithStorePath(store))
	require.NoError(t, err)
	require.NoError(t, seeded.Put(testutil.MinCountSignature(), testutil.Explanation(testutil.NewFocusNode())))

	stdout, _, err := runCommand(t, "clear", "--store", store, "--yes", "--format", "json")
	require.NoError(t, err)

	var result ClearResult
	decodeResponse(t, stdout, &result)
	assert.True(t, result.Cleared)
	assert.Equal(t, store, result.StorePath)

	reopened, err := kg.Open(kg.WithStorePath(store))
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Size())
}
