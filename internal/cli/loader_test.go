package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcpdev/xshacl/internal/model"
)

func writeSignatureFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSignature(t *testing.T) {
	path := writeSignatureFile(t, `
constraint_id: sh:MinCountConstraintComponent
property_path: ex:hasName
violation_type: cardinality
constraint_params:
  minCount: "1"
  inclusive: true
  limits:
    - 1
    - 2
`)
	sig, err := LoadSignature(path)
	require.NoError(t, err)

	assert.Equal(t, "sh:MinCountConstraintComponent", sig.ConstraintID)
	assert.Equal(t, "ex:hasName", sig.PropertyPath)
	assert.Equal(t, model.Cardinality, sig.Type)
	assert.Equal(t, model.Object{
		"minCount":  model.String("1"),
		"inclusive": model.Bool(true),
		"limits":    model.Array{model.Int(1), model.Int(2)},
	}, sig.Params)
}

func TestLoadSignatureMinimal(t *testing.T) {
	path := writeSignatureFile(t, "constraint_id: sh:NodeKindConstraintComponent\n")
	sig, err := LoadSignature(path)
	require.NoError(t, err)

	assert.Equal(t, "sh:NodeKindConstraintComponent", sig.ConstraintID)
	assert.Empty(t, sig.PropertyPath)
	assert.Empty(t, string(sig.Type))
	assert.Nil(t, sig.Params)
}

func TestLoadSignatureNestedParams(t *testing.T) {
	path := writeSignatureFile(t, `
constraint_id: sh:PatternConstraintComponent
violation_type: pattern
constraint_params:
  pattern:
    regex: "^[a-z]+$"
    flags: "i"
`)
	sig, err := LoadSignature(path)
	require.NoError(t, err)
	assert.Equal(t, model.Object{
		"pattern": model.Object{
			"regex": model.String("^[a-z]+$"),
			"flags": model.String("i"),
		},
	}, sig.Params)
}

func TestLoadSignatureErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing constraint_id",
			content: "property_path: ex:hasName\n",
			wantErr: "constraint_id is required",
		},
		{
			name:    "unknown violation_type",
			content: "constraint_id: sh:C\nviolation_type: bogus\n",
			wantErr: "unknown violation_type",
		},
		{
			name:    "float param",
			content: "constraint_id: sh:C\nconstraint_params:\n  maxExclusive: 1.5\n",
			wantErr: "float values are not allowed",
		},
		{
			name:    "null param",
			content: "constraint_id: sh:C\nconstraint_params:\n  value: null\n",
			wantErr: "null values are not allowed",
		},
		{
			name:    "float in sequence",
			content: "constraint_id: sh:C\nconstraint_params:\n  limits: [1, 2.5]\n",
			wantErr: "float values are not allowed",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantErr: "parse signature file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSignatureFile(t, tt.content)
			_, err := LoadSignature(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSignatureMissingFile(t *testing.T) {
	_, err := LoadSignature(filepath.Join(t.TempDir(), "no_such.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read signature file")
}
