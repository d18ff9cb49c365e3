package main //nolint:testpackage // testing internal implementation.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/guilt/pkg/report"
)

func TestGenerateSchema_MatchesEmbedded(t *testing.T) {
	t.Parallel()

	schema, err := generateSchema(report.Document{})
	require.NoError(t, err)

	generated, err := json.Marshal(schema)
	require.NoError(t, err)

	var got, want map[string]any

	require.NoError(t, json.Unmarshal(generated, &got))
	require.NoError(t, json.Unmarshal(report.Schema(), &want))

	assert.Equal(t, want, got, "run go generate ./pkg/report after changing report.Document")
}

func TestGenerateSchema_Constraints(t *testing.T) {
	t.Parallel()

	schema, err := generateSchema(&report.Document{})
	require.NoError(t, err)

	assert.Equal(t, []string{"since", "until", "byte_blame", "lines", "bytes"}, schema.Required)
	assert.Equal(t, "#/definitions/Entry", schema.Properties["lines"].Items.Ref)

	entry := schema.Definitions["Entry"]
	require.NotNil(t, entry)
	require.NotNil(t, entry.Properties["delta"].Not)
	assert.Equal(t, 0, *entry.Properties["delta"].Not.Const)
	assert.Equal(t, 0, *entry.Properties["since"].Minimum)
	assert.False(t, *entry.AdditionalProperties)
}

func TestApplyConstraints_Unsupported(t *testing.T) {
	t.Parallel()

	type bad struct {
		Name string `json:"name" schema:"pattern=^x$"`
	}

	_, err := generateSchema(bad{})
	require.ErrorIs(t, err, errUnsupportedConstraint)
}

func TestWriteSchema(t *testing.T) {
	t.Parallel()

	schema, err := generateSchema(report.Document{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "report.schema.json")
	require.NoError(t, writeSchema(path, schema))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, report.ValidateJSON([]byte(`{"since":"a","until":"b","byte_blame":true,"lines":[],"bytes":[]}`)))
	assert.Contains(t, string(data), `"$ref": "#/definitions/Entry"`)
}
