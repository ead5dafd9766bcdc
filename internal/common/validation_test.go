package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescore/internal/errors"
	"resumescore/internal/types"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "text", format: "text", supported: supported},
		{name: "markdown", format: "markdown", supported: supported},
		{
			name:          "xml is rejected",
			format:        "xml",
			supported:     supported,
			expectedError: "unsupported output format 'xml'. Supported formats: [json text markdown]",
		},
		{
			name:          "case sensitive",
			format:        "JSON",
			supported:     supported,
			expectedError: "unsupported output format 'JSON'. Supported formats: [json text markdown]",
		},
		{name: "no restrictions", format: "anything", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedError, err.Error())
		})
	}
}

func TestParseDocument(t *testing.T) {
	raw, err := ParseDocument("resume.json", []byte(`{"skills": ["Go"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"skills": []any{"Go"}}, raw)

	raw, err = ParseDocument("resume.yaml", []byte("skills:\n  - Go\npersonalInfo:\n  phone: 5550199\n"))
	require.NoError(t, err)
	m, ok := raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Go"}, m["skills"])

	raw, err = ParseDocument("resume.json", []byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, raw)

	_, err = ParseDocument("resume.json", []byte(`{"skills": [`))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidDocument, appErr.Code)
}

func TestFileProcessor_LoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"personalInfo": {"name": "Ada"}}`), 0o644))

	fp := NewFileProcessor(errors.Nop(), 1024)
	doc, err := fp.LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.NotNil(t, doc.Raw)

	_, err = NewFileProcessor(errors.Nop(), 8).LoadDocument(path)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_INPUT_FILE", appErr.Code)

	_, err = fp.LoadDocuments(path, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestOutputHandler_HandleOutput(t *testing.T) {
	var buf bytes.Buffer
	handler := NewOutputHandler(errors.Nop(), &buf)

	report := types.ScoreReport{Score: 42, Band: types.BandNeedsWork}
	require.NoError(t, handler.HandleOutput(report, CommandConfig{OutputFormat: "json"}))
	assert.Contains(t, buf.String(), `"score": 42`)

	out := filepath.Join(t.TempDir(), "nested", "report.md")
	require.NoError(t, handler.HandleOutput(report, CommandConfig{OutputFormat: "markdown", OutputFile: out}))
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), "# ATS Score Report")

	err = handler.HandleOutput(report, CommandConfig{OutputFormat: "xml"})
	assert.Error(t, err)
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supported := []string{"json", "text", "markdown"}
	for b.Loop() {
		_ = ValidateOutputFormat("markdown", supported)
	}
}
