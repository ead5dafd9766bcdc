package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(small, []byte(`{}`), 0o644))
	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, make([]byte, 2048), 0o644))

	tests := []struct {
		name    string
		file    string
		maxSize int64
		wantErr string
	}{
		{"ok", small, 1024, ""},
		{"no limit", big, 0, ""},
		{"empty name", "", 0, "cannot be empty"},
		{"missing", filepath.Join(dir, "nope.json"), 0, "does not exist"},
		{"directory", dir, 0, "is a directory"},
		{"too large", big, 1024, "larger than the 1.0 KB limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.file, tt.maxSize)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsResumeFile(t *testing.T) {
	assert.True(t, IsResumeFile("a.json"))
	assert.True(t, IsResumeFile("a.YAML"))
	assert.True(t, IsResumeFile("dir/a.yml"))
	assert.False(t, IsResumeFile("a.txt"))
	assert.True(t, IsYAMLFile("a.yml"))
	assert.False(t, IsYAMLFile("a.json"))
}

func TestExpandResumePaths(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "team")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	for _, name := range []string{"b.json", "a.yaml", "notes.txt", filepath.Join("team", "c.yml")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{}`), 0o644))
	}

	files, err := ExpandResumePaths([]string{dir, filepath.Join(dir, "b.json")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "team", "c.yml"),
	}, files)

	_, err = ExpandResumePaths([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "1.0 MB", FormatFileSize(1024*1024))
}
