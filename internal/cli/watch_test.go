package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescore/internal/common"
	"resumescore/internal/errors"
	"resumescore/internal/types"
	"resumescore/internal/watcher"
)

func TestRescorer_Output(t *testing.T) {
	tests := []struct {
		name       string
		toFile     bool
		wantHeader bool
	}{
		{name: "stdout gets header and report", wantHeader: true},
		{name: "output file suppresses header", toFile: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			resume := writeFile(t, dir, "resume.json", sampleResume)

			cmdConfig := common.CommandConfig{OutputFormat: "json"}
			if tt.toFile {
				cmdConfig.OutputFile = filepath.Join(dir, "report.json")
			}

			var out bytes.Buffer
			r := newRescorer(errors.Nop(), cmdConfig, &out)
			require.NoError(t, r.score(resume))

			if !tt.wantHeader {
				assert.Empty(t, out.String())
				assert.Greater(t, readJSON[types.ScoreReport](t, cmdConfig.OutputFile).Score, 0)
				return
			}
			assert.Contains(t, out.String(), "--- "+resume+" (")
			assert.Contains(t, out.String(), `"score"`)
		})
	}
}

// editOnFirstWrite appends to path the first time output is written,
// standing in for a save that lands while the initial pass runs
type editOnFirstWrite struct {
	t    *testing.T
	path string
	once sync.Once
}

func (e *editOnFirstWrite) Write(p []byte) (int, error) {
	e.once.Do(func() {
		f, err := os.OpenFile(e.path, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(e.t, err)
		_, err = f.WriteString(strings.Repeat(" ", 32))
		require.NoError(e.t, err)
		require.NoError(e.t, f.Close())
	})
	return len(p), nil
}

func TestStartThenScore_SaveDuringInitialPassIsSeen(t *testing.T) {
	resume := writeFile(t, t.TempDir(), "resume.json", sampleResume)

	changed := make(chan string, 4)
	w, err := watcher.NewResumeWatcher([]string{resume}, 20*time.Millisecond, func(path string) {
		changed <- path
	}, errors.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	out := &editOnFirstWrite{t: t, path: resume}
	r := newRescorer(errors.Nop(), common.CommandConfig{OutputFormat: "json"}, out)
	require.NoError(t, startThenScore(w, r))
	assert.True(t, w.IsRunning())

	select {
	case path := <-changed:
		assert.Equal(t, w.Files()[0], path)
	case <-time.After(3 * time.Second):
		t.Fatal("save during the initial pass was not reported")
	}
}
