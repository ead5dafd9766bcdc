package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newChangeRecorder() *changeRecorder {
	return &changeRecorder{seen: make(chan string, 16)}
}

func (r *changeRecorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
}

func (r *changeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

func TestNewResumeWatcher_Validation(t *testing.T) {
	_, err := NewResumeWatcher(nil, 0, func(string) {}, nil)
	assert.Error(t, err)

	_, err = NewResumeWatcher([]string{"resume.json"}, 0, nil, nil)
	assert.Error(t, err)

	w, err := NewResumeWatcher([]string{"resume.json"}, 0, func(string) {}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounceDelay)
	assert.True(t, filepath.IsAbs(w.Files()[0]))
}

func TestResumeWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	recorder := newChangeRecorder()
	w, err := NewResumeWatcher([]string{file}, 50*time.Millisecond, recorder.record, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	assert.Error(t, w.Start(), "second start should fail")

	// a burst of writes settles into a single callback
	for i := range 5 {
		content := `{"skills": [` + string(rune('0'+i)) + `]}`
		require.NoError(t, os.WriteFile(file, []byte(content+"          "[:i]), 0o644))
	}

	select {
	case path := <-recorder.seen:
		assert.Equal(t, w.Files()[0], path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, recorder.count())
}

func TestResumeWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	recorder := newChangeRecorder()
	w, err := NewResumeWatcher([]string{file}, 20*time.Millisecond, recorder.record, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 0, recorder.count())
}

func TestResumeWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	w, err := NewResumeWatcher([]string{file}, 0, func(string) {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())

	require.NoError(t, w.Stop())
	assert.False(t, w.IsRunning())
	require.NoError(t, w.Stop())
}
