package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-beatgrid/looper"
)

func fixedClock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[i]
		if i < len(ts)-1 {
			i++
		}
		return t
	}
}

func TestSaveListLoad(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "sessions"))
	t0 := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	s.now = fixedClock(t0, t0.Add(time.Minute))

	sess := Session{
		BPM:       128,
		Page:      2,
		Sequences: map[string][]bool{"seq": {true, false, true}},
		Loopers: map[int]looper.Snapshot{
			3: {DurationMs: 2000, Events: []looper.Event{{Preset: 1, TimeMs: 500, Beat: 1}}},
		},
	}

	first, err := s.Save(sess, "warm up")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-30-00_warm-up.json", first)

	sess.BPM = 140
	second, err := s.Save(sess, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15_14-31-00.json", second)

	saves, err := s.List()
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, second, saves[0].Filename)
	assert.Equal(t, "warm-up", saves[1].Name)

	latest, err := s.Load("")
	require.NoError(t, err)
	assert.Equal(t, 140.0, latest.BPM)
	assert.Equal(t, SessionVersion, latest.Version)

	old, err := s.Load(first)
	require.NoError(t, err)
	assert.Equal(t, 128.0, old.BPM)
	assert.Equal(t, []bool{true, false, true}, old.Sequences["seq"])
	assert.Equal(t, 500.0, old.Loopers[3].Events[0].TimeMs)
}

func TestListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-15_14-30-00.txt"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2024-01-15_14-30-00.json"), 0755))

	saves, err := New(dir).List()
	require.NoError(t, err)
	assert.Empty(t, saves)
}

func TestLoadEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	saves, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, saves)

	_, err = s.Load("")
	assert.ErrorIs(t, err, ErrNoSaves)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	name := "2024-01-15_14-30-00.json"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{"version": 99}`), 0644))
	_, err := New(dir).Load(name)
	assert.Error(t, err)
}

func TestRenameAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	s.now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	name, err := s.Save(Session{BPM: 120}, "")
	require.NoError(t, err)

	renamed, err := s.Rename(name, "set: two?")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01_09-00-00_set--two.json", renamed)

	_, err = s.Rename("bogus.json", "x")
	assert.Error(t, err)

	require.NoError(t, s.Delete(renamed))
	saves, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, saves)
}
