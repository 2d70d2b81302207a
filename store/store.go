// Package store keeps timestamped session saves on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-beatgrid/debug"
	"go-beatgrid/looper"
)

const timestampLayout = "2006-01-02_15-04-05"

// SessionVersion is bumped when Session changes incompatibly.
const SessionVersion = 1

var ErrNoSaves = errors.New("no saves found")

// Session is the persisted performance state. Only authored material is
// kept: tempo, sequence steps and playing loops.
type Session struct {
	Version   int                     `json:"version"`
	BPM       float64                 `json:"bpm"`
	Page      int                     `json:"page"`
	Sequences map[string][]bool       `json:"sequences,omitempty"`
	Loopers   map[int]looper.Snapshot `json:"loopers,omitempty"`
}

// SaveInfo represents a saved session file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// Store reads and writes sessions in one directory.
type Store struct {
	dir string
	now func() time.Time
}

// DefaultDir returns ~/.config/go-beatgrid/sessions
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-beatgrid", "sessions"), nil
}

func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) Dir() string {
	return s.dir
}

// List returns timestamped saves, newest first
func (s *Store) List() ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseFilename(entry.Name())
		if ok {
			saves = append(saves, info)
		}
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// parseFilename accepts 2024-01-15_14-30-00.json or
// 2024-01-15_14-30-00_name.json
func parseFilename(name string) (SaveInfo, bool) {
	if !strings.HasSuffix(name, ".json") {
		return SaveInfo{}, false
	}
	base := strings.TrimSuffix(name, ".json")
	if len(base) < len(timestampLayout) {
		return SaveInfo{}, false
	}
	ts, err := time.Parse(timestampLayout, base[:len(timestampLayout)])
	if err != nil {
		return SaveInfo{}, false
	}

	saveName := ""
	rest := base[len(timestampLayout):]
	if len(rest) > 1 && rest[0] == '_' {
		saveName = rest[1:]
	}
	return SaveInfo{Filename: name, Name: saveName, Timestamp: ts}, true
}

// Save writes the session under a new timestamped filename and returns it.
func (s *Store) Save(sess Session, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}

	sess.Version = SessionVersion
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	filename := s.now().Format(timestampLayout)
	if name = sanitizeFilename(name); name != "" {
		filename += "_" + name
	}
	filename += ".json"

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0644); err != nil {
		return "", err
	}
	debug.Log("store", "saved %s", filename)
	return filename, nil
}

// Load reads a save, or the most recent one if filename is empty.
func (s *Store) Load(filename string) (Session, error) {
	if filename == "" {
		saves, err := s.List()
		if err != nil {
			return Session{}, err
		}
		if len(saves) == 0 {
			return Session{}, fmt.Errorf("%w in %s", ErrNoSaves, s.dir)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode %s: %w", filename, err)
	}
	if sess.Version > SessionVersion {
		return Session{}, fmt.Errorf("%s: session version %d is newer than supported %d", filename, sess.Version, SessionVersion)
	}
	debug.Log("store", "loaded %s", filename)
	return sess, nil
}

// Delete deletes a specific save file
func (s *Store) Delete(filename string) error {
	return os.Remove(filepath.Join(s.dir, filename))
}

// Rename changes the name part of a save, keeping its timestamp.
func (s *Store) Rename(oldFilename, newName string) (string, error) {
	info, ok := parseFilename(oldFilename)
	if !ok {
		return "", fmt.Errorf("invalid save filename %q", oldFilename)
	}

	newFilename := info.Timestamp.Format(timestampLayout)
	if safe := sanitizeFilename(newName); safe != "" {
		newFilename += "_" + safe
	}
	newFilename += ".json"

	oldPath := filepath.Join(s.dir, oldFilename)
	newPath := filepath.Join(s.dir, newFilename)
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", err
	}
	return newFilename, nil
}

var filenameReplacer = strings.NewReplacer(
	" ", "-", "/", "-", "\\", "-", ":", "-",
	"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
)

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	return filenameReplacer.Replace(strings.TrimSpace(name))
}
