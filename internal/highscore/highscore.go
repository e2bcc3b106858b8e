// Package highscore keeps the persistent top-ten table. Persistence is best
// effort: unreadable files load as an empty table and failed writes are
// logged and otherwise ignored.
package highscore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// MaxEntries is the size of the table.
const MaxEntries = 10

// InitialsLength is the number of letters a player enters.
const InitialsLength = 3

// Entry is one row of the table.
type Entry struct {
	Score    int       `yaml:"score"`
	Initials string    `yaml:"initials"`
	Date     time.Time `yaml:"date"`
}

type document struct {
	Scores []Entry `yaml:"scores"`
}

// Store is the high-score table. It is safe for concurrent use so that
// several sessions can share one table.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for swallowed I/O errors.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the clock used to date new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// DefaultPath returns the per-user location of the table.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "demonattack", "highscores.yml"), nil
}

// Open creates a store backed by path and loads it. An empty path keeps the
// table in memory only.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Load replaces the in-memory table with the file contents. A missing,
// unreadable or malformed file yields an empty table.
func (s *Store) Load() {
	entries, err := s.read()
	if err != nil {
		s.logger.Debug("high scores not loaded", "path", s.path, "err", err)
		entries = nil
	}
	s.mu.Lock()
	s.entries = normalize(entries)
	s.mu.Unlock()
}

func (s *Store) read() ([]Entry, error) {
	if s.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read high scores: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse high scores: %w", err)
	}
	return doc.Scores, nil
}

// write replaces the file atomically so a crash never leaves half a table.
func (s *Store) write(entries []Entry) error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(document{Scores: entries})
	if err != nil {
		return fmt.Errorf("encode high scores: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create high score dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write high scores: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace high scores: %w", err)
	}
	return nil
}

// IsHighScore reports whether score would earn a place in the table.
func (s *Store) IsHighScore(score int) bool {
	if score <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) < MaxEntries {
		return true
	}
	return score > s.entries[len(s.entries)-1].Score
}

// Add records a score, keeps the table sorted and capped, and saves it.
// Initials are upper-cased. A failed save keeps the updated table in memory.
func (s *Store) Add(score int, initials string) Entry {
	e := Entry{Score: score, Initials: strings.ToUpper(initials), Date: s.now()}

	s.mu.Lock()
	s.entries = normalize(append(s.entries, e))
	snapshot := append([]Entry(nil), s.entries...)
	s.mu.Unlock()

	if err := s.write(snapshot); err != nil {
		s.logger.Warn("high scores not saved", "path", s.path, "err", err)
	}
	return e
}

// Highest returns the top score, or 0 for an empty table.
func (s *Store) Highest() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[0].Score
}

// Entries returns a copy of the table, best first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// normalize sorts best first and truncates to MaxEntries. Equal scores keep
// their existing order, so an older entry outranks a newer tie.
func normalize(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}
