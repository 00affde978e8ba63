// Package datastore is the single owner of all persisted assistant state:
// conversation history, long-term memory, schedule and fitness data. Every
// mutating operation runs under one lock and rewrites the whole JSON
// document synchronously, so the file on disk is always current.
package datastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"jaws/app/config"

	"github.com/samber/do"
)

// timestampLayout matches the legacy store's ISO-8601 timestamps, which
// carry no timezone.
const timestampLayout = "2006-01-02T15:04:05.999999"

const dateLayout = "2006-01-02"

var ErrNotFound = errors.New("not found")

type Service struct {
	path  string
	nowFn func() time.Time

	mu  sync.RWMutex
	doc *document
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return Open(cfg.Store.Path)
}

// Open loads the document at path, falling back to an empty default when
// the file is missing, unreadable or corrupt. Opening never fails on bad
// data, only on an unwritable location.
func Open(path string) (*Service, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s := &Service{
		path:  path,
		nowFn: time.Now,
		doc:   loadDocument(path),
	}

	s.seedCounters()

	if err := s.save(); err != nil {
		return nil, err
	}

	return s, nil
}

func loadDocument(path string) *document {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Data file unreadable, starting with an empty store",
				"path", path,
				"error", err)
		}

		return defaultDocument()
	}

	var doc document
	if err = json.Unmarshal(data, &doc); err != nil {
		slog.Warn("Data file corrupt, starting with an empty store",
			"path", path,
			"error", err)

		return defaultDocument()
	}

	if doc.User.Preferences == nil {
		doc.User.Preferences = map[string]any{}
	}
	if doc.Fitness.Goals == nil {
		doc.Fitness.Goals = map[string]any{}
	}

	return &doc
}

// seedCounters brings the next-id counters of a legacy document (which has
// none) up to the highest id already in use.
func (s *Service) seedCounters() {
	for _, item := range s.doc.Schedule {
		if item.ID > s.doc.Counters.Schedule {
			s.doc.Counters.Schedule = item.ID
		}
	}
	for _, w := range s.doc.Fitness.Workouts {
		if w.ID > s.doc.Counters.Workouts {
			s.doc.Counters.Workouts = w.ID
		}
	}
	for _, l := range s.doc.Fitness.Nutrition.Logs {
		if l.ID > s.doc.Counters.NutritionLogs {
			s.doc.Counters.NutritionLogs = l.ID
		}
	}
	for _, l := range s.doc.Fitness.Nutrition.WeightLogs {
		if l.ID > s.doc.Counters.WeightLogs {
			s.doc.Counters.WeightLogs = l.ID
		}
	}
}

// save must be called with the write lock held (or before the service is
// shared).
func (s *Service) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data file: %w", err)
	}

	if err = os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}

	return nil
}

func (s *Service) now() time.Time {
	return s.nowFn()
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{
		timestampLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unparsable timestamp %q", value)
}

func (s *Service) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.doc.User.Name
}

func (s *Service) SetUserPreference(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.User.Preferences[key] = value

	return s.save()
}

func (s *Service) UserPreference(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.doc.User.Preferences[key]
	return value, ok
}
