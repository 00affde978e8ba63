// Package janitor deletes transient synthesized audio files once they
// age out. It runs detached from the request pipeline and is simply
// cancelled at shutdown; an unfinished sweep is harmless.
package janitor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"jaws/app/config"

	"github.com/samber/do"
)

const sweepInterval = time.Minute

type Service struct {
	dir    string
	maxAge time.Duration
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	_ = os.MkdirAll(cfg.Cleanup.AudioDir, 0755)

	return &Service{
		dir:    cfg.Cleanup.AudioDir,
		maxAge: time.Duration(cfg.Cleanup.MaxAgeMinutes) * time.Minute,
	}, nil
}

func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep removes every regular file in the audio directory older than the
// configured age.
func (s *Service) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Warn("Failed to read audio directory", "dir", s.dir, "error", err)
		return
	}

	cutoff := time.Now().Add(-s.maxAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err = os.Remove(path); err != nil {
			slog.Warn("Failed to remove audio file", "path", path, "error", err)
		}
	}
}
