package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepRemovesOnlyExpiredFiles(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old.mp3")
	fresh := filepath.Join(dir, "fresh.mp3")

	for _, path := range []string{old, fresh} {
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	stale := time.Now().Add(-10 * time.Minute)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if err := os.Mkdir(filepath.Join(dir, "keep"), 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	s := &Service{dir: dir, maxAge: 5 * time.Minute}
	s.Sweep()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expired file survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep")); err != nil {
		t.Fatalf("directory removed: %v", err)
	}
}

func TestSweepMissingDirIsHarmless(t *testing.T) {
	s := &Service{dir: filepath.Join(t.TempDir(), "gone"), maxAge: time.Minute}
	s.Sweep()
}
