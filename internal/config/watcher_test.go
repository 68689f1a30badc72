package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TETEnot/plotweaver/internal/config"
)

func TestWatcherDetectsChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  log_level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	changed := make(chan config.ConfigDiff, 1)
	w, err := config.NewWatcher(path, func(old, new *config.Config) {
		changed <- config.Diff(old, new)
	}, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if got := w.Current().Server.LogLevel; got != config.LogInfo {
		t.Fatalf("initial LogLevel = %q", got)
	}

	// Rewrite with a new mtime so the poll picks it up.
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("server:\n  log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	select {
	case d := <-changed:
		if !d.LogLevelChanged || d.NewLogLevel != config.LogDebug {
			t.Errorf("Diff = %+v", d)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never reported the change")
	}

	if got := w.Current().Server.LogLevel; got != config.LogDebug {
		t.Errorf("Current LogLevel = %q after reload", got)
	}
}

func TestWatcherKeepsOldConfigOnInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  log_level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := config.NewWatcher(path, nil, config.WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("server:\n  log_level: bogus\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	// Give the poller a few cycles; the invalid config must not replace
	// the current one.
	time.Sleep(100 * time.Millisecond)
	if got := w.Current().Server.LogLevel; got != config.LogInfo {
		t.Errorf("Current LogLevel = %q, want info retained", got)
	}
}

func TestWatcherMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := config.NewWatcher(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}
