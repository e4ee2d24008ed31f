package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLogFilePathDefaults(t *testing.T) {
	dir := t.TempDir()

	path, err := resolveLogFilePath(Options{Dir: dir})
	if err != nil {
		t.Fatalf("resolveLogFilePath returned error: %v", err)
	}
	if path != filepath.Join(dir, defaultLogFilename) {
		t.Fatalf("unexpected log path %s", path)
	}
}

func TestNewReleaseWritesToFile(t *testing.T) {
	dir := t.TempDir()

	log := New("release", Options{Dir: dir, Filename: "test.log"})
	log.Info("hello")
	_ = log.Sync()

	info, err := os.Stat(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected log file to contain the entry")
	}
}

func TestZFallsBackWithoutInit(t *testing.T) {
	L = nil
	if Z() == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestNormalizePositiveInt(t *testing.T) {
	if got := normalizePositiveInt(0, 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := normalizePositiveInt(3, 7); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}
