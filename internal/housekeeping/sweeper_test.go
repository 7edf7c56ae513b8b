package housekeeping

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSweep_RemovesOnlyStaleArtifacts(t *testing.T) {
	dir := t.TempDir()

	staleIndex := touch(t, dir, "vectorstore_old.json", 72*time.Hour)
	freshIndex := touch(t, dir, "vectorstore_new.json", time.Hour)
	staleSpool := touch(t, dir, "upload_abc.pdf", 48*time.Hour)
	freshSpool := touch(t, dir, "upload_def.txt", time.Minute)
	unrelated := touch(t, dir, "notes.txt", 200*time.Hour)

	s := NewSweeper(dir, 48*time.Hour, 24*time.Hour, time.Hour)
	s.sweep()

	for _, path := range []string{staleIndex, staleSpool} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("Stale file %s should have been removed", filepath.Base(path))
		}
	}
	for _, path := range []string{freshIndex, freshSpool, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("File %s should have survived the sweep", filepath.Base(path))
		}
	}
}

func TestSweeper_StartStop(t *testing.T) {
	dir := t.TempDir()
	stale := touch(t, dir, "upload_stale.txt", 48*time.Hour)

	s := NewSweeper(dir, 48*time.Hour, 24*time.Hour, time.Hour)
	s.Start()
	s.Stop()

	// Start runs an immediate sweep before the first tick.
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Initial sweep did not run before Stop")
	}
}
