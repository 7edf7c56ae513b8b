package housekeeping

import (
	"os"
	"path/filepath"
	"time"

	"github.com/agropro-ai/agropro/pkg/logging"
)

// Sweeper periodically removes stale artifacts from the data directory:
// persisted index files past their age threshold and orphaned spool files a
// failed process left behind. It runs outside the query path and is
// best-effort: a failed removal is logged and retried next sweep.
type Sweeper struct {
	dataDir     string
	indexMaxAge time.Duration
	spoolMaxAge time.Duration
	interval    time.Duration
	stop        chan struct{}
	done        chan struct{}
	logger      *logging.Logger
}

func NewSweeper(dataDir string, indexMaxAge, spoolMaxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		dataDir:     dataDir,
		indexMaxAge: indexMaxAge,
		spoolMaxAge: spoolMaxAge,
		interval:    interval,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logging.NewLogger("Housekeeping"),
	}
}

func (s *Sweeper) Start() {
	s.logger.Info("Starting sweeper", "interval", s.interval, "indexMaxAge", s.indexMaxAge)
	go s.run()
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			s.logger.Info("Sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) sweep() {
	removed := s.removeOlderThan("vectorstore_*.json", s.indexMaxAge)
	removed += s.removeOlderThan("upload_*", s.spoolMaxAge)
	if removed > 0 {
		s.logger.Info("Swept stale files", "removed", removed)
	}
}

func (s *Sweeper) removeOlderThan(pattern string, maxAge time.Duration) int {
	matches, err := filepath.Glob(filepath.Join(s.dataDir, pattern))
	if err != nil {
		s.logger.Error("Bad sweep pattern", "pattern", pattern, "error", err)
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove stale file", "path", path, "error", err)
			continue
		}
		s.logger.Debug("Removed stale file", "path", path, "age", time.Since(info.ModTime()))
		removed++
	}
	return removed
}
