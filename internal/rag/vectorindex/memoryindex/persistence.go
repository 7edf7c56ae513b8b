package memoryindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agropro-ai/agropro/internal/rag/vectorindex"
)

// schemaVersion guards the on-disk format; bump it on incompatible changes.
const schemaVersion = 1

type indexFile struct {
	Version   int       `json:"version"`
	Dimension int       `json:"dimension"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []entry   `json:"entries"`
}

func (s *Store) indexPath(sessionId string) string {
	return filepath.Join(s.dataDir, "vectorstore_"+sessionId+".json")
}

// save writes the index file atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) save(sessionId string, ix *index) error {
	if err := os.MkdirAll(s.dataDir, 0750); err != nil {
		return err
	}

	dimension := 0
	if len(ix.entries) > 0 {
		dimension = len(ix.entries[0].Vector)
	}
	payload, err := json.Marshal(indexFile{
		Version:   schemaVersion,
		Dimension: dimension,
		Model:     s.model,
		CreatedAt: time.Now(),
		Entries:   ix.entries,
	})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dataDir, "vectorstore_*.tmp")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.indexPath(sessionId))
}

// Load deserializes the session's persisted index if present and validates
// the schema version.
func (s *Store) Load(ctx context.Context, sessionId string) (vectorindex.Index, error) {
	data, err := os.ReadFile(s.indexPath(sessionId))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("corrupt index file for session %s: %w", sessionId, err)
	}
	if file.Version != schemaVersion {
		return nil, fmt.Errorf("index file version %d not supported (want %d)", file.Version, schemaVersion)
	}
	if file.Model != s.model {
		return nil, fmt.Errorf("index built with model %q, store configured for %q", file.Model, s.model)
	}
	return &index{embedder: s.embedder, entries: file.Entries}, nil
}

func (s *Store) Remove(ctx context.Context, sessionId string) error {
	err := os.Remove(s.indexPath(sessionId))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
