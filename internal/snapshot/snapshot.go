package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"triday/internal/model"
)

// Marshal serializes a snapshot. The storage medium is opaque to the core;
// all it requires is that Unmarshal(Marshal(s)) round-trips structurally,
// action-log order included.
func Marshal(s model.AppState) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func Unmarshal(b []byte) (model.AppState, error) {
	var s model.AppState
	if err := json.Unmarshal(b, &s); err != nil {
		return model.AppState{}, err
	}
	normalize(&s)
	return s, nil
}

func normalize(s *model.AppState) {
	if s.Items == nil {
		s.Items = []model.Item{}
	}
	if s.Log == nil {
		s.Log = []model.ActionEntry{}
	}
	if s.Categories == nil {
		s.Categories = []model.Category{}
	}
}

// FileStore persists the snapshot as a single JSON document. Saving after
// every successful mutation is the caller's job; a failed save must be
// surfaced, never swallowed, so the user can retry while the in-memory
// state stays authoritative.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dataDir, "triday.json")}, nil
}

func (fs *FileStore) Path() string { return fs.path }

// Load reads the stored snapshot. A missing file yields an empty state.
func (fs *FileStore) Load() (model.AppState, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	b, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewAppState(), nil
		}
		return model.AppState{}, fmt.Errorf("read snapshot: %w", err)
	}
	s, err := Unmarshal(b)
	if err != nil {
		return model.AppState{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func (fs *FileStore) Save(s model.AppState) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	b, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(fs.path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
