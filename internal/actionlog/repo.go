package actionlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"triday/internal/model"
)

// Recorder appends audit entries. Implementations must be append-only:
// entries are never edited or removed short of a full data clear.
type Recorder interface {
	Append(e model.ActionEntry) model.ActionEntry
	List() []model.ActionEntry
	ListByItem(id model.ItemID) []model.ActionEntry
}

type MemoryRepo struct {
	mu      sync.RWMutex
	entries []model.ActionEntry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: []model.ActionEntry{}}
}

// Seed replaces the backing slice, used when loading a snapshot.
func (r *MemoryRepo) Seed(entries []model.ActionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]model.ActionEntry{}, entries...)
}

func (r *MemoryRepo) Append(e model.ActionEntry) model.ActionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	r.entries = append(r.entries, e)
	return e
}

func (r *MemoryRepo) List() []model.ActionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ActionEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *MemoryRepo) ListByItem(id model.ItemID) []model.ActionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.ActionEntry{}
	for _, e := range r.entries {
		if e.ItemID == id {
			out = append(out, e)
		}
	}
	return out
}
