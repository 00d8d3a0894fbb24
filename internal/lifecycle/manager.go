package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"triday/internal/actionlog"
	"triday/internal/category"
	"triday/internal/clock"
	"triday/internal/model"
	"triday/internal/snapshot"
	"triday/internal/status"
	"triday/internal/timetrack"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrDeleted      = errors.New("item is deleted")
	ErrNotChecklist = errors.New("item has no completion flag")
	ErrUnknownTab   = errors.New("unknown tab")
	ErrBadCategory  = errors.New("category reference is not a subcategory")
)

// PersistenceError wraps a failed snapshot save. The in-memory state is
// still valid and authoritative for the session; the caller decides
// whether to retry or warn.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persist snapshot: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Store is the opaque persistence collaborator.
type Store interface {
	Save(model.AppState) error
}

// Options wires the manager's collaborators.
type Options struct {
	Clock        clock.Clock
	Store        Store
	Logger       *log.Logger
	Timezone     string
	WeekStartDay int
	// ConcurrentTimers allows timers on several items at once.
	ConcurrentTimers bool
}

// Manager is the sole writer of the AppState snapshot. Every mutation runs
// to completion under one lock: load state, run clock → status → recurrence
// → time tracking as applicable, append exactly one action-log entry, then
// persist.
type Manager struct {
	mu    sync.Mutex
	state model.AppState
	log   *actionlog.MemoryRepo
	cats  *category.Index

	clk     clock.Clock
	store   Store
	logger  *log.Logger
	loc     *time.Location
	weekDay int
	tracker timetrack.Tracker
}

func NewManager(initial model.AppState, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	loc, ok := clock.Location(opts.Timezone)
	if !ok {
		opts.Logger.Printf("invalid timezone %q, using UTC", opts.Timezone)
	}
	if opts.WeekStartDay < 0 || opts.WeekStartDay > 6 {
		opts.WeekStartDay = 0
	}

	lg := actionlog.NewMemoryRepo()
	lg.Seed(initial.Log)

	return &Manager{
		state:   initial,
		log:     lg,
		cats:    category.NewIndex(initial.Categories),
		clk:     opts.Clock,
		store:   opts.Store,
		logger:  opts.Logger,
		loc:     loc,
		weekDay: opts.WeekStartDay,
		tracker: timetrack.Tracker{
			Loc:             loc,
			WeekStartDay:    opts.WeekStartDay,
			AllowConcurrent: opts.ConcurrentTimers,
		},
	}
}

// Snapshot returns a deep copy for read-only consumers (rendering, export,
// suggestion generation). Item statuses and quota periods are brought
// current first so "missed" never depends on a process having been alive
// at the due instant.
func (m *Manager) Snapshot() model.AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshAllLocked(m.clk.Now())
	m.state.Log = m.log.List()
	return m.state.Clone()
}

// Items returns visible (non-archived, non-deleted) items with derived
// status, ordered by sort key.
func (m *Manager) Items() []model.Item {
	snap := m.Snapshot()
	out := []model.Item{}
	for _, it := range snap.Items {
		if it.Visible() {
			out = append(out, it)
		}
	}
	return out
}

// Item returns one item by id with derived status, regardless of archive
// or delete flags.
func (m *Manager) Item(id model.ItemID) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}
	m.refreshLocked(it, m.clk.Now())
	return m.cloneOf(*it), nil
}

// CleanupStats builds the read-only projection for the external AI
// suggestion service.
func (m *Manager) CleanupStats(th actionlog.Thresholds) actionlog.CleanupStats {
	snap := m.Snapshot()
	return actionlog.BuildCleanupStats(snap, m.clk.Now(), th)
}

// Categories returns the two-level category tree.
func (m *Manager) Categories() []model.Category {
	snap := m.Snapshot()
	return snap.Categories
}

// Import merges an external snapshot into the current state and persists.
func (m *Manager) Import(incoming model.AppState, mode snapshot.MergeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown merge mode %q", mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	merged := snapshot.Merge(m.state, incoming, mode)
	m.state = merged
	m.log.Seed(merged.Log)
	m.cats = category.NewIndex(merged.Categories)
	return m.persistLocked()
}

// refreshAllLocked re-derives every item: quota period rollover first, then
// status. Pull-based by design; there is no background tick.
func (m *Manager) refreshAllLocked(now time.Time) {
	for i := range m.state.Items {
		m.refreshLocked(&m.state.Items[i], now)
	}
}

func (m *Manager) refreshLocked(it *model.Item, now time.Time) {
	if it.Tab == model.TabSpendMyTime {
		m.tracker.RolloverIfNeeded(it, now)
	}
	if status.Deriveable(it) {
		status.Refresh(it, now)
	}
}

func (m *Manager) cloneOf(it model.Item) model.Item {
	tmp := model.AppState{Items: []model.Item{it}}
	return tmp.Clone().Items[0]
}

// appendLocked records the one audit entry an operation produces, then
// mirrors the log into the snapshot.
func (m *Manager) appendLocked(it *model.Item, kind model.ActionKind, now time.Time, payload map[string]any) {
	m.log.Append(model.ActionEntry{
		ID:      uuid.NewString(),
		ItemID:  it.ID,
		Tab:     it.Tab,
		Kind:    kind,
		At:      now,
		Payload: payload,
	})
	m.state.Log = m.log.List()
}

// persistLocked saves the snapshot. Failure is surfaced, not swallowed;
// the in-memory state remains the source of truth either way.
func (m *Manager) persistLocked() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(m.state); err != nil {
		m.logger.Printf("snapshot save failed: %v", err)
		return &PersistenceError{Err: err}
	}
	return nil
}

// runningTimersLocked counts items other than id with a running timer.
func (m *Manager) runningTimersLocked(except model.ItemID) int {
	n := 0
	for i := range m.state.Items {
		it := &m.state.Items[i]
		if it.ID == except || it.Time == nil {
			continue
		}
		if it.Time.TimerStartedAt != nil {
			n++
		}
	}
	return n
}

// suffixTitle rebuilds a recurring title from its base and period key, so
// occurrences de-duplicate per period.
func suffixTitle(base, periodKey string) string {
	if base == "" || periodKey == "" {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, periodKey)
}
