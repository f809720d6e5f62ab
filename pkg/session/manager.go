package session

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
)

// BoardFactory creates a fresh board for a new or restored session.
type BoardFactory func() (ports.Board, error)

// DefaultMaxBoards bounds the boards a Manager keeps in memory.
const DefaultMaxBoards = 1024

// cacheEntry is a live board and the store version it reflects.
type cacheEntry struct {
	id       string
	board    ports.Board
	version  uint64 // guarded by the session lock
	lastUsed time.Time
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns one board per viewer session. Every operation on a session runs
// under that session's lock and is persisted to the store, so a board can be
// restored (re-selected, re-expanded) after a restart or on another replica.
// Unused locks are garbage collected by reference counting.
//
// Live boards are kept in an LRU cache bounded by WithMaxBoards and, optionally,
// an idle timeout. A cached board is only trusted while the stored session still
// carries the version it last saved.
type Manager struct {
	store   ports.SessionStore
	factory BoardFactory

	mu     sync.Mutex            // guards locks, boards and lru
	locks  map[string]*lockEntry // active locks
	boards map[string]*list.Element
	lru    *list.List // of *cacheEntry, most recent first

	maxBoards int
	idleTTL   time.Duration

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives a crashed holder (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithMaxBoards caps how many boards stay in memory (default DefaultMaxBoards).
// Zero or less removes the cap.
func WithMaxBoards(n int) Option {
	return func(m *Manager) {
		m.maxBoards = n
	}
}

// WithIdleTTL drops boards untouched for longer than ttl. Their sessions are
// restored from the store on next use.
func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.idleTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager persisting to store and building boards with factory.
func NewManager(store ports.SessionStore, factory BoardFactory, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		factory:   factory,
		locks:     make(map[string]*lockEntry),
		boards:    make(map[string]*list.Element),
		lru:       list.New(),
		maxBoards: DefaultMaxBoards,
		lockTTL:   30 * time.Second,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Open returns the board of sessionID, creating it, or restoring it from the
// store, on first use.
func (m *Manager) Open(ctx context.Context, sessionID string) (ports.Board, error) {
	var board ports.Board
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		e, err := m.openLocked(ctx, sessionID)
		if err != nil {
			return err
		}
		board = e.board
		return nil
	})
	return board, err
}

// cached returns the live entry of sessionID and marks it as recently used.
// Entries idle for longer than idleTTL are dropped instead.
func (m *Manager) cached(sessionID string) *cacheEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.boards[sessionID]
	if !ok {
		return nil
	}
	e := el.Value.(*cacheEntry)
	now := time.Now()
	if m.idleTTL > 0 && now.Sub(e.lastUsed) > m.idleTTL {
		m.removeLocked(el)
		return nil
	}
	e.lastUsed = now
	m.lru.MoveToFront(el)
	return e
}

// put caches e, evicting idle entries and then the least recently used ones
// beyond maxBoards.
func (m *Manager) put(e *cacheEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.lastUsed = time.Now()
	if el, ok := m.boards[e.id]; ok {
		m.removeLocked(el)
	}
	m.boards[e.id] = m.lru.PushFront(e)

	for el := m.lru.Back(); el != nil && m.idleTTL > 0; el = m.lru.Back() {
		if e.lastUsed.Sub(el.Value.(*cacheEntry).lastUsed) <= m.idleTTL {
			break
		}
		m.removeLocked(el)
	}
	for m.maxBoards > 0 && m.lru.Len() > m.maxBoards {
		old := m.lru.Back()
		m.removeLocked(old)
		m.logger.Debug("Board evicted", "session_id", old.Value.(*cacheEntry).id)
	}
}

// removeLocked must run under m.mu.
func (m *Manager) removeLocked(el *list.Element) {
	m.lru.Remove(el)
	delete(m.boards, el.Value.(*cacheEntry).id)
}

// openLocked must run under the session lock. The cached board is reused only
// while its version matches the stored one; otherwise another holder saved in
// between and the board is rebuilt from the store.
func (m *Manager) openLocked(ctx context.Context, sessionID string) (*cacheEntry, error) {
	saved, err := m.store.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if e := m.cached(sessionID); e != nil {
		if saved != nil && saved.Version == e.version {
			return e, nil
		}
		m.logger.Debug("Cached board is stale, rebuilding", "session_id", sessionID, "cached_version", e.version)
	}

	board, err := m.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	if err := board.InitPage(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize board: %w", err)
	}

	e := &cacheEntry{id: sessionID, board: board}
	if saved == nil {
		snap := board.Snapshot()
		snap.ID = sessionID
		snap.Version = 1
		if err := m.store.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		e.version = snap.Version
	} else {
		m.restore(ctx, sessionID, board, saved)
		e.version = saved.Version
	}

	m.put(e)
	return e, nil
}

// restore replays a saved session onto a fresh board. Failures leave the board
// showing whatever could be restored.
func (m *Manager) restore(ctx context.Context, sessionID string, board ports.Board, saved *domain.Session) {
	if saved.UserID <= 0 {
		return
	}
	if _, err := board.Select(ctx, strconv.Itoa(saved.UserID)); err != nil {
		m.logger.Warn("Failed to restore selection", "session_id", sessionID, "user_id", saved.UserID, "err", err)
		return
	}
	for _, postID := range saved.Expanded {
		res, err := board.Click(ctx, postID)
		if err != nil || !res.Found {
			m.logger.Debug("Expanded post no longer displayed", "session_id", sessionID, "post_id", postID)
		}
	}
	m.logger.Info("Session restored", "session_id", sessionID, "user_id", saved.UserID, "expanded", len(saved.Expanded))
}

// update runs op on the session's board and persists the result. It returns
// what changed, or nil when nothing did.
func (m *Manager) update(ctx context.Context, sessionID string, op func(context.Context, ports.Board) error) (*domain.SessionDiff, error) {
	var diff *domain.SessionDiff
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		e, err := m.openLocked(ctx, sessionID)
		if err != nil {
			return err
		}

		before := e.board.Snapshot()
		before.ID = sessionID
		opErr := op(ctx, e.board)

		after := e.board.Snapshot()
		after.ID = sessionID
		diff = domain.Diff(before, after)
		if diff != nil {
			after.Version = e.version + 1
			if err := m.store.Save(ctx, after); err != nil {
				// The board no longer matches the store.
				m.Evict(sessionID)
				return errors.Join(opErr, fmt.Errorf("failed to save session: %w", err))
			}
			e.version = after.Version
		}
		return opErr
	})
	return diff, err
}

// Select applies a selection to the session's board.
func (m *Manager) Select(ctx context.Context, sessionID, value string) (*domain.SelectionResult, *domain.SessionDiff, error) {
	var res *domain.SelectionResult
	diff, err := m.update(ctx, sessionID, func(ctx context.Context, board ports.Board) error {
		var err error
		res, err = board.Select(ctx, value)
		return err
	})
	return res, diff, err
}

// Toggle clicks the toggle control of postID on the session's board.
func (m *Manager) Toggle(ctx context.Context, sessionID string, postID int) (*domain.ToggleResult, *domain.SessionDiff, error) {
	var res *domain.ToggleResult
	diff, err := m.update(ctx, sessionID, func(ctx context.Context, board ports.Board) error {
		var err error
		res, err = board.Click(ctx, postID)
		return err
	})
	return res, diff, err
}

// Render writes the session's page as HTML.
func (m *Manager) Render(ctx context.Context, sessionID string, w io.Writer) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		e, err := m.openLocked(ctx, sessionID)
		if err != nil {
			return err
		}
		return e.board.Render(w)
	})
}

// Load retrieves the persisted state of a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.store.Load(ctx, sessionID)
}

// Evict drops the in-memory board. The next access restores it from the store.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.boards[sessionID]; ok {
		m.removeLocked(el)
	}
}

// Delete forgets the session everywhere.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.Evict(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Active returns how many boards are held in memory.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
