package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
)

// SessionManagerConfig wires the collaborators shared by every session.
type SessionManagerConfig struct {
	// SessionKV returns the durable store for one session id. Implementations
	// namespace a shared backend so sessions cannot see each other's record.
	SessionKV func(sessionID string) providers.KeyValueStore
	Accounts  *AccountDirectory
	Doctors   DoctorLookup
	IDs       providers.IDGenerator
	Clock     providers.Clock
	Events    providers.EventBus
	Metrics   *observability.Metrics
	IdleTTL   time.Duration
}

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// SessionManager owns one Store per session id.
type SessionManager struct {
	cfg SessionManagerConfig

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionManager creates a session manager
func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	if cfg.Clock == nil {
		cfg.Clock = providers.SystemClock
	}
	if cfg.IDs == nil {
		cfg.IDs = NewSequenceGenerator(cfg.Clock)
	}
	return &SessionManager{
		cfg:      cfg,
		sessions: make(map[string]*sessionEntry),
	}
}

// NewSessionID returns a fresh random session id
func (m *SessionManager) NewSessionID() string {
	return uuid.New().String()
}

// Store returns the store for sessionID, creating and restoring it on first use.
func (m *SessionManager) Store(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.cfg.Clock.Now()
	if entry, ok := m.sessions[sessionID]; ok {
		entry.lastSeen = now
		return entry.store
	}

	store := NewStore(StoreDeps{
		SessionID: sessionID,
		KV:        m.cfg.SessionKV(sessionID),
		Accounts:  m.cfg.Accounts,
		Doctors:   m.cfg.Doctors,
		IDs:       m.cfg.IDs,
		Clock:     m.cfg.Clock,
		Events:    m.cfg.Events,
		Metrics:   m.cfg.Metrics,
	})
	if err := store.Restore(ctx); err != nil {
		observability.SessionLogger(ctx, sessionID).Warn().Err(err).Msg("could not restore session, starting anonymous")
	}

	m.sessions[sessionID] = &sessionEntry{store: store, lastSeen: now}
	observability.RecordSessionDelta(ctx, m.cfg.Metrics, 1)
	return store
}

// Len returns the number of live stores
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops stores idle for longer than IdleTTL. Durable session records
// are kept, so a returning client is restored as still logged in.
func (m *SessionManager) Sweep(ctx context.Context) int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.cfg.Clock.Now().Add(-m.cfg.IdleTTL)
	evicted := 0
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		observability.RecordSessionDelta(ctx, m.cfg.Metrics, -int64(evicted))
		observability.LoggerFromContext(ctx).Debug().Int("evicted", evicted).Msg("swept idle sessions")
	}
	return evicted
}

// Run sweeps every interval until ctx is done
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}
