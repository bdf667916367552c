package issuenote

import (
	"context"
	"sync"
	"time"

	"outflow/internal/core/apperror"
	"outflow/internal/core/id"
	"outflow/pkg/logger"
)

const (
	defaultSessionTTL   = 2 * time.Hour
	sessionSweepPeriod  = 5 * time.Minute
	maxSessionsPerOwner = 8
)

// SessionManager keeps live draft sessions in memory. Drafts are working
// state, not documents: losing them on restart is acceptable, so no store
// backs them.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[id.ID]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager creates a manager and starts the expiry sweeper.
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	m := &SessionManager{
		sessions: make(map[id.ID]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create opens a new draft for a user. Each user keeps at most a handful of
// concurrent drafts; the oldest is evicted beyond that.
func (m *SessionManager) Create(ctx context.Context, ownerID id.ID) (*Session, error) {
	if id.IsNil(ownerID) {
		return nil, apperror.NewValidation("owner is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var oldest *Session
	owned := 0
	for _, s := range m.sessions {
		if s.OwnerID != ownerID {
			continue
		}
		owned++
		if oldest == nil || s.lastTouched().Before(oldest.lastTouched()) {
			oldest = s
		}
	}
	if owned >= maxSessionsPerOwner && oldest != nil {
		delete(m.sessions, oldest.ID)
		logger.Warn(ctx, "evicted oldest draft session", "session_id", oldest.ID, "owner_id", ownerID)
	}

	s := newSession(ownerID)
	m.sessions[s.ID] = s
	logger.Debug(ctx, "created draft session", "session_id", s.ID, "owner_id", ownerID)
	return s, nil
}

// Get returns a live session, enforcing ownership.
func (m *SessionManager) Get(ctx context.Context, sessionID, ownerID id.ID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, apperror.NewNotFound("draft session", sessionID.String())
	}
	if s.OwnerID != ownerID {
		return nil, apperror.NewForbidden("draft session belongs to another user")
	}
	return s, nil
}

// Delete discards a session. Deleting an absent session is a no-op.
func (m *SessionManager) Delete(sessionID id.ID) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Close stops the expiry sweeper.
func (m *SessionManager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *SessionManager) sweep() {
	ticker := time.NewTicker(sessionSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.ttl)
			m.mu.Lock()
			for sid, s := range m.sessions {
				if s.lastTouched().Before(cutoff) {
					delete(m.sessions, sid)
				}
			}
			m.mu.Unlock()
		}
	}
}
