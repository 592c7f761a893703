// Package session groups page visits into visitor sessions using an
// inactivity window.
package session

import (
	"sort"
	"sync"

	"github.com/alexnews/gunlog/internal/domain"
)

// Tracker assembles visits into sessions per client key. A session ends
// when the gap to the next visit strictly exceeds domain.SessionTimeout;
// a gap of exactly the timeout keeps the session alive.
type Tracker struct {
	mu     sync.Mutex
	active map[domain.ClientKey]*domain.Session
	opened int
}

// SessionChange is emitted when a visit closes or opens a session. Both
// fields are set when an expired session is replaced in one step.
type SessionChange struct {
	Ended   *domain.Session
	Started *domain.Session
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		active: make(map[domain.ClientKey]*domain.Session),
	}
}

// Observe feeds one visit into the tracker and reports any session
// boundary it caused. Visits are expected in log order; a visit that is
// not newer than the previous one never closes the session.
func (t *Tracker) Observe(key domain.ClientKey, visit domain.PageVisit) *SessionChange {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.active[key]
	if !ok {
		started := domain.NewSession(key, visit)
		t.active[key] = started
		t.opened++
		return &SessionChange{Started: started}
	}

	if visit.Timestamp.Sub(current.Last().Timestamp) > domain.SessionTimeout {
		started := domain.NewSession(key, visit)
		t.active[key] = started
		t.opened++
		return &SessionChange{Ended: current, Started: started}
	}

	current.Append(visit)
	return nil
}

// Flush closes every open session and returns them ordered by first
// visit time, then by client key. The tracker is reusable afterwards.
func (t *Tracker) Flush() []*domain.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	remaining := make([]*domain.Session, 0, len(t.active))
	for _, s := range t.active {
		remaining = append(remaining, s)
	}
	sort.Slice(remaining, func(i, j int) bool {
		a, b := remaining[i], remaining[j]
		if !a.First().Timestamp.Equal(b.First().Timestamp) {
			return a.First().Timestamp.Before(b.First().Timestamp)
		}
		return a.Key < b.Key
	})

	t.active = make(map[domain.ClientKey]*domain.Session)
	return remaining
}

// ActiveCount returns the number of open sessions.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Opened returns the total number of sessions started so far.
func (t *Tracker) Opened() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opened
}
