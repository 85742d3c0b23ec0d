// Package quota enforces the advisory daily ceiling for anonymous callers.
package quota

import (
	"sync"
	"time"

	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

// DefaultDailyLimit is the guest download ceiling per calendar day.
const DefaultDailyLimit = 10

// unlimitedRemaining is reported to signed-in callers; enforcement for them
// happens nowhere in this layer.
const unlimitedRemaining = 9999

// State is the persisted counter: a calendar date and the number of
// consumptions recorded on that date.
type State struct {
	Date  string
	Count int
}

// Store persists quota state. The in-process server uses MemoryStore; tests
// substitute their own.
type Store interface {
	Load() State
	Save(State)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	state State
}

func (s *MemoryStore) Load() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *MemoryStore) Save(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Counter tracks anonymous usage per calendar date. It is advisory
// throttling, not a security boundary.
type Counter struct {
	mu         sync.Mutex
	store      Store
	dailyLimit int
	now        func() time.Time
}

// NewCounter creates a Counter. dailyLimit <= 0 selects DefaultDailyLimit;
// a nil now func selects time.Now.
func NewCounter(store Store, dailyLimit int, now func() time.Time) *Counter {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Counter{
		store:      store,
		dailyLimit: dailyLimit,
		now:        now,
	}
}

// Remaining reports how many consumptions are left today. Signed-in callers
// always see a large remaining count.
func (c *Counter) Remaining(isLoggedIn bool) int {
	if isLoggedIn {
		return unlimitedRemaining
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.currentState()
	remaining := c.dailyLimit - state.Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TryConsume records one consumption. It returns false without mutating
// state once the daily ceiling is reached. Signed-in callers always succeed.
func (c *Counter) TryConsume(isLoggedIn bool) bool {
	if isLoggedIn {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.currentState()
	if state.Count >= c.dailyLimit {
		logger.Log.Info("Guest quota exhausted",
			zap.String("date", state.Date),
			zap.Int("limit", c.dailyLimit),
		)
		return false
	}

	state.Count++
	c.store.Save(state)
	return true
}

// currentState loads the stored state, resetting the count when the stored
// date is not today. Callers must hold c.mu.
func (c *Counter) currentState() State {
	today := c.now().Format("2006-01-02")
	state := c.store.Load()
	if state.Date != today {
		state = State{Date: today, Count: 0}
		c.store.Save(state)
	}
	return state
}
