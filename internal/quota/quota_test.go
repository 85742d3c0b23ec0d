package quota

import (
	"testing"
	"time"

	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
)

func init() {
	_ = logger.Init("error", "")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTryConsumeEnforcesDailyCeiling(t *testing.T) {
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	c := NewCounter(&MemoryStore{}, 10, fixedClock(day))

	for i := 0; i < 10; i++ {
		if !c.TryConsume(false) {
			t.Fatalf("TryConsume() = false on call %d, want true", i+1)
		}
	}

	if c.TryConsume(false) {
		t.Error("11th TryConsume() = true, want false")
	}
	if got := c.Remaining(false); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}

	// A denied consume must not mutate state.
	if c.TryConsume(false) {
		t.Error("12th TryConsume() = true, want false")
	}
}

func TestDateRolloverResetsCount(t *testing.T) {
	store := &MemoryStore{}
	day1 := time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC)

	c := NewCounter(store, 10, fixedClock(day1))
	for i := 0; i < 10; i++ {
		c.TryConsume(false)
	}
	if got := c.Remaining(false); got != 0 {
		t.Fatalf("Remaining() = %d before rollover, want 0", got)
	}

	day2 := day1.Add(2 * time.Hour) // Past local midnight.
	c2 := NewCounter(store, 10, fixedClock(day2))
	if got := c2.Remaining(false); got != 10 {
		t.Errorf("Remaining() after rollover = %d, want 10 before any call", got)
	}
	if !c2.TryConsume(false) {
		t.Error("TryConsume() after rollover = false, want true")
	}
}

func TestLoggedInCallersBypassQuota(t *testing.T) {
	c := NewCounter(&MemoryStore{}, 1, nil)

	for i := 0; i < 5; i++ {
		if !c.TryConsume(true) {
			t.Fatal("TryConsume(loggedIn) = false, want true")
		}
	}
	if got := c.Remaining(true); got != unlimitedRemaining {
		t.Errorf("Remaining(loggedIn) = %d, want %d", got, unlimitedRemaining)
	}

	// Logged-in consumption never touches the guest counter.
	if got := c.Remaining(false); got != 1 {
		t.Errorf("guest Remaining() = %d, want 1", got)
	}
}

func TestDefaultLimit(t *testing.T) {
	c := NewCounter(&MemoryStore{}, 0, nil)
	if got := c.Remaining(false); got != DefaultDailyLimit {
		t.Errorf("Remaining() = %d, want %d", got, DefaultDailyLimit)
	}
}
