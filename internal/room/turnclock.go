package room

import (
	"time"

	"github.com/coder/quartz"
)

// Timer is the handle of a scheduled room callback. A fired callback is only
// honoured while its handle is still the clock's current one.
type Timer struct {
	qt *quartz.Timer
}

// turnClock holds at most one pending timer. All methods are called with the
// owning room's lock held.
type turnClock struct {
	clk quartz.Clock
	tag string
	cur *Timer
}

func newTurnClock(clk quartz.Clock, tag string) *turnClock {
	return &turnClock{clk: clk, tag: tag}
}

// arm cancels any pending timer and schedules fire after d. The new handle is
// passed to fire so the callback can check it is still current.
func (c *turnClock) arm(d time.Duration, fire func(*Timer)) *Timer {
	c.cancel()
	t := &Timer{}
	t.qt = c.clk.AfterFunc(d, func() { fire(t) }, "room", c.tag)
	c.cur = t
	return t
}

// cancel stops the pending timer, if any. It is idempotent.
func (c *turnClock) cancel() {
	if c.cur == nil {
		return
	}
	c.cur.qt.Stop()
	c.cur = nil
}

// current returns the live handle, or nil.
func (c *turnClock) current() *Timer {
	return c.cur
}

// claim reports whether t is the live handle and, if so, clears it so the
// callback runs at most once.
func (c *turnClock) claim(t *Timer) bool {
	if t == nil || c.cur != t {
		return false
	}
	c.cur = nil
	return true
}
