// Package timer provides deferred task schedulers: the real one backed by
// time.AfterFunc and a manual one for tests.
package timer

import (
	"sort"
	"sync"
	"time"
)

// Real schedules tasks on the runtime timer.
type Real struct{}

// AfterFunc runs fn once d has elapsed.
func (Real) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Manual runs tasks only when Advance moves its clock past their deadline.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*task
}

type task struct {
	at  time.Duration
	seq int
	fn  func()
}

// NewManual creates a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc queues fn to run once the clock advanced by d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &task{at: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, pending := range m.tasks {
			if pending == t {
				m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
				return true
			}
		}
		return false
	}
}

// Advance moves the clock forward and runs every task that became due, in deadline
// order. Tasks run without the scheduler lock held, so they may schedule again.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due, rest []*task
	for _, t := range m.tasks {
		if t.at <= m.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	m.tasks = rest
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
