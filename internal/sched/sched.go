// Package sched runs periodic tasks from the host loop. Nothing here starts a
// goroutine: the loop calls Tick and due tasks run on its stack.
package sched

import (
	"slices"
	"time"
)

type task struct {
	name     string
	interval time.Duration
	next     time.Time
	fn       func(now time.Time)
}

// Scheduler holds named periodic tasks in registration order.
type Scheduler struct {
	tasks []*task
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Every registers fn to run once per interval, replacing any task with the
// same name. The first run is one interval after the next Tick.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(now time.Time)) {
	if interval <= 0 || fn == nil {
		return
	}
	t := &task{name: name, interval: interval, fn: fn}
	if i := s.index(name); i >= 0 {
		s.tasks[i] = t
		return
	}
	s.tasks = append(s.tasks, t)
}

// Cancel removes a task.
func (s *Scheduler) Cancel(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

// Has reports whether a task is registered.
func (s *Scheduler) Has(name string) bool { return s.index(name) >= 0 }

func (s *Scheduler) index(name string) int {
	return slices.IndexFunc(s.tasks, func(t *task) bool { return t.name == name })
}

// Tick runs every due task in registration order and returns how many ran. A
// task that fell several intervals behind runs once.
func (s *Scheduler) Tick(now time.Time) int {
	ran := 0
	// Tasks may register or cancel others while running.
	for _, t := range slices.Clone(s.tasks) {
		if s.index(t.name) < 0 {
			continue
		}
		if t.next.IsZero() {
			t.next = now.Add(t.interval)
			continue
		}
		if now.Before(t.next) {
			continue
		}
		t.next = now.Add(t.interval)
		t.fn(now)
		ran++
	}
	return ran
}

// Next returns when the earliest task is due.
func (s *Scheduler) Next() (time.Time, bool) {
	var next time.Time
	for _, t := range s.tasks {
		if t.next.IsZero() {
			continue
		}
		if next.IsZero() || t.next.Before(next) {
			next = t.next
		}
	}
	return next, !next.IsZero()
}
