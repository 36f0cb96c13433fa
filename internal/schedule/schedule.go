// Package schedule runs deferred tasks against the game clock. It is polled
// once per frame from the game loop and is not safe for concurrent use.
package schedule

import (
	"container/heap"
	"errors"
	"sort"
	"time"
)

// ErrReentrant is returned by Update when called from a running task.
var ErrReentrant = errors.New("schedule: update called from a running task")

// Task is work that runs once its deadline passes.
type Task interface {
	Run(now time.Duration)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(now time.Duration)

// Run calls f(now).
func (f TaskFunc) Run(now time.Duration) { f(now) }

// Entry is a scheduled task.
type Entry struct {
	Deadline time.Duration
	Seq      uint64
	Task     Task
}

type entries []Entry

func (e entries) Len() int { return len(e) }
func (e entries) Less(i, j int) bool {
	if e[i].Deadline != e[j].Deadline {
		return e[i].Deadline < e[j].Deadline
	}
	return e[i].Seq < e[j].Seq
}
func (e entries) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e *entries) Push(x any)   { *e = append(*e, x.(Entry)) }
func (e *entries) Pop() any {
	old := *e
	n := len(old)
	x := old[n-1]
	old[n-1] = Entry{}
	*e = old[:n-1]
	return x
}

// Scheduler orders tasks by deadline, breaking ties by insertion order.
// There is no cancellation; tasks check their own state when they run.
type Scheduler struct {
	queue   entries
	seq     uint64
	now     time.Duration
	running bool
}

// New creates an empty scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the time of the last Update.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// RunAfter schedules task at d after the last Update.
func (s *Scheduler) RunAfter(task Task, d time.Duration) {
	s.RunAt(task, s.now+d)
}

// RunAt schedules task at an absolute deadline.
func (s *Scheduler) RunAt(task Task, deadline time.Duration) {
	s.seq++
	heap.Push(&s.queue, Entry{Deadline: deadline, Seq: s.seq, Task: task})
}

// Update runs every task due at now in deadline order. Tasks scheduled while
// it runs are left for a later Update, even when already due.
func (s *Scheduler) Update(now time.Duration) (int, error) {
	if s.running {
		return 0, ErrReentrant
	}
	s.running = true
	defer func() { s.running = false }()

	if now > s.now {
		s.now = now
	}

	var due []Entry
	for len(s.queue) > 0 && s.queue[0].Deadline <= now {
		due = append(due, heap.Pop(&s.queue).(Entry))
	}
	for _, e := range due {
		e.Task.Run(now)
	}
	return len(due), nil
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Pending returns the pending tasks in firing order.
func (s *Scheduler) Pending() []Entry {
	out := make([]Entry, len(s.queue))
	copy(out, s.queue)
	sort.Sort(entries(out))
	return out
}
