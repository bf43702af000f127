// Package sched provides pinned cooperative task scheduling. Each key
// (normally a viewer id) owns a serial FIFO chain, so tasks pinned to the
// same key never race with one another; chains for distinct keys run
// concurrently. A neutral chain exists for work that touches global
// state instead of viewer-local state.
package sched

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const queueDepth = 64

// queue is a single serial task chain.
type queue struct {
	tasks chan func()
}

func newQueue() *queue {
	q := &queue{tasks: make(chan func(), queueDepth)}
	go q.run()
	return q
}

func (q *queue) run() {
	for task := range q.tasks {
		task()
	}
}

// Scheduler multiplexes tasks onto per-key serial chains.
type Scheduler struct {
	// state guards closed against in-flight enqueues: enqueues hold the
	// read side while sending, Shutdown takes the write side before
	// closing any channel.
	state  sync.RWMutex
	closed bool

	mu      sync.Mutex
	queues  map[uuid.UUID]*queue
	neutral *queue
	timers  map[*time.Timer]struct{}
}

// New creates a running scheduler.
func New() *Scheduler {
	return &Scheduler{
		queues:  make(map[uuid.UUID]*queue),
		neutral: newQueue(),
		timers:  make(map[*time.Timer]struct{}),
	}
}

// queueFor returns the chain pinned to key, creating it on first use.
func (s *Scheduler) queueFor(key uuid.UUID) *queue {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[key]
	if !ok {
		q = newQueue()
		s.queues[key] = q
	}
	return q
}

// RunAt schedules task on the chain pinned to key.
func (s *Scheduler) RunAt(key uuid.UUID, task func()) {
	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return
	}
	s.queueFor(key).tasks <- task
}

// RunAfter schedules task on the chain pinned to key after delay.
func (s *Scheduler) RunAfter(key uuid.UUID, delay time.Duration, task func()) {
	s.after(delay, func() { s.RunAt(key, task) })
}

// RunNeutral schedules task on the neutral chain.
func (s *Scheduler) RunNeutral(task func()) {
	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return
	}
	s.neutral.tasks <- task
}

// RunNeutralAfter schedules task on the neutral chain after delay.
func (s *Scheduler) RunNeutralAfter(delay time.Duration, task func()) {
	s.after(delay, func() { s.RunNeutral(task) })
}

func (s *Scheduler) after(delay time.Duration, fire func()) {
	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return
	}
	var t *time.Timer
	s.mu.Lock()
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
		fire()
	})
	s.timers[t] = struct{}{}
	s.mu.Unlock()
}

// Shutdown stops accepting new work and cancels pending timers. Tasks
// already queued on a chain still run.
func (s *Scheduler) Shutdown() {
	s.state.Lock()
	defer s.state.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	s.mu.Lock()
	defer s.mu.Unlock()
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
	for _, q := range s.queues {
		close(q.tasks)
	}
	close(s.neutral.tasks)
}
