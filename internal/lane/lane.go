// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lane provides a single-lane task queue. Tasks run strictly one at
// a time in the order they were scheduled, so a downstream endpoint never
// sees more than one request from this process at once. It limits overlap,
// not rate: a slow task holds up everything queued behind it.
package lane

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Task is a unit of work run on the lane. A returned error is logged and
// otherwise ignored.
type Task func() error

// Lane serializes tasks. The zero value is not usable; create one with New.
// One Lane is created at process start and lives for the whole process;
// nothing about it is persisted, so a restart begins with an empty lane.
type Lane struct {
	name string

	mu   sync.Mutex
	tail <-chan struct{} // closed when the most recently scheduled task finished
}

// New creates an empty lane. name only appears in log output.
func New(name string) *Lane {
	done := make(chan struct{})
	close(done)
	return &Lane{name: name, tail: done}
}

// Schedule queues task behind every previously scheduled task and returns a
// channel that is closed once task has run. The channel is closed whether
// the task succeeded, failed or panicked; failures never stall later tasks.
func (l *Lane) Schedule(task Task) <-chan struct{} {
	done := make(chan struct{})

	l.mu.Lock()
	prev := l.tail
	l.tail = done
	l.mu.Unlock()

	go func() {
		defer close(done)
		<-prev
		l.run(task)
	}()

	return done
}

// Drain blocks until every task scheduled before the call has finished.
func (l *Lane) Drain() {
	l.mu.Lock()
	tail := l.tail
	l.mu.Unlock()
	<-tail
}

// run executes a single task, swallowing its error or panic.
func (l *Lane) run(task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("lane task panicked",
				"lane", l.name,
				"error", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := task(); err != nil {
		slog.Warn("lane task failed", "lane", l.name, "error", err)
	}
}
