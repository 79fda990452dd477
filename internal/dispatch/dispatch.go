// Package dispatch runs searches and downloads off the caller's goroutine
// and hands their outcomes back over a completion channel.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Kind labels what a task does
type Kind string

const (
	KindSearch   Kind = "search"
	KindDownload Kind = "download"
)

// Func is the work a task performs
type Func func(ctx context.Context) (any, error)

// Completion is delivered exactly once per submitted task
type Completion struct {
	ID       string
	Kind     Kind
	Value    any
	Err      error
	Started  time.Time
	Finished time.Time
}

// Duration reports how long the task ran
func (c Completion) Duration() time.Duration {
	return c.Finished.Sub(c.Started)
}

// Dispatcher starts each task on its own goroutine. Tasks are independent
// and may overlap; once started they run to completion.
type Dispatcher struct {
	ctx         context.Context
	completions chan Completion
	wg          sync.WaitGroup
	log         logrus.FieldLogger

	mu     sync.Mutex
	closed bool
}

// New creates a dispatcher whose tasks receive ctx
func New(ctx context.Context, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		ctx:         ctx,
		completions: make(chan Completion, 16),
		log:         log,
	}
}

// Completions returns the channel outcomes are delivered on. It is closed
// by Close once every task has reported.
func (d *Dispatcher) Completions() <-chan Completion {
	return d.completions
}

// Submit starts fn in the background and returns the task id
func (d *Dispatcher) Submit(kind Kind, fn Func) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", fmt.Errorf("dispatcher is closed")
	}

	id := uuid.NewString()
	d.wg.Add(1)
	go d.run(id, kind, fn)
	return id, nil
}

// Close waits for running tasks and then closes the completion channel.
// The channel must be drained concurrently or have room for the
// outstanding completions.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	close(d.completions)
}

func (d *Dispatcher) run(id string, kind Kind, fn Func) {
	defer d.wg.Done()

	log := d.log.WithFields(logrus.Fields{"task": id, "kind": kind})
	log.Debug("Task started")

	c := Completion{ID: id, Kind: kind, Started: time.Now()}
	c.Value, c.Err = call(d.ctx, fn)
	c.Finished = time.Now()

	log.WithField("duration", c.Duration()).Debug("Task finished")
	d.completions <- c
}

func call(ctx context.Context, fn Func) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx)
}
