// Package event carries host input to the player's control loop.
package event

import (
	"os"
	"os/signal"
	"syscall"
)

// Type identifies an event.
type Type int

const (
	// Quit asks the loop to stop. Code is the process exit status.
	Quit Type = iota + 1
	// Key is a key press. Code is the rune.
	Key
)

func (t Type) String() string {
	switch t {
	case Quit:
		return "quit"
	case Key:
		return "key"
	default:
		return "unknown"
	}
}

// Event is one host input event.
type Event struct {
	Type Type
	Code int
}

// Source is polled by the control loop. Poll must never block.
type Source interface {
	Poll() (Event, bool)
}

// Queue is a Source fed by producers running on other goroutines.
type Queue struct {
	ch chan Event
}

// DefaultQueueSize is the number of events a Queue buffers.
const DefaultQueueSize = 64

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push adds e. Key events are dropped when the queue is full; Quit events
// wait for room.
func (q *Queue) Push(e Event) {
	if e.Type == Quit {
		q.ch <- e
		return
	}
	select {
	case q.ch <- e:
	default:
	}
}

func (q *Queue) Poll() (Event, bool) {
	select {
	case e := <-q.ch:
		return e, true
	default:
		return Event{}, false
	}
}

// NotifySignals pushes a Quit event with the conventional 128+signal exit
// status when SIGINT or SIGTERM arrives. The returned function stops
// forwarding.
func NotifySignals(q *Queue) (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case sig := <-sigs:
				code := 1
				if s, ok := sig.(syscall.Signal); ok {
					code = 128 + int(s)
				}
				q.Push(Event{Type: Quit, Code: code})
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Multi polls each source in order.
type Multi []Source

func (m Multi) Poll() (Event, bool) {
	for _, s := range m {
		if s == nil {
			continue
		}
		if e, ok := s.Poll(); ok {
			return e, true
		}
	}
	return Event{}, false
}
