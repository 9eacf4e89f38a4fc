package queue

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// CallEntry is a single issued number and the counter that serves it.
type CallEntry struct {
	Number  int
	Counter string
}

// String implements fmt.Stringer.
func (e CallEntry) String() string {
	return fmt.Sprintf("%d -> %s", e.Number, e.Counter)
}

// Observer receives every new call.
type Observer interface {
	OnCall(entry CallEntry)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(entry CallEntry)

// OnCall calls f(entry).
func (f ObserverFunc) OnCall(entry CallEntry) {
	f(entry)
}

// Sequencer owns the call sequence. It is not safe for concurrent use: a
// single writer (the UI event loop) drives Advance and Reset.
type Sequencer struct {
	start     int
	current   int
	history   []CallEntry
	observers []Observer
}

// New creates a Sequencer whose first call returns start.
func New(start int) *Sequencer {
	return &Sequencer{
		start:   start,
		current: start - 1,
	}
}

// Advance issues the next number for counter, records it and notifies
// every observer before returning. Counter names are not validated.
func (s *Sequencer) Advance(counter string) CallEntry {
	s.current++
	entry := CallEntry{Number: s.current, Counter: counter}
	s.history = append(s.history, entry)

	for i, o := range s.observers {
		s.notify(i, o, entry)
	}
	return entry
}

// notify delivers entry to one observer. A panicking observer is logged
// and skipped so later observers still see the call.
func (s *Sequencer) notify(i int, o Observer, entry CallEntry) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Observer panicked", "observer", i, "number", entry.Number, "panic", r)
		}
	}()
	o.OnCall(entry)
}

// Current returns the most recent call. ok is false before the first call
// and after Reset.
func (s *Sequencer) Current() (entry CallEntry, ok bool) {
	if len(s.history) == 0 {
		return CallEntry{}, false
	}
	return s.history[len(s.history)-1], true
}

// Recent returns up to n calls issued before the current one, oldest
// first. The current call is never included.
func (s *Sequencer) Recent(n int) []CallEntry {
	if n <= 0 || len(s.history) < 2 {
		return []CallEntry{}
	}
	prev := s.history[:len(s.history)-1]
	if len(prev) > n {
		prev = prev[len(prev)-n:]
	}
	out := make([]CallEntry, len(prev))
	copy(out, prev)
	return out
}

// Reset clears the history and rewinds numbering so that the next call is
// number 1, regardless of the start number. Observers are not notified.
func (s *Sequencer) Reset() {
	s.history = nil
	s.current = 0
}

// Subscribe registers o for every future call. There is no unsubscribe.
func (s *Sequencer) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// History returns a copy of every call since construction or the last
// Reset, in call order.
func (s *Sequencer) History() []CallEntry {
	out := make([]CallEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of calls in the history.
func (s *Sequencer) Len() int { return len(s.history) }

// StartNumber returns the number the Sequencer was created with.
func (s *Sequencer) StartNumber() int { return s.start }

// Next returns the number the next Advance will issue.
func (s *Sequencer) Next() int { return s.current + 1 }
