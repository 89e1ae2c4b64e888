// Package notify delivers fire-and-forget user notifications.
//
// The editor reports the outcome of each save through a [Notifier]. The CLI
// logs them, the terminal UI shows the most recent one in its status line and
// the HTTP API returns them with the session state.
package notify

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// Level distinguishes successes from failures.
type Level string

const (
	LevelSuccess Level = "success"
	LevelFailure Level = "failure"
)

// Message is one recorded notification.
type Message struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Discard drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Failure(string) {}

// =============================================================================
// Logger
// =============================================================================

// LogNotifier writes successes at info level and failures at error level.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Success(msg string) { n.Logger.Info(msg) }
func (n LogNotifier) Failure(msg string) { n.Logger.Error(msg) }

// =============================================================================
// Recorder
// =============================================================================

// Recorder keeps every message it receives. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Failure(msg string) { r.add(LevelFailure, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{Level: level, Text: msg, At: time.Now()})
}

// Messages returns a copy of all recorded messages, oldest first.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return Message{}, false
	}
	return r.msgs[len(r.msgs)-1], true
}

// Count returns how many messages of the given level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.Level == level {
			n++
		}
	}
	return n
}

// Reset forgets all messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}

// =============================================================================
// Adapters
// =============================================================================

// Func adapts a single function to Notifier.
type Func func(level Level, msg string)

func (f Func) Success(msg string) { f(LevelSuccess, msg) }
func (f Func) Failure(msg string) { f(LevelFailure, msg) }

// Multi fans each message out to every notifier in order. Nil entries are
// skipped.
func Multi(ns ...Notifier) Notifier {
	out := make(multi, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

type multi []Notifier

func (m multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m multi) Failure(msg string) {
	for _, n := range m {
		n.Failure(msg)
	}
}
