package engine

import (
	"log/slog"
	"sync"
)

// Status levels carried by status events.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusError      Status = "error"
	StatusSuccess    Status = "success"
)

// Event is a single notification delivered to the host sink. Type is
// "status" or "message"; Data is StatusData or MessageData accordingly.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StatusData is the payload of a "status" event.
type StatusData struct {
	Status      Status `json:"status"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// MessageData is the payload of a "message" event.
type MessageData struct {
	Content string `json:"content"`
}

// Sink receives notification events. Implementations must not block the
// caller for long; use AsyncSink to decouple slow consumers.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface (blocking variant).
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// SlogSink logs events through slog. It is the default sink wired in main.
type SlogSink struct {
	Log *slog.Logger
}

func (s SlogSink) Emit(e Event) {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	switch data := e.Data.(type) {
	case StatusData:
		if data.Status == StatusError {
			log.Warn("tool status", slog.String("status", string(data.Status)), slog.String("description", data.Description), slog.Bool("done", data.Done))
			return
		}
		log.Info("tool status", slog.String("status", string(data.Status)), slog.String("description", data.Description), slog.Bool("done", data.Done))
	case MessageData:
		log.Info("tool message", slog.String("content", data.Content))
	}
}

// AsyncSink delivers events to the wrapped sink on its own goroutine
// (scheduled-task variant). The queue is bounded; events are dropped when
// it is full — notifications are best-effort by contract.
type AsyncSink struct {
	ch     chan Event
	next   Sink
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewAsyncSink wraps next with a bounded asynchronous delivery queue.
func NewAsyncSink(next Sink, buf int) *AsyncSink {
	if buf <= 0 {
		buf = 64
	}
	s := &AsyncSink{ch: make(chan Event, buf), next: next}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for e := range s.ch {
			s.next.Emit(e)
		}
	}()
	return s
}

// Emit never blocks; events arriving after Close are dropped.
func (s *AsyncSink) Emit(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

// Close drains queued events and stops the delivery goroutine.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Notifier delivers human-readable progress to a caller-supplied sink.
// A nil Notifier, a nil sink, or a disabled toggle all make every method
// a silent no-op — notifying never fails and returns nothing.
//
// Error and Success mark the invocation done; Progress does not. The
// error contract takes a single description string.
type Notifier struct {
	sink    Sink
	enabled bool
}

// NewNotifier builds a notifier for one tool invocation.
func NewNotifier(sink Sink, enabled bool) *Notifier {
	return &Notifier{sink: sink, enabled: enabled}
}

func (n *Notifier) emit(status Status, description string, done bool) {
	if n == nil || n.sink == nil || !n.enabled {
		return
	}
	n.sink.Emit(Event{
		Type: "status",
		Data: StatusData{Status: status, Description: description, Done: done},
	})
}

// Progress reports an in-progress step.
func (n *Notifier) Progress(description string) {
	n.emit(StatusInProgress, description, false)
}

// Error reports a terminal failure.
func (n *Notifier) Error(description string) {
	n.emit(StatusError, description, true)
}

// Success reports successful completion.
func (n *Notifier) Success(description string) {
	n.emit(StatusSuccess, description, true)
}

// Message sends a secondary informational message event.
func (n *Notifier) Message(content string) {
	if n == nil || n.sink == nil || !n.enabled {
		return
	}
	n.sink.Emit(Event{Type: "message", Data: MessageData{Content: content}})
}
