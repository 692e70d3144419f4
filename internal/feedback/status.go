package feedback

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

const (
	stateDraft = "draft"
	stateSent  = "sent"
	stateRead  = "read"
)

// Status is the delivery state of a feedback record.
type Status string

const (
	StatusDraft Status = stateDraft
	StatusSent  Status = stateSent
	StatusRead  Status = stateRead
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusRead:
		return true
	}
	return false
}

// Lifecycle events.
const (
	EventSubmit = "submit"
	EventOpen   = "open"
)

// TransitionError is returned when an event is not allowed from the current
// status.
type TransitionError struct {
	FeedbackID string
	From       Status
	Event      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("feedback %s: %q not allowed while %s", e.FeedbackID, e.Event, e.From)
}

type lifecycleContext struct {
	FeedbackID string
}

// lifecycle is the draft -> sent -> read machine. A record never goes back.
type lifecycle struct {
	interpreter *statekit.Interpreter[lifecycleContext]
}

func newLifecycle(from Status, feedbackID string) (*lifecycle, error) {
	builder := statekit.NewMachine[lifecycleContext]("feedback-lifecycle").
		WithInitial(statekit.StateID(from)).
		WithContext(lifecycleContext{FeedbackID: feedbackID})

	builder.State(stateDraft).
		On(EventSubmit).Target(stateSent).
		Done()

	builder.State(stateSent).
		On(EventOpen).Target(stateRead).
		Done()

	// opening an already read record changes nothing
	builder.State(stateRead).
		On(EventOpen).Target(stateRead).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build lifecycle: %w", err)
	}
	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &lifecycle{interpreter: interpreter}, nil
}

func (l *lifecycle) current() Status {
	return Status(l.interpreter.State().Value)
}

// transition fires event on a record currently in from and returns the new
// status.
func transition(feedbackID string, from Status, event string) (Status, error) {
	if !from.Valid() {
		return from, fmt.Errorf("feedback %s: unknown status %q", feedbackID, from)
	}
	if from == StatusRead && event == EventOpen {
		return StatusRead, nil
	}
	l, err := newLifecycle(from, feedbackID)
	if err != nil {
		return from, err
	}
	l.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	to := l.current()
	if to == from {
		return from, &TransitionError{FeedbackID: feedbackID, From: from, Event: event}
	}
	return to, nil
}
