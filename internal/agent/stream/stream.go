// Package stream defines the run event stream produced by an agent run and
// consumed by the step projector. The event vocabulary is transport-neutral:
// sources adapt whatever the underlying agent runtime emits into these five
// kinds, and consumers never see runtime types.
package stream

import (
	"context"
	"iter"
)

// Event kinds, in the order a well-formed run emits them.
const (
	// KindRunStarted is emitted exactly once, before any other event.
	KindRunStarted = "run_started"

	// KindToolCallStarted marks a tool invocation beginning. For
	// delegations the tool name carries the target member.
	KindToolCallStarted = "tool_call_started"

	// KindToolCallCompleted marks a tool invocation finishing.
	KindToolCallCompleted = "tool_call_completed"

	// KindRunResponse carries intermediate agent text.
	KindRunResponse = "run_response"

	// KindRunCompleted is emitted exactly once, after all other events,
	// carrying the final response text.
	KindRunCompleted = "run_completed"
)

// Event is one item on a run's event stream.
type Event struct {
	// Kind is one of the Kind* constants.
	Kind string

	// RunID identifies the run this event belongs to.
	RunID string

	// ToolName is set for tool_call_started and tool_call_completed.
	ToolName string

	// Agent is the name of the agent that produced the event, when known.
	Agent string

	// Content is the text payload for run_response, run_completed and
	// tool_call_completed events.
	Content string
}

// Usage accumulates token consumption over a run.
type Usage struct {
	InputTokens  int
	OutputTokens int
	Requests     int
}

// Source yields the events of a single run. The sequence ends after
// run_completed or after yielding a non-nil error.
type Source interface {
	Events(ctx context.Context) iter.Seq2[Event, error]
}

// SliceSource replays a fixed slice of events. Used in tests and by the
// demo mode.
type SliceSource struct {
	Items []Event
	Err   error
}

// Events implements Source.
func (s *SliceSource) Events(ctx context.Context) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for _, ev := range s.Items {
			if ctx.Err() != nil {
				yield(Event{}, ctx.Err())
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
		if s.Err != nil {
			yield(Event{}, s.Err)
		}
	}
}
