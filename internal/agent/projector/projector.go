// Package projector classifies a run's event stream into renderable steps.
// It is deterministic and transport-agnostic: the same event sequence always
// produces the same steps, progress values and accumulated content, whether
// the sink renders to a browser over SSE or to a terminal.
package projector

import (
	"context"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/stream"
	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/team"
)

// StepKind classifies a step for rendering. Delegation and success steps
// render expanded, info steps collapsed.
type StepKind string

const (
	StepInfo       StepKind = "info"
	StepDelegation StepKind = "delegation"
	StepSuccess    StepKind = "success"
)

// Step is one renderable entry in the execution step list.
type Step struct {
	Icon    string   `json:"icon"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Kind    StepKind `json:"kind"`
}

// RunState is the mutable state of one run. Owned by a single Consume call;
// steps and content are append-only.
type RunState struct {
	RunID        string
	Steps        []Step
	CurrentAgent string
	Content      string
	Progress     float64
}

// Sink receives projection output as it is produced. Implementations render
// each mutation immediately; Consume calls sink methods from a single
// goroutine in event order.
type Sink interface {
	// Step delivers a newly appended step with its 1-based number.
	Step(number int, step Step)

	// Progress delivers the updated progress value in [0, 1].
	Progress(progress float64)

	// Status delivers a short human-readable status line.
	Status(message string)

	// Content delivers an appended chunk of the final report.
	Content(delta string)
}

// Consume drives a blocking pull over the source, classifying each event
// per the step rules and notifying the sink after each mutation. It returns
// the final run state; a source error aborts the loop and is returned with
// the state accumulated so far.
func Consume(ctx context.Context, src stream.Source, sink Sink) (*RunState, error) {
	state := &RunState{}

	for ev, err := range src.Events(ctx) {
		if err != nil {
			return state, err
		}
		if ev.RunID != "" {
			state.RunID = ev.RunID
		}
		state.apply(ev, sink)
	}

	return state, nil
}

// apply processes one event. Unrecognized kinds are ignored.
func (s *RunState) apply(ev stream.Event, sink Sink) {
	switch ev.Kind {
	case stream.KindRunStarted:
		s.setProgress(0.1, sink)
		sink.Status("🚀 Orchestrator analyzing request")
		s.appendStep(Step{
			Icon:    "🚀",
			Title:   "Orchestrator Started",
			Content: "Analyzing incident and determining workflow",
			Kind:    StepInfo,
		}, sink)

	case stream.KindToolCallStarted:
		// Internal tools are not visible steps.
		if !team.IsDelegation(ev.ToolName) {
			return
		}
		s.CurrentAgent = team.LabelForFunction(ev.ToolName)
		s.appendStep(Step{
			Icon:    "🔄",
			Title:   "Delegating to " + s.CurrentAgent,
			Content: "Task transferred successfully",
			Kind:    StepDelegation,
		}, sink)
		s.setProgress(min(float64(len(s.Steps))/10, 0.9), sink)
		sink.Status("🔄 Delegating to " + s.CurrentAgent)

	case stream.KindToolCallCompleted:
		if ev.Content == "" {
			return
		}
		agentLabel := s.detectAgent(ev)
		s.appendStep(Step{
			Icon:    "✅",
			Title:   agentLabel + " - Completed",
			Content: ev.Content,
			Kind:    StepSuccess,
		}, sink)
		s.setProgress(min(float64(len(s.Steps))/10, 0.95), sink)
		s.CurrentAgent = ""

	case stream.KindRunResponse:
		if ev.Content == "" {
			return
		}
		s.Content += ev.Content
		sink.Content(ev.Content)

	case stream.KindRunCompleted:
		s.setProgress(1.0, sink)
		sink.Status("✨ Workflow completed successfully")
		s.appendStep(Step{
			Icon:    "✨",
			Title:   "Orchestration Completed",
			Content: "All agents finished successfully",
			Kind:    StepSuccess,
		}, sink)
	}
}

// detectAgent resolves the label for a completion step. A structured
// delegation tool name on the event is the strongest signal; content keyword
// scanning comes second, then the agent remembered from the preceding
// delegation, then the generic label.
func (s *RunState) detectAgent(ev stream.Event) string {
	if team.IsDelegation(ev.ToolName) {
		if label := team.LabelForFunction(ev.ToolName); label != team.GenericLabel {
			return label
		}
	}
	if label, ok := team.DetectFromContent(ev.Content); ok {
		return label
	}
	if s.CurrentAgent != "" {
		return s.CurrentAgent
	}
	return team.GenericLabel
}

func (s *RunState) appendStep(step Step, sink Sink) {
	s.Steps = append(s.Steps, step)
	sink.Step(len(s.Steps), step)
}

func (s *RunState) setProgress(p float64, sink Sink) {
	s.Progress = p
	sink.Progress(p)
}
