package moderation

import (
	"codeberg.org/gemiwell/server/internal/llm"
)

// returned whenever the provider or the heuristic flags the content
const MessageProhibited = "Prohibited content detected. This content violates our safety policies and cannot be processed or saved."

// how the safety question was settled for one request; never persisted
type SafetyOutcome int

const (
	SafetyNormal SafetyOutcome = iota
	SafetyRefusedByProvider
	SafetyRefusedByHeuristic
)

func (s SafetyOutcome) String() string {
	switch s {
	case SafetyRefusedByProvider:
		return "refused_by_provider"
	case SafetyRefusedByHeuristic:
		return "refused_by_heuristic"
	default:
		return "normal"
	}
}

// why a request ended in the error variant
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureInvalidInput
	FailureProviderRefusal
	FailureHeuristicRefusal
	FailureEmptyOutput
	FailureModelDeclared
	FailureUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureInvalidInput:
		return "invalid_input"
	case FailureProviderRefusal:
		return "provider_refusal"
	case FailureHeuristicRefusal:
		return "heuristic_refusal"
	case FailureEmptyOutput:
		return "empty_output"
	case FailureModelDeclared:
		return "model_declared"
	default:
		return "unexpected"
	}
}

// rendered, provider-neutral prompt
type Prompt struct {
	System string
	Parts  []llm.Part
}

// everything that differs between instantiations of the request pattern
type Spec[I, O any] struct {
	// short identifier for logs and spans, e.g. "advice"
	Name string

	Render func(I) (Prompt, error)
	Schema *llm.Schema

	// cross-field input rules that struct tags can't express
	Check func(I) error

	// the free-text field the refusal heuristic inspects
	Primary func(O) string
	// reports whether any success field carries content
	Populated func(O) bool
	// the model's own error field, if the schema has one
	DeclaredError func(O) string

	EmptyMessage   string
	FailureMessage string

	MaxTokens int
}

// decides whether text looks like a model refusal
type RefusalDetector func(text string) bool
