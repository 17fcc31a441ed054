package moderation

import (
	"encoding/json"
)

// exactly one of output or message is set
type Result[O any] struct {
	output  *O
	message string
	kind    FailureKind
	safety  SafetyOutcome
}

func Success[O any](output O) Result[O] {
	return Result[O]{output: &output}
}

func Failure[O any](kind FailureKind, message string) Result[O] {
	r := Result[O]{kind: kind, message: message}

	switch kind {
	case FailureProviderRefusal:
		r.safety = SafetyRefusedByProvider
	case FailureHeuristicRefusal:
		r.safety = SafetyRefusedByHeuristic
	}

	return r
}

func (r Result[O]) OK() bool {
	return r.output != nil
}

// the success payload; zero value on the error variant
func (r Result[O]) Output() O {
	if r.output == nil {
		var zero O
		return zero
	}

	return *r.output
}

// the user-facing error message; empty on success
func (r Result[O]) Message() string {
	return r.message
}

func (r Result[O]) Kind() FailureKind {
	return r.kind
}

func (r Result[O]) Safety() SafetyOutcome {
	return r.safety
}

// success encodes the output record as-is, failure encodes {"error": message}
func (r Result[O]) MarshalJSON() ([]byte, error) {
	if r.output != nil {
		return json.Marshal(r.output)
	}

	return json.Marshal(struct {
		Error string `json:"error"`
	}{Error: r.message})
}
