package reasoning

import (
	"context"

	"codeberg.org/gemiwell/server/internal/assistant"
	"codeberg.org/gemiwell/server/internal/moderation"
)

type Comparer interface {
	CompareReasoning(ctx context.Context, in assistant.ReasoningInput) moderation.Result[assistant.ReasoningOutput]
}

// Request is the doctor's submission; both fields are required by the comparer
type Request struct {
	PatientData     string `json:"patient_data"`
	DoctorReasoning string `json:"doctor_reasoning"`
}
