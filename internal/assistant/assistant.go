package assistant

import (
	"context"
	"errors"
	"strings"

	"codeberg.org/gemiwell/server/internal/llm"
	"codeberg.org/gemiwell/server/internal/moderation"
)

const (
	AdviceEmptyMessage      = "Processing failed. The content may be prohibited."
	AdviceFailureMessage    = "An unexpected error occurred while generating advice."
	ReportFailureMessage    = "Analysis failed. Please provide clearer photos."
	ReasoningEmptyMessage   = "Comparison failed. The content may be prohibited."
	ReasoningFailureMessage = "An unexpected error occurred during comparison."
)

var errNothingToAnalyze = errors.New("report_text or documents is required")

// the three moderated generation requests GemiWell exposes
type Assistant struct {
	advice    *moderation.Request[AdviceInput, AdviceOutput]
	report    *moderation.Request[ReportInput, ReportOutput]
	reasoning *moderation.Request[ReasoningInput, ReasoningOutput]
}

func New(generator llm.StructuredGenerator) *Assistant {
	return &Assistant{
		advice: moderation.New(generator, moderation.Spec[AdviceInput, AdviceOutput]{
			Name:   "advice",
			Render: renderAdvice,
			Schema: adviceSchema(),
			Primary: func(o AdviceOutput) string {
				return o.Advice
			},
			Populated: func(o AdviceOutput) bool {
				return strings.TrimSpace(o.Advice) != ""
			},
			DeclaredError: func(o AdviceOutput) string {
				return o.Error
			},
			EmptyMessage:   AdviceEmptyMessage,
			FailureMessage: AdviceFailureMessage,
		}),

		report: moderation.New(generator, moderation.Spec[ReportInput, ReportOutput]{
			Name:   "report",
			Render: renderReport,
			Schema: reportSchema(),
			Check: func(in ReportInput) error {
				if strings.TrimSpace(in.ReportText) == "" && len(in.Documents) == 0 {
					return errNothingToAnalyze
				}
				return nil
			},
			Primary: func(o ReportOutput) string {
				return o.Summary
			},
			Populated: func(o ReportOutput) bool {
				return strings.TrimSpace(o.Summary) != ""
			},
			DeclaredError: func(o ReportOutput) string {
				return o.Error
			},
			EmptyMessage:   ReportFailureMessage,
			FailureMessage: ReportFailureMessage,
			// exhaustive analyses of multi-page reports run long
			MaxTokens: 8192,
		}),

		reasoning: moderation.New(generator, moderation.Spec[ReasoningInput, ReasoningOutput]{
			Name:   "reasoning",
			Render: renderReasoning,
			Schema: reasoningSchema(),
			Primary: func(o ReasoningOutput) string {
				return o.AIReasoning
			},
			Populated: func(o ReasoningOutput) bool {
				return strings.TrimSpace(o.AIReasoning) != "" ||
					strings.TrimSpace(o.Comparison) != "" ||
					strings.TrimSpace(o.Insights) != ""
			},
			DeclaredError: func(o ReasoningOutput) string {
				return o.Error
			},
			EmptyMessage:   ReasoningEmptyMessage,
			FailureMessage: ReasoningFailureMessage,
		}),
	}
}

// personalised lifestyle advice for a health query
func (a *Assistant) Advise(ctx context.Context, in AdviceInput) moderation.Result[AdviceOutput] {
	return a.advice.Do(ctx, in)
}

// summary and structured insights for an uploaded report
func (a *Assistant) AnalyzeReport(ctx context.Context, in ReportInput) moderation.Result[ReportOutput] {
	return a.report.Do(ctx, in)
}

// independent AI reasoning compared against a doctor's
func (a *Assistant) CompareReasoning(ctx context.Context, in ReasoningInput) moderation.Result[ReasoningOutput] {
	return a.reasoning.Do(ctx, in)
}
