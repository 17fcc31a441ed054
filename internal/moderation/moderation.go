package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"codeberg.org/gemiwell/server/internal/llm"
	"codeberg.org/gemiwell/server/internal/logger"
	"codeberg.org/gemiwell/server/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var outcomeCounter metric.Int64Counter
var outcomeCounterOnce sync.Once

// the one safety policy every request is sent with
func safetyPolicy() []llm.SafetySetting {
	return []llm.SafetySetting{
		{Category: llm.HarmCategoryHateSpeech, Threshold: llm.BlockLowAndAbove},
		{Category: llm.HarmCategoryDangerousContent, Threshold: llm.BlockLowAndAbove},
		{Category: llm.HarmCategoryHarassment, Threshold: llm.BlockLowAndAbove},
		{Category: llm.HarmCategorySexuallyExplicit, Threshold: llm.BlockLowAndAbove},
	}
}

// one stateless instantiation of the moderated generation pattern
type Request[I, O any] struct {
	generator llm.StructuredGenerator
	spec      Spec[I, O]
	detect    RefusalDetector
}

func New[I, O any](generator llm.StructuredGenerator, spec Spec[I, O]) *Request[I, O] {
	outcomeCounterOnce.Do(func() {
		outcomeCounter, _ = telemetry.Meter("codeberg.org/gemiwell/server/moderation").Int64Counter(
			"gemiwell.moderation.outcomes",
			metric.WithDescription("terminal outcomes of moderated generation requests"),
		)
	})

	return &Request[I, O]{
		generator: generator,
		spec:      spec,
		detect:    ContainsRefusalSignature,
	}
}

// returns a copy that uses a different refusal heuristic
func (r *Request[I, O]) WithDetector(detect RefusalDetector) *Request[I, O] {
	clone := *r
	clone.detect = detect
	return &clone
}

func (r *Request[I, O]) Name() string {
	return r.spec.Name
}

// runs one request; never returns an error, every failure becomes the error variant
func (r *Request[I, O]) Do(ctx context.Context, input I) (result Result[O]) {
	log := logger.FromContext(ctx).With("request", r.spec.Name)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("moderated request panicked", "panic", fmt.Sprint(rec))
			result = Failure[O](FailureUnexpected, r.spec.FailureMessage)
		}

		r.record(ctx, result)
	}()

	if err := r.checkInput(input); err != nil {
		log.Debug("rejected invalid input", "error", err)
		return Failure[O](FailureInvalidInput, r.spec.FailureMessage)
	}

	prompt, err := r.spec.Render(input)
	if err != nil {
		log.Warn("failed to render prompt", "error", err)
		return Failure[O](FailureUnexpected, r.spec.FailureMessage)
	}

	resp, err := r.generator.GenerateStructured(ctx, llm.StructuredRequest{
		Name:         r.spec.Name,
		SystemPrompt: prompt.System,
		Parts:        prompt.Parts,
		Schema:       r.spec.Schema,
		Safety:       safetyPolicy(),
		MaxTokens:    r.spec.MaxTokens,
	})
	if err != nil {
		log.Error("generation failed", "error", err)
		return Failure[O](FailureUnexpected, r.spec.FailureMessage)
	}

	if resp.Refused() {
		log.Warn("provider refused content",
			"finish_reason", resp.FinishReason,
			"block_reason", resp.BlockReason,
		)
		return Failure[O](FailureProviderRefusal, MessageProhibited)
	}

	if resp == nil {
		log.Warn("provider returned no response")
		return Failure[O](FailureEmptyOutput, r.spec.EmptyMessage)
	}

	if isEmptyOutput(resp.Output) {
		log.Warn("provider returned no output", "finish_reason", resp.FinishReason)
		return Failure[O](FailureEmptyOutput, r.spec.EmptyMessage)
	}

	var output O
	if err := json.Unmarshal(resp.Output, &output); err != nil {
		log.Error("failed to decode structured output", "error", err)
		return Failure[O](FailureUnexpected, r.spec.FailureMessage)
	}

	if err := Validate(output); err != nil {
		log.Error("structured output failed validation", "error", err)
		return Failure[O](FailureUnexpected, r.spec.FailureMessage)
	}

	declared := ""
	if r.spec.DeclaredError != nil {
		declared = r.spec.DeclaredError(output)
	}

	populated := r.spec.Populated == nil || r.spec.Populated(output)
	if !populated && declared == "" {
		return Failure[O](FailureEmptyOutput, r.spec.EmptyMessage)
	}

	if r.spec.Primary != nil && r.detect(r.spec.Primary(output)) {
		log.Warn("refusal signature in model output")
		return Failure[O](FailureHeuristicRefusal, MessageProhibited)
	}

	if declared != "" {
		return Failure[O](FailureModelDeclared, declared)
	}

	return Success(output)
}

func (r *Request[I, O]) checkInput(input I) error {
	if err := Validate(input); err != nil {
		return err
	}

	if r.spec.Check != nil {
		return r.spec.Check(input)
	}

	return nil
}

func (r *Request[I, O]) record(ctx context.Context, result Result[O]) {
	logger.FromContext(ctx).Info("moderated request finished",
		"request", r.spec.Name,
		"ok", result.OK(),
		"kind", result.Kind().String(),
		"safety", result.Safety().String(),
	)

	if outcomeCounter != nil {
		outcomeCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("gemiwell.moderation.request", r.spec.Name),
			attribute.String("gemiwell.moderation.kind", result.Kind().String()),
		))
	}
}

func isEmptyOutput(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}
