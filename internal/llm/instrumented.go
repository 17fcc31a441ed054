package llm

import (
	"context"
	"sync"
	"time"

	"codeberg.org/gemiwell/server/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "codeberg.org/gemiwell/server/llm"

var llmMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	blocked      metric.Int64Counter
	duration     metric.Float64Histogram
}

var llmMetricsOnce sync.Once

func initLLMMetrics() {
	m := telemetry.Meter(instrumentationName)
	llmMetrics.inputTokens, _ = m.Int64Counter("gemiwell.llm.input_tokens",
		metric.WithDescription("prompt tokens consumed"),
		metric.WithUnit("{token}"),
	)
	llmMetrics.outputTokens, _ = m.Int64Counter("gemiwell.llm.output_tokens",
		metric.WithDescription("completion tokens generated"),
		metric.WithUnit("{token}"),
	)
	llmMetrics.blocked, _ = m.Int64Counter("gemiwell.llm.blocked",
		metric.WithDescription("responses stopped by provider content policy"),
	)
	llmMetrics.duration, _ = m.Float64Histogram("gemiwell.llm.request.duration",
		metric.WithDescription("provider request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

// wraps a generator with spans and token metrics
type instrumentedGenerator struct {
	next StructuredGenerator
}

func Instrument(next StructuredGenerator) StructuredGenerator {
	llmMetricsOnce.Do(initLLMMetrics)
	return &instrumentedGenerator{next: next}
}

func (g *instrumentedGenerator) Model() string {
	return g.next.Model()
}

func (g *instrumentedGenerator) GenerateStructured(ctx context.Context, req StructuredRequest) (*StructuredResponse, error) {
	ctx, span := telemetry.Tracer(instrumentationName).Start(ctx, "llm.generate_structured")
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("gemiwell.llm.model", g.next.Model()),
		attribute.String("gemiwell.llm.request", req.Name),
	}
	span.SetAttributes(attrs...)

	start := time.Now()
	resp, err := g.next.GenerateStructured(ctx, req)
	elapsed := float64(time.Since(start).Milliseconds())

	opt := metric.WithAttributes(attrs...)
	if llmMetrics.duration != nil {
		llmMetrics.duration.Record(ctx, elapsed, opt)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if resp != nil {
		span.SetAttributes(
			attribute.String("gemiwell.llm.finish_reason", resp.FinishReason),
			attribute.Bool("gemiwell.llm.blocked", resp.Blocked),
			attribute.Int("gemiwell.llm.input_tokens", resp.Usage.InputTokens),
			attribute.Int("gemiwell.llm.output_tokens", resp.Usage.OutputTokens),
		)

		if llmMetrics.inputTokens != nil {
			llmMetrics.inputTokens.Add(ctx, int64(resp.Usage.InputTokens), opt)
			llmMetrics.outputTokens.Add(ctx, int64(resp.Usage.OutputTokens), opt)
		}

		if resp.Blocked && llmMetrics.blocked != nil {
			llmMetrics.blocked.Add(ctx, 1, opt)
		}
	}

	return resp, nil
}
