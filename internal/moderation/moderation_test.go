package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"codeberg.org/gemiwell/server/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmptyMessage   = "Processing failed. The content may be prohibited."
	testFailureMessage = "An unexpected error occurred while generating advice."
)

type testInput struct {
	Query string `json:"query" validate:"required"`
}

type testOutput struct {
	Advice string  `json:"advice,omitempty"`
	Score  float64 `json:"score,omitempty" validate:"gte=0,lte=1"`
	Error  string  `json:"error,omitempty"`
}

type mockGenerator struct {
	generateFunc func(ctx context.Context, req llm.StructuredRequest) (*llm.StructuredResponse, error)
	calls        int
	lastRequest  llm.StructuredRequest
}

func (m *mockGenerator) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (*llm.StructuredResponse, error) {
	m.calls++
	m.lastRequest = req
	return m.generateFunc(ctx, req)
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

func respondWith(raw string) *mockGenerator {
	return &mockGenerator{
		generateFunc: func(context.Context, llm.StructuredRequest) (*llm.StructuredResponse, error) {
			if raw == "" {
				return &llm.StructuredResponse{FinishReason: "STOP"}, nil
			}
			return &llm.StructuredResponse{Output: json.RawMessage(raw), FinishReason: "STOP"}, nil
		},
	}
}

func testSpec() Spec[testInput, testOutput] {
	return Spec[testInput, testOutput]{
		Name: "advice",
		Render: func(in testInput) (Prompt, error) {
			return Prompt{System: "You are a coach.", Parts: []llm.Part{llm.TextPart("QUERY: " + in.Query)}}, nil
		},
		Schema:         &llm.Schema{Type: llm.TypeObject},
		Primary:        func(o testOutput) string { return o.Advice },
		Populated:      func(o testOutput) bool { return o.Advice != "" },
		DeclaredError:  func(o testOutput) string { return o.Error },
		EmptyMessage:   testEmptyMessage,
		FailureMessage: testFailureMessage,
	}
}

func TestDoSuccess(t *testing.T) {
	gen := respondWith(`{"advice":"Aim for 7 to 9 hours of sleep.","score":0.8}`)
	req := New(gen, testSpec())

	result := req.Do(context.Background(), testInput{Query: "how much sleep?"})

	require.True(t, result.OK())
	assert.Equal(t, testOutput{Advice: "Aim for 7 to 9 hours of sleep.", Score: 0.8}, result.Output())
	assert.Empty(t, result.Message())
	assert.Equal(t, FailureNone, result.Kind())
	assert.Equal(t, SafetyNormal, result.Safety())

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "advice", gen.lastRequest.Name)
	assert.Equal(t, "You are a coach.", gen.lastRequest.SystemPrompt)
	require.Len(t, gen.lastRequest.Parts, 1)
	assert.Equal(t, "QUERY: how much sleep?", gen.lastRequest.Parts[0].Text)
}

func TestDoAlwaysSendsFixedSafetyPolicy(t *testing.T) {
	gen := respondWith(`{"advice":"ok"}`)
	New(gen, testSpec()).Do(context.Background(), testInput{Query: "q"})

	require.Len(t, gen.lastRequest.Safety, 4)

	categories := make([]llm.HarmCategory, 0, 4)
	for _, s := range gen.lastRequest.Safety {
		assert.Equal(t, llm.BlockLowAndAbove, s.Threshold)
		categories = append(categories, s.Category)
	}

	assert.ElementsMatch(t, []llm.HarmCategory{
		llm.HarmCategoryHateSpeech,
		llm.HarmCategoryDangerousContent,
		llm.HarmCategoryHarassment,
		llm.HarmCategorySexuallyExplicit,
	}, categories)
}

func TestDoProviderRefusal(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(context.Context, llm.StructuredRequest) (*llm.StructuredResponse, error) {
			// output present but must be ignored
			return &llm.StructuredResponse{Output: json.RawMessage(`{"advice":"sure"}`), FinishReason: "SAFETY", Blocked: true}, nil
		},
	}

	result := New(gen, testSpec()).Do(context.Background(), testInput{Query: "something unsafe"})

	assert.False(t, result.OK())
	assert.Equal(t, MessageProhibited, result.Message())
	assert.Equal(t, FailureProviderRefusal, result.Kind())
	assert.Equal(t, SafetyRefusedByProvider, result.Safety())
}

func TestDoEmptyOutput(t *testing.T) {
	for name, raw := range map[string]string{
		"absent":        "",
		"null":          "null",
		"empty object":  "{}",
		"empty primary": `{"advice":""}`,
	} {
		t.Run(name, func(t *testing.T) {
			result := New(respondWith(raw), testSpec()).Do(context.Background(), testInput{Query: "q"})

			assert.False(t, result.OK())
			assert.Equal(t, testEmptyMessage, result.Message())
			assert.Equal(t, FailureEmptyOutput, result.Kind())
			assert.Equal(t, SafetyNormal, result.Safety())
		})
	}

	t.Run("nil response", func(t *testing.T) {
		gen := &mockGenerator{generateFunc: func(context.Context, llm.StructuredRequest) (*llm.StructuredResponse, error) {
			return nil, nil
		}}

		result := New(gen, testSpec()).Do(context.Background(), testInput{Query: "q"})
		assert.Equal(t, testEmptyMessage, result.Message())
	})
}

func TestDoHeuristicOverridesSuccess(t *testing.T) {
	tests := []string{
		"I'm sorry, but I can't help with that.",
		"I’m sorry, but I can’t help with that.",
		"That request would VIOLATE our guidelines.",
		"Sharing that is prohibited.",
	}

	for _, advice := range tests {
		t.Run(advice, func(t *testing.T) {
			raw, _ := json.Marshal(testOutput{Advice: advice})
			result := New(respondWith(string(raw)), testSpec()).Do(context.Background(), testInput{Query: "q"})

			assert.False(t, result.OK())
			assert.Equal(t, MessageProhibited, result.Message())
			assert.Equal(t, FailureHeuristicRefusal, result.Kind())
			assert.Equal(t, SafetyRefusedByHeuristic, result.Safety())
		})
	}
}

func TestDoProviderError(t *testing.T) {
	gen := &mockGenerator{generateFunc: func(context.Context, llm.StructuredRequest) (*llm.StructuredResponse, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}

	result := New(gen, testSpec()).Do(context.Background(), testInput{Query: "q"})

	assert.False(t, result.OK())
	assert.Equal(t, testFailureMessage, result.Message())
	assert.Equal(t, FailureUnexpected, result.Kind())
}

func TestDoRecoversPanic(t *testing.T) {
	gen := &mockGenerator{generateFunc: func(context.Context, llm.StructuredRequest) (*llm.StructuredResponse, error) {
		panic("provider sdk exploded")
	}}

	var result Result[testOutput]
	assert.NotPanics(t, func() {
		result = New(gen, testSpec()).Do(context.Background(), testInput{Query: "q"})
	})

	assert.Equal(t, testFailureMessage, result.Message())
	assert.Equal(t, FailureUnexpected, result.Kind())
}

func TestDoInvalidInputSkipsProvider(t *testing.T) {
	gen := respondWith(`{"advice":"x"}`)

	result := New(gen, testSpec()).Do(context.Background(), testInput{})

	assert.False(t, result.OK())
	assert.Equal(t, FailureInvalidInput, result.Kind())
	assert.Equal(t, testFailureMessage, result.Message())
	assert.Zero(t, gen.calls)
}

func TestDoCheckHookRejects(t *testing.T) {
	gen := respondWith(`{"advice":"x"}`)
	spec := testSpec()
	spec.Check = func(in testInput) error {
		if in.Query == "nope" {
			return errors.New("query rejected")
		}
		return nil
	}

	result := New(gen, spec).Do(context.Background(), testInput{Query: "nope"})

	assert.Equal(t, FailureInvalidInput, result.Kind())
	assert.Zero(t, gen.calls)
}

func TestDoRenderError(t *testing.T) {
	gen := respondWith(`{"advice":"x"}`)
	spec := testSpec()
	spec.Render = func(testInput) (Prompt, error) { return Prompt{}, errors.New("bad attachment") }

	result := New(gen, spec).Do(context.Background(), testInput{Query: "q"})

	assert.Equal(t, FailureUnexpected, result.Kind())
	assert.Equal(t, testFailureMessage, result.Message())
	assert.Zero(t, gen.calls)
}

func TestDoModelDeclaredError(t *testing.T) {
	t.Run("error only", func(t *testing.T) {
		result := New(respondWith(`{"error":"The image is too blurry to read."}`), testSpec()).
			Do(context.Background(), testInput{Query: "q"})

		assert.False(t, result.OK())
		assert.Equal(t, "The image is too blurry to read.", result.Message())
		assert.Equal(t, FailureModelDeclared, result.Kind())
	})

	t.Run("error wins over success fields", func(t *testing.T) {
		result := New(respondWith(`{"advice":"drink water","error":"partial read"}`), testSpec()).
			Do(context.Background(), testInput{Query: "q"})

		assert.False(t, result.OK())
		assert.Equal(t, "partial read", result.Message())
	})

	t.Run("refusal heuristic beats declared error", func(t *testing.T) {
		result := New(respondWith(`{"advice":"this is prohibited","error":"x"}`), testSpec()).
			Do(context.Background(), testInput{Query: "q"})

		assert.Equal(t, MessageProhibited, result.Message())
	})
}

func TestDoMalformedOutput(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":         "I cannot answer",
		"wrong type":       `{"advice":42}`,
		"fails validation": `{"advice":"fine","score":3}`,
	} {
		t.Run(name, func(t *testing.T) {
			result := New(respondWith(raw), testSpec()).Do(context.Background(), testInput{Query: "q"})

			assert.Equal(t, FailureUnexpected, result.Kind())
			assert.Equal(t, testFailureMessage, result.Message())
		})
	}
}

func TestWithDetector(t *testing.T) {
	base := New(respondWith(`{"advice":"totally fine"}`), testSpec())
	strict := base.WithDetector(func(string) bool { return true })

	assert.True(t, base.Do(context.Background(), testInput{Query: "q"}).OK())
	assert.Equal(t, MessageProhibited, strict.Do(context.Background(), testInput{Query: "q"}).Message())
	assert.Equal(t, "advice", strict.Name())
}

func TestResultMarshalJSON(t *testing.T) {
	ok, err := json.Marshal(Success(testOutput{Advice: "rest"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"advice":"rest"}`, string(ok))

	failed, err := json.Marshal(Failure[testOutput](FailureEmptyOutput, testEmptyMessage))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"`+testEmptyMessage+`"}`, string(failed))

	// never both fields, never neither
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(failed, &decoded))
	assert.Len(t, decoded, 1)
}

func TestFailureZeroOutput(t *testing.T) {
	r := Failure[testOutput](FailureUnexpected, "x")
	assert.Equal(t, testOutput{}, r.Output())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "refused_by_provider", SafetyRefusedByProvider.String())
	assert.Equal(t, "refused_by_heuristic", SafetyRefusedByHeuristic.String())
	assert.Equal(t, "normal", SafetyNormal.String())
	assert.Equal(t, "model_declared", FailureModelDeclared.String())
	assert.Equal(t, "invalid_input", FailureInvalidInput.String())
}
