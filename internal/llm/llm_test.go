package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/gemiwell/server/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"advice":"rest"}`, `{"advice":"rest"}`},
		{"fenced", "```json\n{\"advice\":\"rest\"}\n```", `{"advice":"rest"}`},
		{"chatter around", "Here you go: {\"a\":1} hope it helps", `{"a":1}`},
		{"not json", "I cannot", "I cannot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(extractJSON(tt.in)))
		})
	}

	assert.Nil(t, extractJSON("   "))
}

func TestFromGeminiResponse(t *testing.T) {
	t.Run("text parts are concatenated", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			ModelVersion: "gemini-2.0-flash-001",
			Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					{Text: `{"advice":`},
					{Text: `"hydrate"}`},
				}},
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     40,
				CandidatesTokenCount: 8,
			},
		}

		out := fromGeminiResponse(resp, "gemini-2.0-flash")
		assert.False(t, out.Refused())
		assert.JSONEq(t, `{"advice":"hydrate"}`, string(out.Output))
		assert.Equal(t, "gemini-2.0-flash-001", out.Model)
		assert.Equal(t, "STOP", out.FinishReason)
		assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 8}, out.Usage)
	})

	t.Run("safety finish reason is a refusal", func(t *testing.T) {
		for _, reason := range []genai.FinishReason{genai.FinishReasonSafety, "PROHIBITED_CONTENT", "SPII"} {
			out := fromGeminiResponse(&genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: reason}},
			}, "m")
			assert.True(t, out.Refused(), reason)
			assert.Nil(t, out.Output)
		}
	})

	t.Run("blocked prompt is a refusal", func(t *testing.T) {
		out := fromGeminiResponse(&genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
		}, "m")
		assert.True(t, out.Refused())
		assert.Equal(t, "SAFETY", out.BlockReason)
	})

	t.Run("no candidates is empty output", func(t *testing.T) {
		out := fromGeminiResponse(&genai.GenerateContentResponse{}, "m")
		assert.False(t, out.Refused())
		assert.Nil(t, out.Output)
	})

	t.Run("nil response", func(t *testing.T) {
		out := fromGeminiResponse(nil, "m")
		assert.Equal(t, "m", out.Model)
		assert.Nil(t, out.Output)
	})
}

func TestToGeminiSchema(t *testing.T) {
	zero, one := 0.0, 1.0
	schema := &Schema{
		Type:     TypeObject,
		Required: []string{"summary"},
		Properties: map[string]*Schema{
			"summary":          {Type: TypeString},
			"confidence_level": {Type: TypeNumber, Minimum: &zero, Maximum: &one},
			"is_medical":       {Type: TypeBoolean},
			"tags":             {Type: TypeArray, Items: &Schema{Type: TypeString}},
		},
	}

	out := toGeminiSchema(schema)
	require.NotNil(t, out)
	assert.Equal(t, genai.TypeObject, out.Type)
	assert.Equal(t, []string{"summary"}, out.Required)
	assert.Equal(t, genai.TypeNumber, out.Properties["confidence_level"].Type)
	assert.Equal(t, &one, out.Properties["confidence_level"].Maximum)
	assert.Equal(t, genai.TypeBoolean, out.Properties["is_medical"].Type)
	assert.Equal(t, genai.TypeString, out.Properties["tags"].Items.Type)
	assert.Nil(t, toGeminiSchema(nil))
}

func TestToGeminiSafetyAndParts(t *testing.T) {
	safety := toGeminiSafety([]SafetySetting{{Category: HarmCategoryHarassment, Threshold: BlockLowAndAbove}})
	require.Len(t, safety, 1)
	assert.Equal(t, genai.HarmCategoryHarassment, safety[0].Category)
	assert.Equal(t, genai.HarmBlockThresholdBlockLowAndAbove, safety[0].Threshold)

	parts := toGeminiParts([]Part{TextPart("hello"), BlobPart("image/jpeg", []byte{0xff, 0xd8})})
	require.Len(t, parts, 2)
	assert.Equal(t, "hello", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
}

func TestAnthropicGenerateStructured(t *testing.T) {
	var captured map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-test",
			"content": [{"type": "text", "text": "` + "```json\\n{\\\"advice\\\":\\\"stay hydrated\\\"}\\n```" + `"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	gen := NewAnthropicGenerator(AnthropicConfig{APIKey: "test-key", Model: "claude-test", BaseURL: server.URL})

	resp, err := gen.GenerateStructured(context.Background(), StructuredRequest{
		Name:         "advice",
		SystemPrompt: "You are a coach.",
		Parts:        []Part{TextPart("how much water?"), BlobPart("image/png", []byte{0x89, 0x50})},
		Schema:       &Schema{Type: TypeObject, Properties: map[string]*Schema{"advice": {Type: TypeString}}},
		Safety:       []SafetySetting{{Category: HarmCategoryHateSpeech, Threshold: BlockLowAndAbove}},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"advice":"stay hydrated"}`, string(resp.Output))
	assert.False(t, resp.Refused())
	assert.Equal(t, Usage{InputTokens: 12, OutputTokens: 7}, resp.Usage)

	system, _ := json.Marshal(captured["system"])
	assert.Contains(t, string(system), "OUTPUT FORMAT")
	assert.Contains(t, string(system), "hate speech")

	messages, _ := json.Marshal(captured["messages"])
	assert.Contains(t, string(messages), `"type":"image"`)
	assert.Contains(t, string(messages), `"media_type":"image/png"`)
}

func TestAnthropicRefusal(t *testing.T) {
	for name, body := range map[string]string{
		"stop reason": `{"id":"m","type":"message","role":"assistant","model":"c","content":[],"stop_reason":"refusal","usage":{"input_tokens":1,"output_tokens":0}}`,
		"marker":      `{"id":"m","type":"message","role":"assistant","model":"c","content":[{"type":"text","text":" REFUSED "}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			gen := NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: server.URL})
			resp, err := gen.GenerateStructured(context.Background(), StructuredRequest{Parts: []Part{TextPart("x")}})
			require.NoError(t, err)
			assert.True(t, resp.Refused())
			assert.Nil(t, resp.Output)
		})
	}
}

func TestAnthropicHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
	}))
	defer server.Close()

	gen := NewAnthropicGenerator(AnthropicConfig{APIKey: "k", BaseURL: server.URL})
	_, err := gen.GenerateStructured(context.Background(), StructuredRequest{Name: "advice", Parts: []Part{TextPart("x")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic generate advice")
}

func TestToAnthropicBlocksRejectsUnknownMIME(t *testing.T) {
	_, err := toAnthropicBlocks([]Part{BlobPart("application/zip", []byte{1})})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GENERATOR_MODEL", "")
	t.Setenv("GENERATOR_MAX_TOKENS", "2048")
	t.Setenv("GENERATOR_TEMPERATURE", "0.2")
	t.Setenv("EMBEDDER_MODEL", "")

	cfg, err := LoadConfig(&config.Config{Provider: "gemini", GeminiKey: "g"})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.GeneratorProvider)
	assert.Equal(t, "g", cfg.GeneratorAPIKey)
	assert.Equal(t, defaultGeminiModel, cfg.GeneratorModel)
	assert.Equal(t, 2048, cfg.GeneratorMaxTokens)
	assert.InDelta(t, 0.2, cfg.GeneratorTemperature, 0.0001)
	assert.Equal(t, defaultEmbedderModel, cfg.EmbedderModel)

	cfg, err = LoadConfig(&config.Config{Provider: "anthropic", AnthropicKey: "a"})
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.GeneratorAPIKey)
	assert.Equal(t, defaultAnthropicModel, cfg.GeneratorModel)

	_, err = LoadConfig(&config.Config{Provider: "anthropic"})
	assert.Error(t, err)

	_, err = LoadConfig(nil)
	assert.Error(t, err)
}

type stubGenerator struct {
	resp *StructuredResponse
	err  error
}

func (s *stubGenerator) GenerateStructured(context.Context, StructuredRequest) (*StructuredResponse, error) {
	return s.resp, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

func TestInstrumentPassesThrough(t *testing.T) {
	want := &StructuredResponse{Output: json.RawMessage(`{}`), Blocked: true}
	gen := Instrument(&stubGenerator{resp: want})

	got, err := gen.GenerateStructured(context.Background(), StructuredRequest{Name: "advice"})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, "stub", gen.Model())

	boom := errors.New("boom")
	_, err = Instrument(&stubGenerator{err: boom}).GenerateStructured(context.Background(), StructuredRequest{})
	assert.ErrorIs(t, err, boom)
}
