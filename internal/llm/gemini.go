package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// finish reasons that mean the model stopped on content policy
var geminiSafetyFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety: true,
	"PROHIBITED_CONTENT":     true,
	"BLOCKLIST":              true,
	"SPII":                   true,
	"IMAGE_SAFETY":           true,
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

type GeminiGenerator struct {
	client *genai.Client
	config GeminiConfig
}

func NewGeminiGenerator(ctx context.Context, config GeminiConfig) (*GeminiGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, config: config}, nil
}

func (g *GeminiGenerator) Model() string {
	return g.config.Model
}

// sends one schema-constrained request and maps the candidate back to a neutral response
func (g *GeminiGenerator) GenerateStructured(ctx context.Context, req StructuredRequest) (*StructuredResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(toGeminiParts(req.Parts), genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, g.buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini generate %s: %w", req.Name, err)
	}

	return fromGeminiResponse(resp, g.config.Model), nil
}

func (g *GeminiGenerator) buildConfig(req StructuredRequest) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	temperature := g.config.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  int32(maxTokens), //nolint:gosec // G115: bounded by config
		SafetySettings:   toGeminiSafety(req.Safety),
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGeminiSchema(req.Schema),
	}

	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	return cfg
}

func toGeminiParts(parts []Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))

	for _, p := range parts {
		if p.IsBlob() {
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}

		out = append(out, genai.NewPartFromText(p.Text))
	}

	return out
}

func toGeminiSafety(settings []SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(settings))

	for _, s := range settings {
		out = append(out, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}

	return out
}

func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
		Items:       toGeminiSchema(s.Items),
	}

	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	case TypeArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}

	return out
}

func fromGeminiResponse(resp *genai.GenerateContentResponse, model string) *StructuredResponse {
	out := &StructuredResponse{Model: model}

	if resp == nil {
		return out
	}

	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}

	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		out.BlockReason = string(resp.PromptFeedback.BlockReason)
		out.Blocked = true
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return out
	}

	candidate := resp.Candidates[0]
	out.FinishReason = string(candidate.FinishReason)

	if geminiSafetyFinishReasons[candidate.FinishReason] {
		out.Blocked = true
	}

	if candidate.Content == nil {
		return out
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	if raw := extractJSON(sb.String()); raw != nil {
		out.Output = raw
	}

	return out
}
