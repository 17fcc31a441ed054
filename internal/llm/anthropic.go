package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

// shared HTTP client for Anthropic API calls
var anthropicHTTPClient = &http.Client{
	Timeout: 90 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Anthropic API calls (50 requests/second with burst capacity of 10)
var anthropicRateLimiter = rate.NewLimiter(50, 10)

// the policy prompt asks the model to answer with exactly this on refusal
const anthropicRefusalMarker = "REFUSED"

var harmCategoryNames = map[HarmCategory]string{
	HarmCategoryHateSpeech:       "hate speech",
	HarmCategoryDangerousContent: "dangerous content",
	HarmCategoryHarassment:       "harassment",
	HarmCategorySexuallyExplicit: "sexually explicit content",
}

type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	// empty means the public API
	BaseURL string
}

type AnthropicGenerator struct {
	client anthropic.Client
	config AnthropicConfig
}

func NewAnthropicGenerator(config AnthropicConfig) *AnthropicGenerator {
	if config.Model == "" {
		config.Model = defaultAnthropicModel
	}

	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(anthropicHTTPClient),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		config: config,
	}
}

func (a *AnthropicGenerator) Model() string {
	return a.config.Model
}

// anthropic has no schema mode or tunable safety filters, so both are carried in the system prompt
func (a *AnthropicGenerator) GenerateStructured(ctx context.Context, req StructuredRequest) (*StructuredResponse, error) {
	system, err := anthropicSystemPrompt(req)
	if err != nil {
		return nil, err
	}

	blocks, err := toAnthropicBlocks(req.Parts)
	if err != nil {
		return nil, err
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.config.MaxTokens
	}

	temperature := a.config.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.config.Model),
		MaxTokens:   int64(maxTokens),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(float64(temperature)),
	}

	if err := anthropicRateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic generate %s: %w", req.Name, err)
	}

	out := &StructuredResponse{
		Model:        string(message.Model),
		FinishReason: string(message.StopReason),
		Usage: Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
		},
	}

	if out.FinishReason == "refusal" {
		out.Blocked = true
		return out, nil
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == anthropicRefusalMarker {
		out.Blocked = true
		return out, nil
	}

	if raw := extractJSON(text); raw != nil {
		out.Output = raw
	}

	return out, nil
}

func anthropicSystemPrompt(req StructuredRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString(req.SystemPrompt)

	if len(req.Safety) > 0 {
		names := make([]string, 0, len(req.Safety))
		for _, s := range req.Safety {
			if name, ok := harmCategoryNames[s.Category]; ok {
				names = append(names, name)
			}
		}

		sb.WriteString("\n\nCONTENT POLICY:\n")
		sb.WriteString("Refuse any request that involves even a low likelihood of: ")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString(". When refusing, reply with the single word " + anthropicRefusalMarker + " and nothing else.")
	}

	if req.Schema != nil {
		schema, err := json.MarshalIndent(req.Schema, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal output schema: %w", err)
		}

		sb.WriteString("\n\nOUTPUT FORMAT:\n")
		sb.WriteString("Respond with a single JSON object and no other text. It must match this JSON schema:\n")
		sb.Write(schema)
	}

	return sb.String(), nil
}

func toAnthropicBlocks(parts []Part) ([]anthropic.ContentBlockParamUnion, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))

	for _, p := range parts {
		if !p.IsBlob() {
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
			continue
		}

		encoded := base64.StdEncoding.EncodeToString(p.Data)

		switch {
		case p.MIMEType == "application/pdf":
			blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: encoded}))
		case strings.HasPrefix(p.MIMEType, "image/"):
			blocks = append(blocks, anthropic.NewImageBlockBase64(p.MIMEType, encoded))
		default:
			return nil, fmt.Errorf("unsupported attachment type for anthropic: %s", p.MIMEType)
		}
	}

	return blocks, nil
}
