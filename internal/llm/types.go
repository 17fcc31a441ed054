package llm

import (
	"context"
	"encoding/json"
)

// represents different LLM providers
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// produces schema-constrained JSON output from a multimodal prompt
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, req StructuredRequest) (*StructuredResponse, error)
	Model() string
}

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// harm categories use the provider-wire spelling so they convert without a lookup table
type HarmCategory string

const (
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
)

type BlockThreshold string

const (
	BlockLowAndAbove    BlockThreshold = "BLOCK_LOW_AND_ABOVE"
	BlockMediumAndAbove BlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	BlockOnlyHigh       BlockThreshold = "BLOCK_ONLY_HIGH"
)

type SafetySetting struct {
	Category  HarmCategory
	Threshold BlockThreshold
}

// one piece of prompt content: either text or an inline blob
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

func (p Part) IsBlob() bool {
	return len(p.Data) > 0
}

type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
)

// provider-neutral subset of JSON schema used to constrain model output
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
}

type StructuredRequest struct {
	Name         string // used for logs and spans
	SystemPrompt string
	Parts        []Part
	Schema       *Schema
	Safety       []SafetySetting
	MaxTokens    int
	Temperature  *float32
}

type StructuredResponse struct {
	// nil when the provider produced no usable text
	Output       json.RawMessage
	FinishReason string
	BlockReason  string
	// true when the provider signalled a content-policy stop
	Blocked bool
	Model   string
	Usage   Usage
}

// reports whether the provider refused on safety grounds
func (r *StructuredResponse) Refused() bool {
	return r != nil && r.Blocked
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// holds configuration for LLM initialization
type Config struct {
	GeneratorProvider    Provider
	GeneratorAPIKey      string
	GeneratorModel       string
	GeneratorMaxTokens   int
	GeneratorTemperature float32

	EmbedderAPIKey string
	EmbedderModel  string
	EmbedderDims   int
}
