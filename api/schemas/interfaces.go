// File: api/schemas/interfaces.go
package schemas

import "context"

// ModelTier selects which class of model a request should be routed to. The
// tagging pipeline uses the fast tier for incremental re-description and the
// powerful tier for full-page passes.
type ModelTier string

const (
	TierFast     ModelTier = "fast"
	TierPowerful ModelTier = "powerful"
)

// GenerationOptions provides detailed parameters to control the text generation
// process of the LLM, such as creativity (temperature) and output format.
type GenerationOptions struct {
	Temperature     float64 `json:"temperature"`       // Controls randomness. Lower is more deterministic.
	ForceJSONFormat bool    `json:"force_json_format"` // If true, forces the model to output valid JSON.
	MaxOutputTokens int     `json:"max_output_tokens"` // Hard cap on the completion size. Zero means provider default.
}

// GenerationRequest encapsulates a complete request to the LLM, including the
// system and user prompts, the desired model tier, and generation options.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"` // Instructions for the model's persona and task.
	UserPrompt   string            `json:"user_prompt"`   // The rendered document plus task-specific variables.
	Tier         ModelTier         `json:"tier"`          // The desired model tier (fast or powerful).
	Options      GenerationOptions `json:"options"`       // Advanced generation parameters.
}

// LLMClient defines a standard interface for interacting with a Large Language
// Model, abstracting the specifics of the underlying provider (e.g., Gemini or
// OpenAI). The action tagging pipeline only ever talks to this interface.
type LLMClient interface {
	// Generate produces a text completion based on the provided request.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// Close cleans up any resources held by the client (e.g., network connections, SDK resources).
	Close() error
}
