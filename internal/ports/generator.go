package ports

import "context"

// GenerateInput carries one fully-assembled generation request: the fixed
// system instruction, the user prompt, and the sampling parameters.
type GenerateInput struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// GenerateOutput is the text returned by the provider, plus the model that
// actually produced it.
type GenerateOutput struct {
	Text  string
	Model string
}

// Generator produces a reading via an external text-generation service.
// Implementations make exactly one attempt per call.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error)
}
