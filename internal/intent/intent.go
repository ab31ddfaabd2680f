// Package intent turns a natural-language question into a structured intent.
//
// The primary path delegates to an OpenAI-compatible chat model primed with
// the ontology catalogue. A deterministic rule-based path is always available
// and takes over on any model failure, so extraction never returns an error.
package intent

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/gronnbygg/energykg/internal/ontology"
)

// Extracted is the structured representation of one question. It is created
// once per request and never mutated afterwards.
type Extracted struct {
	Kind            ontology.IntentKind  `json:"intent"`
	Class           ontology.EntityClass `json:"entity,omitempty"`
	Parameters      map[string]string    `json:"parameters"`
	RequestedFields []string             `json:"fields,omitempty"`
	TraversalHint   string               `json:"traversal_hint,omitempty"`
	Confidence      float64              `json:"confidence"`
	Question        string               `json:"question"`
}

// ChatClient is the slice of the go-openai client the extractor needs.
// *openai.Client satisfies it directly; tests substitute fakes.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}
