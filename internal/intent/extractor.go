package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/gronnbygg/energykg/internal/ontology"
)

const (
	baseConfidence      = 0.5
	entityBonus         = 0.2
	traversalBonus      = 0.15
	intentBonus         = 0.1
	maxRuleConfidence   = 0.85
	defaultLLMConfident = 0.7
)

// Extractor maps questions to Extracted intents. When chat is nil the
// rule-based path is used directly.
type Extractor struct {
	ont          *ontology.Ontology
	chat         ChatClient
	model        string
	systemPrompt string
	logger       *slog.Logger
}

func NewExtractor(ont *ontology.Ontology, chat ChatClient, model string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		ont:          ont,
		chat:         chat,
		model:        model,
		systemPrompt: buildSystemPrompt(ont),
		logger:       logger,
	}
}

// Extract never fails. Model errors, malformed completions and unknown
// classes all degrade to the deterministic rule-based extraction.
func (e *Extractor) Extract(ctx context.Context, question string) *Extracted {
	if e.chat != nil {
		extracted, err := e.extractWithModel(ctx, question)
		if err == nil {
			return extracted
		}
		e.logger.Warn("model extraction failed, using rule-based fallback",
			"error", err, "question", question)
	}
	return e.extractRuleBased(question)
}

// modelIntent is the JSON shape the model is instructed to produce.
type modelIntent struct {
	IntentType      string         `json:"intent_type"`
	EntityClass     string         `json:"entity_class"`
	Parameters      map[string]any `json:"parameters"`
	TraversalHint   string         `json:"traversal_hint"`
	RequestedFields []string       `json:"requested_fields"`
	Confidence      *float64       `json:"confidence"`
}

func (e *Extractor) extractWithModel(ctx context.Context, question string) (*Extracted, error) {
	resp, err := e.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	raw, err := extractJSONObject(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	var mi modelIntent
	if err := json.Unmarshal([]byte(raw), &mi); err != nil {
		return nil, fmt.Errorf("decode model intent: %w", err)
	}

	kind := ontology.IntentKind(mi.IntentType)
	if !validKind(kind) {
		return nil, fmt.Errorf("model returned unknown intent type %q", mi.IntentType)
	}
	params, err := scalarParameters(mi.Parameters)
	if err != nil {
		return nil, err
	}

	extracted := &Extracted{
		Kind:            kind,
		Parameters:      params,
		RequestedFields: mi.RequestedFields,
		TraversalHint:   mi.TraversalHint,
		Confidence:      clamp01(valueOr(mi.Confidence, defaultLLMConfident)),
		Question:        question,
	}
	if class, ok := e.ont.ClassFromString(mi.EntityClass); ok {
		extracted.Class = class
	}
	return extracted, nil
}

// extractRuleBased is the deterministic path. Confidence starts at a base
// and grows with each recognised signal, capped below the model path so the
// two are distinguishable downstream.
func (e *Extractor) extractRuleBased(question string) *Extracted {
	extracted := &Extracted{
		Kind:       e.ont.DetectIntent(question),
		Parameters: extractParameters(question),
		Confidence: baseConfidence,
		Question:   question,
	}

	lower := strings.ToLower(question)
	if class, ok := e.ont.FindEntityByText(lower); ok {
		extracted.Class = class
		extracted.Confidence += entityBonus
	}
	if tr, ok := e.ont.FindTraversalByText(lower); ok {
		extracted.TraversalHint = tr.Name
		extracted.Confidence += traversalBonus
	}
	if extracted.Kind != ontology.IntentUnknown {
		extracted.Confidence += intentBonus
	}
	if extracted.Confidence > maxRuleConfidence {
		extracted.Confidence = maxRuleConfidence
	}
	return extracted
}

func validKind(kind ontology.IntentKind) bool {
	switch kind {
	case ontology.IntentQueryEntity, ontology.IntentQueryList, ontology.IntentQueryTraverse,
		ontology.IntentQueryAggregate, ontology.IntentQueryPath:
		return true
	}
	return false
}

// scalarParameters rejects nested parameter values. The downstream query
// builders only substitute scalars.
func scalarParameters(in map[string]any) (map[string]string, error) {
	params := make(map[string]string, len(in))
	for key, value := range in {
		switch v := value.(type) {
		case string:
			params[key] = v
		case float64:
			params[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			params[key] = fmt.Sprintf("%t", v)
		case nil:
		default:
			return nil, fmt.Errorf("parameter %q is not a scalar", key)
		}
	}
	return params, nil
}

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
