// Package pipeline wires the query stages together: a natural language
// question is turned into an intent, the intent into a GraphQL query,
// the GraphQL query into Cypher, and the Cypher results into a
// human-readable answer.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gronnbygg/energykg/internal/cypher"
	"github.com/gronnbygg/energykg/internal/database"
	"github.com/gronnbygg/energykg/internal/graphql"
	"github.com/gronnbygg/energykg/internal/intent"
	"github.com/gronnbygg/energykg/internal/ontology"
	"github.com/gronnbygg/energykg/internal/respond"
)

// minConfidence is the threshold below which a question is answered
// with a clarification prompt instead of a graph query.
const minConfidence = 0.3

// Result carries the outcome of a pipeline run together with the
// intermediate artifacts of each stage.
type Result struct {
	RequestID string                  `json:"request_id"`
	Question  string                  `json:"question"`
	Success   bool                    `json:"success"`
	Intent    *intent.Extracted       `json:"intent,omitempty"`
	GraphQL   *graphql.GeneratedQuery `json:"graphql,omitempty"`
	Cypher    *cypher.ResolvedQuery   `json:"cypher,omitempty"`
	Rows      []map[string]any        `json:"rows,omitempty"`
	Response  string                  `json:"response"`
	// Stages lists the stages that ran, in order.
	Stages  []string      `json:"stages,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Options configures optional pipeline behavior.
type Options struct {
	// Chat and Model enable LLM-assisted intent extraction. When Model
	// is empty extraction is rule-based only.
	Chat  intent.ChatClient
	Model string
	// Locale selects the response language.
	Locale respond.Locale
	// StrictResolver makes unresolvable GraphQL queries fail instead
	// of degrading to a node-count fallback.
	StrictResolver bool
	// QueryTimeout bounds a single graph query execution. Zero means
	// no pipeline-imposed deadline.
	QueryTimeout time.Duration
	Logger       *slog.Logger
}

// Pipeline executes natural language questions against the building
// knowledge graph.
type Pipeline struct {
	extractor *intent.Extractor
	generator *graphql.Generator
	resolver  *cypher.Resolver
	formatter *respond.Formatter
	db        database.Service
	timeout   time.Duration
	logger    *slog.Logger
}

// New builds a pipeline over the given ontology and database service.
// The database may be nil, in which case Process reports a connection
// error and Explain still works.
func New(ont *ontology.Ontology, db database.Service, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: intent.NewExtractor(ont, opts.Chat, opts.Model, logger),
		generator: graphql.NewGenerator(ont),
		resolver:  cypher.NewResolver(opts.StrictResolver, logger),
		formatter: respond.NewFormatter(opts.Locale),
		db:        db,
		timeout:   opts.QueryTimeout,
		logger:    logger,
	}
}

// Process runs the full pipeline for a question. It never returns an
// error: failures surface as Success=false with a user-facing Response.
func (p *Pipeline) Process(ctx context.Context, question string) *Result {
	start := time.Now()
	result := &Result{
		RequestID: uuid.NewString(),
		Question:  question,
	}
	logger := p.logger.With("request_id", result.RequestID)
	logger.Info("processing question", "question", question)

	result.Intent = p.extractor.Extract(ctx, question)
	result.Stages = append(result.Stages, "intent")
	logger.Debug("intent extracted",
		"intent", result.Intent.Kind,
		"entity", result.Intent.Class,
		"confidence", result.Intent.Confidence)

	if result.Intent.Confidence < minConfidence {
		logger.Info("confidence below threshold", "confidence", result.Intent.Confidence)
		result.Response = p.formatter.LowConfidence(question)
		result.Elapsed = time.Since(start)
		return result
	}

	result.GraphQL = p.generator.Generate(
		result.Intent.Kind,
		result.Intent.Class,
		result.Intent.Parameters,
		result.Intent.RequestedFields,
	)
	result.Stages = append(result.Stages, "graphql")

	resolved, err := p.resolver.Resolve(result.GraphQL.Query, result.GraphQL.Variables)
	if err != nil {
		logger.Warn("query resolution failed", "error", err)
		result.Response = p.formatter.QueryError(err)
		result.Elapsed = time.Since(start)
		return result
	}
	result.Cypher = resolved
	result.Stages = append(result.Stages, "cypher")

	rows, err := p.execute(ctx, resolved)
	if err != nil {
		logger.Error("query execution failed", "error", err)
		if errors.Is(err, database.ErrNotConnected) {
			result.Response = p.formatter.ConnectionError()
		} else {
			result.Response = p.formatter.QueryError(err)
		}
		result.Elapsed = time.Since(start)
		return result
	}
	result.Rows = rows
	result.Stages = append(result.Stages, "execute")

	result.Response = p.formatter.Format(rows, result.Intent, result.GraphQL)
	result.Stages = append(result.Stages, "format")
	result.Success = true
	result.Elapsed = time.Since(start)
	logger.Info("question answered", "rows", len(rows), "elapsed", result.Elapsed)
	return result
}

// Explain runs the translation stages without touching the database,
// showing how a question would be interpreted and queried.
func (p *Pipeline) Explain(ctx context.Context, question string) *Result {
	start := time.Now()
	result := &Result{
		RequestID: uuid.NewString(),
		Question:  question,
	}

	result.Intent = p.extractor.Extract(ctx, question)
	result.Stages = append(result.Stages, "intent")
	result.GraphQL = p.generator.Generate(
		result.Intent.Kind,
		result.Intent.Class,
		result.Intent.Parameters,
		result.Intent.RequestedFields,
	)
	result.Stages = append(result.Stages, "graphql")
	resolved, err := p.resolver.Resolve(result.GraphQL.Query, result.GraphQL.Variables)
	if err != nil {
		result.Response = p.formatter.QueryError(err)
		result.Elapsed = time.Since(start)
		return result
	}
	result.Cypher = resolved
	result.Stages = append(result.Stages, "cypher")
	result.Success = true
	result.Elapsed = time.Since(start)
	return result
}

func (p *Pipeline) execute(ctx context.Context, resolved *cypher.ResolvedQuery) ([]map[string]any, error) {
	if p.db == nil {
		return nil, database.ErrNotConnected
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	records, err := p.db.ExecuteReadQuery(ctx, resolved.Cypher, resolved.Parameters)
	if err != nil {
		return nil, err
	}
	return database.RecordsToRows(records), nil
}
