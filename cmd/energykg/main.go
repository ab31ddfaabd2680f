// Command energykg answers natural language questions about a building
// knowledge graph stored in Neo4j. By default it runs as an MCP server
// over stdio; with -q it answers a single question and exits.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gronnbygg/energykg/internal/config"
	"github.com/gronnbygg/energykg/internal/database"
	"github.com/gronnbygg/energykg/internal/ontology"
	"github.com/gronnbygg/energykg/internal/pipeline"
	"github.com/gronnbygg/energykg/internal/respond"
	"github.com/gronnbygg/energykg/internal/server"
)

func main() {
	question := flag.String("q", "", "answer a single question and exit instead of serving MCP")
	explainFlag := flag.Bool("explain", false, "with -q, show the query translation instead of executing it")
	locale := flag.String("locale", "", "response language, no or en (overrides LOCALE)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Stdout carries the MCP protocol, so logs go to stderr.
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*question, *locale, *explainFlag, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(question, locale string, explainOnly bool, logger *slog.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if locale != "" {
		cfg.Pipeline.Locale = locale
	}

	ont, err := ontology.Load()
	if err != nil {
		return fmt.Errorf("failed to load ontology: %w", err)
	}

	var dbService database.Service
	if question == "" || !explainOnly {
		dbService, err = database.NewService(ctx, database.Config{
			URI:      cfg.Neo4j.URI,
			Username: cfg.Neo4j.Username,
			Password: cfg.Neo4j.Password,
			Database: cfg.Neo4j.Database,
		}, logger)
		if err != nil {
			// Questions still get translated; execution will report the
			// connection problem.
			logger.Warn("database unavailable", "uri", cfg.Neo4j.URI, "error", err)
		} else {
			defer dbService.Close(ctx)
		}
	}

	opts := pipeline.Options{
		Locale:         respond.ParseLocale(cfg.Pipeline.Locale),
		StrictResolver: cfg.Pipeline.StrictResolver,
		QueryTimeout:   cfg.Pipeline.QueryTimeout,
		Logger:         logger,
	}
	if cfg.LLM.IsAvailable() {
		clientCfg := openai.DefaultConfig(cfg.LLM.APIKey)
		if cfg.LLM.BaseURL != "" {
			clientCfg.BaseURL = cfg.LLM.BaseURL
		}
		opts.Chat = openai.NewClientWithConfig(clientCfg)
		opts.Model = cfg.LLM.Model
		logger.Info("intent extraction uses LLM", "model", cfg.LLM.Model)
	}

	pipe := pipeline.New(ont, dbService, opts)

	if question != "" {
		return answerOnce(ctx, pipe, question, explainOnly)
	}

	logger.Info("starting MCP server", "version", server.Version)
	return server.New(cfg, dbService, pipe).ServeStdio()
}

func answerOnce(ctx context.Context, pipe *pipeline.Pipeline, question string, explainOnly bool) error {
	if explainOnly {
		result := pipe.Explain(ctx, question)
		out, err := json.MarshalIndent(map[string]any{
			"question": result.Question,
			"intent":   result.Intent,
			"graphql":  result.GraphQL,
			"cypher":   result.Cypher,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	result := pipe.Process(ctx, question)
	fmt.Println(result.Response)
	if !result.Success {
		os.Exit(1)
	}
	return nil
}
