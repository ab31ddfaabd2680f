// Package database wraps the Neo4j driver behind a small read-only service
// used by the pipeline and the MCP tools.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrNotConnected wraps connectivity failures so callers can distinguish an
// unreachable database from a failing query.
var ErrNotConnected = errors.New("not connected to neo4j")

// Service is the database surface the rest of the application sees.
//
//go:generate mockgen -source=service.go -destination=mocks/mock_database.go -package=mocks
type Service interface {
	// ExecuteReadQuery runs a Cypher read query with parameters and returns
	// the raw driver records.
	ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error)
	// GetDatabaseName returns the configured database name.
	GetDatabaseName() string
	// VerifyConnectivity checks that the database is reachable.
	VerifyConnectivity(ctx context.Context) error
	// Close releases the underlying driver.
	Close(ctx context.Context) error
}

// Config holds the connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

type service struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewService connects to Neo4j and verifies connectivity before returning.
func NewService(ctx context.Context, cfg Config, logger *slog.Logger) (Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	logger.Info("connected to neo4j", "uri", cfg.URI, "database", cfg.Database)
	return &service{driver: driver, database: cfg.Database, logger: logger}, nil
}

func (s *service) ExecuteReadQuery(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("execute read query: %w", err)
	}
	s.logger.Debug("read query executed", "records", len(result.Records))
	return result.Records, nil
}

func (s *service) GetDatabaseName() string {
	return s.database
}

func (s *service) VerifyConnectivity(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
