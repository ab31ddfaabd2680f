package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gronnbygg/energykg/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, "no", cfg.Pipeline.Locale)
	assert.False(t, cfg.Pipeline.StrictResolver)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.QueryTimeout)
	assert.False(t, cfg.LLM.IsAvailable())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://graph.internal:7687")
	t.Setenv("NEO4J_PASSWORD", "hunter2")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("LOCALE", "en")
	t.Setenv("STRICT_RESOLVER", "true")
	t.Setenv("QUERY_TIMEOUT", "5s")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "neo4j://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, "hunter2", cfg.Neo4j.Password)
	assert.True(t, cfg.LLM.IsAvailable())
	assert.Equal(t, "en", cfg.Pipeline.Locale)
	assert.True(t, cfg.Pipeline.StrictResolver)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.QueryTimeout)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
neo4j:
  uri: neo4j://graph.internal:7687
  database: buildings
pipeline:
  locale: en
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Chdir(dir)
	t.Setenv("NEO4J_DATABASE", "staging")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "neo4j://graph.internal:7687", cfg.Neo4j.URI)
	// Environment overrides the file.
	assert.Equal(t, "staging", cfg.Neo4j.Database)
	assert.Equal(t, "en", cfg.Pipeline.Locale)
	// Defaults still fill fields the file omits.
	assert.Equal(t, 30*time.Second, cfg.Pipeline.QueryTimeout)
}

func TestLoadRejectsUnknownLocale(t *testing.T) {
	t.Setenv("LOCALE", "sv")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCALE")
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("QUERY_TIMEOUT", "0s")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUERY_TIMEOUT")
}
