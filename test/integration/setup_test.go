//go:build integration

package integration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gronnbygg/energykg/internal/database"
	"github.com/gronnbygg/energykg/internal/ontology"
	"github.com/gronnbygg/energykg/internal/pipeline"
)

const (
	neo4jImage    = "neo4j:5.26"
	neo4jPassword = "integrationpw"
)

// seedGraph models a small concert hall with three floors, an HVAC
// system feeding two zones, sensors with timeseries references and an
// electrical meter.
const seedGraph = `
CREATE (b:brick_Building {id: 'building-1', name: 'Operahuset', address: 'Kirsten Flagstads plass 1', area_sqm: 38500, year_built: 2008, energy_class: 'B'})
CREATE (f1:brick_Floor {id: 'floor-1', name: 'Etasje 1', level: 1})
CREATE (f2:brick_Floor {id: 'floor-2', name: 'Etasje 2', level: 2})
CREATE (f3:brick_Floor {id: 'floor-3', name: 'Etasje 3', level: 3})
CREATE (b)-[:brick_hasPart]->(f1), (b)-[:brick_hasPart]->(f2), (b)-[:brick_hasPart]->(f3)
CREATE (z1:brick_HVAC_Zone {id: 'zone-1', name: 'Foyer'})
CREATE (z2:brick_HVAC_Zone {id: 'zone-2', name: 'Hovedsal'})
CREATE (f1)-[:brick_hasPart]->(z1), (f2)-[:brick_hasPart]->(z2)
CREATE (sys:brick_HVAC_System {id: 'system-1', name: 'Ventilasjon'})
CREATE (b)-[:brick_hasPart]->(sys)
CREATE (ahu:brick_Air_Handling_Unit {id: 'ahu-1', name: 'Aggregat 1'})
CREATE (sys)-[:brick_hasMember]->(ahu)
CREATE (ahu)-[:brick_feeds]->(z1), (ahu)-[:brick_feeds]->(z2)
CREATE (s1:brick_Temperature_Sensor {id: 'sensor-1', name: 'Temp Foyer', unit: '°C'})
CREATE (s2:brick_Temperature_Sensor {id: 'sensor-2', name: 'Temp Hovedsal', unit: '°C'})
CREATE (s3:brick_CO2_Sensor {id: 'sensor-3', name: 'CO2 Hovedsal', unit: 'ppm'})
CREATE (z1)-[:brick_hasPoint]->(s1), (z2)-[:brick_hasPoint]->(s2), (z2)-[:brick_hasPoint]->(s3)
CREATE (ts1:brick_Timeseries {id: 'ts-1', external_id: 'ext-1', resolution: 'PT15M'})
CREATE (s1)-[:brick_hasTimeseries]->(ts1)
CREATE (m1:brick_Electrical_Meter {id: 'meter-1', name: 'Hovedmåler', unit: 'kWh'})
CREATE (b)-[:brick_isMeteredBy]->(m1)
`

type testEnv struct {
	container testcontainers.Container
	dbService database.Service
	pipe      *pipeline.Pipeline
}

var (
	sharedEnv     *testEnv
	sharedEnvOnce sync.Once
	sharedEnvErr  error
)

// getEnv returns a shared Neo4j container seeded with the test graph.
// The container is created once and reused across all tests in the run.
func getEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedEnvOnce.Do(func() {
		sharedEnv, sharedEnvErr = setupEnv()
	})
	if sharedEnvErr != nil {
		t.Fatalf("Failed to set up test environment: %v", sharedEnvErr)
	}
	return sharedEnv
}

func setupEnv() (*testEnv, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        neo4jImage,
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "neo4j/" + neo4jPassword,
		},
		WaitingFor: wait.ForLog("Bolt enabled on").
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start neo4j container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "7687")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	uri := fmt.Sprintf("bolt://%s:%s", host, port.Port())

	if err := seed(ctx, uri); err != nil {
		return nil, err
	}

	logger := slog.Default()
	dbService, err := database.NewService(ctx, database.Config{
		URI:      uri,
		Username: "neo4j",
		Password: neo4jPassword,
		Database: "neo4j",
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	ont, err := ontology.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load ontology: %w", err)
	}

	return &testEnv{
		container: container,
		dbService: dbService,
		pipe: pipeline.New(ont, dbService, pipeline.Options{
			QueryTimeout: 30 * time.Second,
			Logger:       logger,
		}),
	}, nil
}

func seed(ctx context.Context, uri string) error {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth("neo4j", neo4jPassword, ""))
	if err != nil {
		return fmt.Errorf("failed to create seed driver: %w", err)
	}
	defer driver.Close(ctx)

	if _, err := neo4j.ExecuteQuery(ctx, driver, seedGraph, nil, neo4j.EagerResultTransformer); err != nil {
		return fmt.Errorf("failed to seed graph: %w", err)
	}
	return nil
}
