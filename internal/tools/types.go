package tools

import (
	"github.com/gronnbygg/energykg/internal/database"
	"github.com/gronnbygg/energykg/internal/pipeline"
)

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	DBService database.Service
	Pipeline  *pipeline.Pipeline
}
