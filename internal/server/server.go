// Package server assembles the MCP server exposing the building
// knowledge graph tools over stdio.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gronnbygg/energykg/internal/config"
	"github.com/gronnbygg/energykg/internal/database"
	"github.com/gronnbygg/energykg/internal/pipeline"
)

const serverName = "energykg"

// Version is overridable at build time with -ldflags.
var Version = "dev"

// EnergyKGServer wraps the MCP server together with the services the
// tool handlers depend on.
type EnergyKGServer struct {
	MCPServer *server.MCPServer
	config    *config.Config
	dbService database.Service
	pipeline  *pipeline.Pipeline
}

// New builds the server and registers all tools.
func New(cfg *config.Config, dbService database.Service, pipe *pipeline.Pipeline) *EnergyKGServer {
	s := &EnergyKGServer{
		MCPServer: server.NewMCPServer(serverName, Version, server.WithToolCapabilities(true)),
		config:    cfg,
		dbService: dbService,
		pipeline:  pipe,
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving MCP requests on stdin/stdout.
func (s *EnergyKGServer) ServeStdio() error {
	return server.ServeStdio(s.MCPServer)
}
