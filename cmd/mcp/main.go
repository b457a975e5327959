package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/sonar-sweep/internal/database"
	"github.com/povarna/sonar-sweep/internal/mcpadapter"
	"github.com/povarna/sonar-sweep/internal/setup"
	setuplogger "github.com/povarna/sonar-sweep/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serverVersion = "1.0.0"

// tools served over stdio; stdout carries the protocol, logs go to stderr.
var tools = []struct {
	name        string
	description string
}{
	{"count_depth_changes", "Classify each depth measurement as increased, decreased or unchanged against the previous one, optionally over sliding three-measurement sums"},
	{"plot_course", "Apply forward/up/down instructions and report the final horizontal position, depth and their product"},
}

func main() {
	_ = godotenv.Load()

	cfg := setup.LoadConfig()
	// Tool calls are not persisted.
	cfg.Database = database.Config{}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := setuplogger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, cfg.LogLevel)
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "sonar-sweep", Version: serverVersion}, nil)
	mcp.AddTool(server, toolFor("count_depth_changes"), mcpadapter.NewCountDepthChangesHandler(deps.Analyzer))
	mcp.AddTool(server, toolFor("plot_course"), mcpadapter.NewPlotCourseHandler())

	logger.Info().Int("tools", len(tools)).Int("window_width", deps.Analyzer.WindowWidth()).Msg("Serving MCP over stdio")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// stdin closed or the client hung up
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("MCP server failed")
		os.Exit(1)
	}
}

func toolFor(name string) *mcp.Tool {
	for _, t := range tools {
		if t.name == name {
			return &mcp.Tool{Name: t.name, Description: t.description}
		}
	}
	log.Fatal().Str("tool", name).Msg("Unknown tool")
	return nil
}
