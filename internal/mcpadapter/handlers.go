package mcpadapter

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/sonar-sweep/internal/course"
	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/povarna/sonar-sweep/internal/sweep"
	"github.com/povarna/sonar-sweep/internal/trend"
)

var (
	errNoMeasurements = errors.New("measurements must not be empty")
	errNoInstructions = errors.New("instructions must not be empty")
)

// CountDepthChangesInput is the MCP tool input schema for a sweep.
type CountDepthChangesInput struct {
	Measurements []int `json:"measurements" jsonschema:"ordered depth measurements"`
	Windowed     bool  `json:"windowed,omitempty" jsonschema:"compare sliding three-measurement sums instead of raw depths"`
}

// PlotCourseInput is the MCP tool input schema for course plotting.
type PlotCourseInput struct {
	Instructions []string `json:"instructions" jsonschema:"instructions such as 'forward 5', 'down 3' or 'up 1'"`
}

// DepthChangesOutput is the tool result for count_depth_changes.
type DepthChangesOutput struct {
	ReportID  string         `json:"report_id"`
	Windowed  bool           `json:"windowed"`
	Records   []trend.Record `json:"records"`
	Increased int            `json:"increased"`
	Decreased int            `json:"decreased"`
	Unchanged int            `json:"unchanged"`
}

// NewCountDepthChangesHandler returns a tool handler that uses the given analyzer.
// Pass the returned function to mcp.AddTool.
func NewCountDepthChangesHandler(analyzer *sweep.Analyzer) func(context.Context, *mcp.CallToolRequest, CountDepthChangesInput) (*mcp.CallToolResult, DepthChangesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CountDepthChangesInput) (*mcp.CallToolResult, DepthChangesOutput, error) {
		return CountDepthChanges(ctx, analyzer, req, input)
	}
}

// CountDepthChanges classifies the measurements and returns the report.
func CountDepthChanges(
	ctx context.Context,
	analyzer *sweep.Analyzer,
	req *mcp.CallToolRequest,
	input CountDepthChangesInput,
) (*mcp.CallToolResult, DepthChangesOutput, error) {
	if len(input.Measurements) == 0 {
		return nil, DepthChangesOutput{}, errNoMeasurements
	}

	report := analyzer.Analyze(input.Measurements, input.Windowed)
	return nil, DepthChangesOutput{
		ReportID:  report.ID,
		Windowed:  report.Windowed,
		Records:   report.Records,
		Increased: report.Increased,
		Decreased: report.Decreased,
		Unchanged: report.Unchanged,
	}, nil
}

// NewPlotCourseHandler returns a tool handler for course plotting.
// Pass the returned function to mcp.AddTool.
func NewPlotCourseHandler() func(context.Context, *mcp.CallToolRequest, PlotCourseInput) (*mcp.CallToolResult, models.CourseResult, error) {
	return PlotCourse
}

func PlotCourse(ctx context.Context, req *mcp.CallToolRequest, input PlotCourseInput) (*mcp.CallToolResult, models.CourseResult, error) {
	if len(input.Instructions) == 0 {
		return nil, models.CourseResult{}, errNoInstructions
	}

	instructions, err := course.ParseAll(input.Instructions)
	if err != nil {
		return nil, models.CourseResult{}, err
	}

	return nil, course.Summarize(instructions), nil
}
