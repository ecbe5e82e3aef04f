// Package main runs slicekit as an MCP server, exposing a single "slice"
// tool so that an MCP-capable LLM client can request a budgeted context
// slice directly instead of shelling out to the CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/slicekit/slicekit/internal/backend"
	"github.com/slicekit/slicekit/internal/buildinfo"
	"github.com/slicekit/slicekit/internal/config"
	"github.com/slicekit/slicekit/internal/packager"
	"github.com/slicekit/slicekit/internal/planner"
	"github.com/slicekit/slicekit/internal/selector"
	"github.com/slicekit/slicekit/internal/slicer"
)

// sliceArgs is the input schema for the "slice" tool, inferred by the SDK
// via reflection over these field tags.
type sliceArgs struct {
	Task       string   `json:"task" jsonschema:"natural-language description of the task"`
	Repo       string   `json:"repo" jsonschema:"absolute path to the repository to slice"`
	Budget     int      `json:"budget,omitempty" jsonschema:"token budget for the assembled slice"`
	Intensity  string   `json:"intensity,omitempty" jsonschema:"strategy intensity: lite, standard, deep"`
	Strategies []string `json:"strategies,omitempty" jsonschema:"allow-list of strategy names to run"`
	Include    []string `json:"include,omitempty" jsonschema:"glob patterns a path must match to be eligible"`
	Exclude    []string `json:"exclude,omitempty" jsonschema:"glob patterns that exclude a path"`
	Tree       bool     `json:"tree,omitempty" jsonschema:"include a rendered directory tree"`
	MaxResults int      `json:"maxResults,omitempty" jsonschema:"cap the number of selected candidates"`
	Format     string   `json:"format,omitempty" jsonschema:"output format: xml, markdown, json"`
}

func main() {
	level := config.ResolveLogLevel(false, false)
	config.SetupLogging(level, config.ResolveLogFormat())

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "slicekit",
		Version: buildinfo.Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "slice",
		Description: "Assemble a token-budgeted context slice from a repository for a given task.",
	}, handleSlice)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		slog.Error("mcp server exited with error", "error", err)
		os.Exit(1)
	}
}

func handleSlice(ctx context.Context, req *mcp.CallToolRequest, args sliceArgs) (*mcp.CallToolResult, any, error) {
	absRoot, err := filepath.Abs(args.Repo)
	if err != nil {
		return errorResult(fmt.Sprintf("resolve repo: %v", err)), nil, nil
	}

	budget := args.Budget
	if budget <= 0 {
		budget = 8000
	}
	intensity := slicer.Intensity(args.Intensity)
	if intensity == "" {
		intensity = slicer.IntensityStandard
	}
	format := args.Format
	if format == "" {
		format = "markdown"
	}

	sliceReq := &slicer.SliceRequest{
		Task:         args.Task,
		RepoRoot:     absRoot,
		BudgetTokens: budget,
		Intensity:    intensity,
		Strategies:   args.Strategies,
		IncludeTree:  args.Tree,
		Include:      args.Include,
		Exclude:      args.Exclude,
		MaxResults:   args.MaxResults,
	}

	repo, err := backend.NewFSBackend(absRoot)
	if err != nil {
		return errorResult(fmt.Sprintf("open repository: %v", err)), nil, nil
	}

	plan, err := planner.New().Plan(ctx, sliceReq, repo)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	result := selector.New().Select(plan, sliceReq)

	rendered, err := packager.Render(result, packager.Format(format))
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: rendered}},
	}, nil, nil
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
