package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/relgraph/codegraph/pkg/codegraph"
	"github.com/relgraph/codegraph/pkg/indexer"
	"github.com/relgraph/codegraph/pkg/mcpgraph"
	"github.com/relgraph/codegraph/pkg/mcplog"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "analyze":
		runAnalyze(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("codegraph %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// analyzeFlags are the flags common to analyze/serve/watch: which project
// to read and how to scope it.
type analyzeFlags struct {
	root     string
	json     bool
	logPath  string
	maxBytes int64
}

func parseAnalyzeFlags(args []string) analyzeFlags {
	f := analyzeFlags{root: "."}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--root":
			if i+1 < len(args) {
				i++
				f.root = args[i]
			}
		case "--json":
			f.json = true
		case "--log":
			if i+1 < len(args) {
				i++
				f.logPath = args[i]
			}
		case "--max-bytes":
			if i+1 < len(args) {
				i++
				fmt.Sscanf(args[i], "%d", &f.maxBytes)
			}
		}
	}
	return f
}

func buildConfig(f analyzeFlags) (codegraph.Config, error) {
	root, err := filepath.Abs(f.root)
	if err != nil {
		return codegraph.Config{}, fmt.Errorf("resolve root path: %w", err)
	}
	return codegraph.Config{RootPath: root, MaxFileSize: f.maxBytes}, nil
}

func runAnalyze(args []string) {
	f := parseAnalyzeFlags(args)
	cfg, err := buildConfig(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	graph, err := codegraph.Analyze(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze failed: %v\n", err)
		os.Exit(1)
	}

	if f.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(graph); err != nil {
			fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printSummary(graph)
}

func printSummary(graph *codegraph.ProjectCodeGraph) {
	fmt.Printf("%s — %d file(s) analyzed\n", graph.Metadata.RootPath, graph.Metadata.FileCount)
	for lang, count := range graph.Metadata.LanguageStats {
		fmt.Printf("  %-10s %d\n", lang, count)
	}
	fmt.Printf("symbols: %d  calls: %d  modules: %d  classes: %d\n",
		len(graph.Symbols), len(graph.Calls), len(graph.Modules), len(graph.Classes))
	for layer, ms := range graph.Metadata.AnalysisTimeMs {
		fmt.Printf("  %-16s %dms\n", layer, ms)
	}
	if len(graph.Errors) > 0 {
		fmt.Printf("%d non-fatal error(s):\n", len(graph.Errors))
		for _, e := range graph.Errors {
			fmt.Printf("  [%s/%s] %s: %s\n", e.Layer, e.Kind, e.File, e.Message)
		}
	}
}

func runServe(args []string) {
	f := parseAnalyzeFlags(args)
	cfg, err := buildConfig(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	graph, err := codegraph.Analyze(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze failed: %v\n", err)
		os.Exit(1)
	}

	var mcpLogger *mcplog.Logger
	if f.logPath != "" {
		mcpLogger, err = mcplog.NewLogger(f.logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open tool-call log: %v\n", err)
			os.Exit(1)
		}
	}

	srv := mcpgraph.NewServer(graph, mcpLogger)
	defer srv.Close()

	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func runWatch(args []string) {
	f := parseAnalyzeFlags(args)
	cfg, err := buildConfig(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	opts := indexer.DefaultWatchOptions()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = codegraph.Watch(ctx, cfg, opts, logger, func(graph *codegraph.ProjectCodeGraph, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
			return
		}
		printSummary(graph)
		fmt.Println(strings.Repeat("-", 40))
	})
	if err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: codegraph <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze    Run the pipeline once and print the resulting code graph")
	fmt.Println("  serve      Run the pipeline once, then expose it over MCP on stdio")
	fmt.Println("  watch      Run the pipeline, then rebuild on every file change")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Flags (analyze/serve/watch):")
	fmt.Println("  --root PATH        project root to analyze (default: .)")
	fmt.Println("  --json             analyze: print the full graph as JSON")
	fmt.Println("  --log PATH         serve: log every tool call to this JSONL file")
	fmt.Println("  --max-bytes N      skip files larger than N bytes")
}
