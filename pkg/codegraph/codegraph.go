package codegraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/parser/queries"
)

// Analyze runs the full nine-layer pipeline over cfg.RootPath and returns
// the terminal ProjectCodeGraph, per spec.md §3/§5/§6.
//
// Phases, in order:
//  1. discover: walk the tree, apply include/exclude globs, language filter,
//     and max-file-size cutoff, sort for deterministic project-wide folding.
//  2. runFanOut: L1-L3 (scope tree, entity extraction, local type tracking)
//     in parallel across files.
//  3. fold: L5-L9 (module graph, call classification/resolution, type
//     registry, inheritance, symbol table, reference resolution) as
//     single-threaded passes in sorted file order.
//  4. assemble: reshape the internal registries into the public output
//     types and compute Metadata.
//
// ctx cancellation is honored between discovery and fan-out, during
// fan-out (stops submitting new files; already-queued ones still finish),
// and is not re-checked during fold, since fold's passes are fast, in-memory
// folds over already-extracted data rather than further I/O or parsing.
func Analyze(ctx context.Context, cfg Config, logger *slog.Logger) (*ProjectCodeGraph, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RootPath == "" {
		return nil, fmt.Errorf("codegraph: Config.RootPath is required")
	}

	timings := make(map[string]int64)

	files, err := timedDiscover(cfg, logger, timings)
	if err != nil {
		return nil, fmt.Errorf("codegraph: discovery failed: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	pm := parser.NewParserManager(logger)
	defer pm.Close()
	qm := queries.NewQueryManager(pm, logger)
	ext := extractor.NewExtractor(pm, qm, logger)

	perFiles, fanOutErrs := timedFanOut(ctx, files, ext, logger, timings)

	ordered := make([]string, 0, len(perFiles))
	for _, f := range files {
		if _, ok := perFiles[f]; ok {
			ordered = append(ordered, f)
		}
	}

	fr := timedFold(ordered, perFiles, logger, timings)

	modules := buildModuleGraph(ordered, perFiles, fr)
	classes := buildClassHierarchy(fr.typeReg, fr.inheritance)
	calls, resolveErrs := buildCallGraph(ordered, perFiles, fr)
	symbols := buildSymbolIndex(ordered, perFiles, fr.table, calls)

	fileErrsByPath := make(map[string][]FileErrorRecord)
	addFileErr := func(e FileErrorRecord) {
		fileErrsByPath[e.File] = append(fileErrsByPath[e.File], e)
	}
	for _, e := range fanOutErrs {
		addFileErr(e)
	}
	for _, e := range resolveErrs {
		addFileErr(e)
	}

	fileAnalyses := make(map[string]*FileAnalysis, len(ordered))
	langStats := make(map[string]int)
	for _, path := range ordered {
		pf := perFiles[path]
		fa := buildFileAnalysis(path, pf, fr.callsByFile[path], fileErrsByPath[path], fr)
		fileAnalyses[path] = fa
		langStats[pf.result.Language.String()]++
	}

	var allErrs []FileErrorRecord
	allErrs = append(allErrs, fanOutErrs...)
	allErrs = append(allErrs, resolveErrs...)

	graph := &ProjectCodeGraph{
		Files:   fileAnalyses,
		Modules: modules,
		Calls:   calls,
		Classes: classes,
		Symbols: symbols,
		Metadata: Metadata{
			RootPath:       cfg.RootPath,
			FileCount:      len(ordered),
			AnalysisTimeMs: timings,
			LanguageStats:  langStats,
		},
		Errors:         allErrs,
		ModuleGraphRaw: fr.moduleGraph,
		TypeRegistry:   fr.typeReg,
		InheritanceRaw: fr.inheritance,
		SymbolTable:    fr.table,
		Resolver:       fr.resolver,
	}
	return graph, nil
}

func timedDiscover(cfg Config, logger *slog.Logger, timings map[string]int64) ([]string, error) {
	start := stopwatchStart()
	files, err := discover(cfg, logger)
	timings["discover"] = stopwatchElapsedMs(start)
	return files, err
}

func timedFanOut(ctx context.Context, files []string, ext *extractor.Extractor, logger *slog.Logger, timings map[string]int64) (map[string]*perFile, []FileErrorRecord) {
	start := stopwatchStart()
	perFiles, errs := runFanOut(ctx, files, ext, logger)
	timings["fan_out_l1_l3"] = stopwatchElapsedMs(start)
	return perFiles, errs
}

func timedFold(ordered []string, perFiles map[string]*perFile, logger *slog.Logger, timings map[string]int64) foldResult {
	start := stopwatchStart()
	fr := fold(ordered, perFiles, logger)
	timings["fold_l5_l9"] = stopwatchElapsedMs(start)
	return fr
}
