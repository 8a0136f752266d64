package codegraph

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/indexer"
	"github.com/relgraph/codegraph/pkg/parser"
	"github.com/relgraph/codegraph/pkg/scope"
	"github.com/relgraph/codegraph/pkg/typetrack"
	"github.com/relgraph/codegraph/pkg/util"
)

// perFile bundles everything L1-L3 produce for one file, the unit the
// parallel fan-out phase hands off to the single-threaded folds.
type perFile struct {
	result  *extractor.PerFileResult
	scope   *scope.Tree
	tracker *typetrack.Tracker
}

// discover finds every file cfg selects, applying the language filter and
// max-file-size cutoff on top of indexer.DiscoverFiles' glob matching.
func discover(cfg Config, logger *slog.Logger) ([]string, error) {
	opts := indexer.DefaultScanOptions()
	if len(cfg.IncludePatterns) > 0 {
		opts.Include = cfg.IncludePatterns
	}
	if len(cfg.ExcludePatterns) > 0 {
		opts.Exclude = append(opts.Exclude, cfg.ExcludePatterns...)
	}

	files, err := indexer.DiscoverFiles(cfg.RootPath, opts, logger)
	if err != nil {
		return nil, err
	}

	filtered := files[:0]
	for _, f := range files {
		if len(cfg.Languages) > 0 && !cfg.Languages[parser.DetectLanguage(f)] {
			continue
		}
		if cfg.MaxFileSize > 0 {
			if info, err := os.Stat(f); err == nil && info.Size() > cfg.MaxFileSize {
				continue
			}
		}
		filtered = append(filtered, f)
	}

	sort.Strings(filtered) // deterministic project-wide layer ordering, per spec.md §5
	return filtered, nil
}

// runFanOut parses and extracts every file in parallel (L1-L3: scope tree,
// entity extraction, local type tracking), returning one perFile bundle per
// successfully analyzed file plus a parse/io error record for every file
// that failed. Honors ctx cancellation between files.
func runFanOut(ctx context.Context, files []string, ext *extractor.Extractor, logger *slog.Logger) (map[string]*perFile, []FileErrorRecord) {
	results := make(map[string]*perFile, len(files))
	var errs []FileErrorRecord

	if len(files) == 0 {
		return results, errs
	}

	pool := indexer.NewWorkerPool(util.GetOptimalPoolSize(), ext, logger)
	pool.Start()

	// The collector always drains both channels to exhaustion, even after
	// ctx is cancelled: a worker blocked sending into a full, unread
	// results/errors channel would otherwise deadlock pool.Stop()'s
	// wg.Wait(). Cancellation only stops new work from being *submitted*;
	// already-submitted jobs still run to completion and get drained.
	done := make(chan struct{})
	go func() {
		defer close(done)
		resultsOpen, errorsOpen := true, true
		for resultsOpen || errorsOpen {
			select {
			case res, ok := <-pool.Results():
				if !ok {
					resultsOpen = false
					continue
				}
				st := res.Scope
				if st == nil {
					// Scope-tree build failed for this file (see
					// WorkerPool.buildScopeTree); fall back to a bare
					// root so L3 still has something to seed bindings
					// onto, at file-level granularity only.
					st = scope.NewTree(res.FilePath, scope.KindModule, extractor.Location{FilePath: res.FilePath})
					errs = append(errs, FileErrorRecord{File: res.FilePath, Layer: "L1", Kind: ErrorKindScope, Message: "scope tree unavailable, falling back to file-level scope"})
				}
				tracker := typetrack.Build(res.Result, st)
				bindScopeSymbols(st, res.Result)
				results[res.FilePath] = &perFile{result: res.Result, scope: st, tracker: tracker}
			case fe, ok := <-pool.Errors():
				if !ok {
					errorsOpen = false
					continue
				}
				kind := ErrorKindParse
				var pathErr *fs.PathError
				if errors.As(fe.Error, &pathErr) {
					kind = ErrorKindIO
				}
				errs = append(errs, FileErrorRecord{
					File:    fe.FilePath,
					Layer:   "L1-L2",
					Kind:    kind,
					Message: fe.Error.Error(),
				})
			}
		}
	}()

submit:
	for i, f := range files {
		select {
		case <-ctx.Done():
			break submit
		default:
		}
		if err := pool.Submit(indexer.FileJob{FilePath: f, JobID: i}); err != nil {
			errs = append(errs, FileErrorRecord{File: f, Layer: "L1-L2", Kind: ErrorKindIO, Message: fmt.Sprintf("submit failed: %v", err)})
		}
	}
	pool.FinishSubmitting()

	pool.Stop() // waits for in-flight jobs, then closes Results()/Errors()
	<-done

	return results, errs
}

// bindScopeSymbols records every declared symbol into the scope tree's own
// symbol maps, so L9's lexical-walk reference resolver has bindings to walk
// up through instead of the empty maps L1's skeleton-only Build leaves
// behind. A symbol binds into the scope that lexically encloses its
// declaration, not the body scope the declaration itself may introduce:
// tree.Lookup on the symbol's own start offset lands in the enclosing scope
// because a function/class/method's scope range is the body, which starts
// after the declaration keyword and name tokens.
func bindScopeSymbols(tree *scope.Tree, result *extractor.PerFileResult) {
	if tree == nil {
		return
	}
	for _, sym := range result.Symbols {
		id := tree.Lookup(sym.Location.StartByte)
		kind := scope.KindModule
		if s := tree.Get(id); s != nil {
			kind = s.Kind
		}
		tree.Bind(id, scope.SymbolBinding{
			Name:      sym.Name,
			SymbolID:  sym.FullyQualifiedName,
			StartByte: sym.Location.StartByte,
			IsHoisted: isHoisted(sym, result.Language, kind),
		})
	}
}

// isHoisted implements spec.md §4.9 step 1's per-language hoisting policy:
// JS/TS function declarations and var-style bindings hoist to the
// enclosing scope and are visible throughout it; let/const and classes do
// not (temporal dead zone). Python and Rust don't hoist within a block, but
// both allow a module-level function/class/type to be referenced before its
// textual position, so those are only marked hoisted at module scope.
func isHoisted(sym extractor.Symbol, lang parser.Language, scopeKind scope.Kind) bool {
	switch lang {
	case parser.LanguageJavaScript, parser.LanguageTypeScript:
		switch sym.Kind {
		case extractor.SymbolKindFunction:
			return true
		case extractor.SymbolKindVariable, extractor.SymbolKindConstant:
			for _, m := range sym.Modifiers {
				if m == "const" || m == "let" {
					return false
				}
			}
			return true // var-style: no modifier recorded as const/let
		default:
			return false
		}
	case parser.LanguagePython, parser.LanguageRust:
		if scopeKind != scope.KindModule {
			return false
		}
		switch sym.Kind {
		case extractor.SymbolKindFunction, extractor.SymbolKindClass, extractor.SymbolKindType, extractor.SymbolKindInterface:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
