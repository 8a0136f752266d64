package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// rustParserPool pools smacker/go-tree-sitter parsers for Rust. Rust is the
// only language in this module served by this engine; JS/TS/Python go
// through parserPool (tree-sitter/go-tree-sitter) instead. See pkg/cst for
// the interface that hides this split from every layer above pkg/parser.
type rustParserPool struct {
	pool    chan *sitter.Parser
	maxSize int

	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

func newRustParserPool(maxSize int, logger *slog.Logger) *rustParserPool {
	return &rustParserPool{
		pool:    make(chan *sitter.Parser, maxSize),
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *rustParserPool) acquire() (*sitter.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
		return p.createParserIfNeeded()
	}
}

func (p *rustParserPool) createParserIfNeeded() (*sitter.Parser, error) {
	p.mutex.Lock()

	if p.created < p.maxSize {
		parser := sitter.NewParser()
		if parser == nil {
			p.mutex.Unlock()
			return nil, fmt.Errorf("failed to create rust parser")
		}
		parser.SetLanguage(rust.GetLanguage())

		p.created++
		p.logger.Debug("created parser in pool", "language", "rust", "pool_size", p.created)

		p.mutex.Unlock()
		return parser, nil
	}

	p.mutex.Unlock()
	parser := <-p.pool
	return parser, nil
}

func (p *rustParserPool) release(parser *sitter.Parser) {
	if parser == nil {
		return
	}

	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("rust parser pool full, closing excess parser")
	}
}

func (p *rustParserPool) close() {
	close(p.pool)

	count := 0
	for parser := range p.pool {
		if parser != nil {
			parser.Close()
			count++
		}
	}

	p.logger.Debug("closed parser pool", "language", "rust", "parsers_closed", count)
}

func (p *rustParserPool) getCreatedCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}

// parse acquires a parser, parses source, and releases the parser back to
// the pool before returning.
func (p *rustParserPool) parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser, err := p.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire rust parser: %w", err)
	}
	defer p.release(parser)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("rust parse failed: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("rust parser.ParseCtx returned nil tree")
	}

	return tree, nil
}
