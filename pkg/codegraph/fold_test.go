package codegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/codegraph/pkg/calldetect"
	"github.com/relgraph/codegraph/pkg/extractor"
	"github.com/relgraph/codegraph/pkg/scope"
)

func TestFixupReceiverKeywords_ThisResolvesToEnclosingClass(t *testing.T) {
	tree := scope.NewTree("widget.ts", scope.KindModule, extractor.Location{StartByte: 0, EndByte: 200})
	classID := tree.AddChild(0, scope.KindClass, "Widget", extractor.Location{StartByte: 10, EndByte: 190})
	tree.AddChild(classID, scope.KindMethod, "render", extractor.Location{StartByte: 30, EndByte: 120})

	records := []calldetect.CallRecord{
		{
			Kind: calldetect.KindMethodCall,
			Site: extractor.CallSite{
				Shape:    extractor.ShapeThisCall,
				Callee:   "update",
				Location: extractor.Location{FilePath: "widget.ts", StartByte: 60, EndByte: 75},
			},
		},
	}

	fixupReceiverKeywords(records, tree)

	require.True(t, records[0].ReceiverResolved)
	assert.Equal(t, "Widget", records[0].ReceiverType)
}

func TestFixupReceiverKeywords_SuperTreatedAsEnclosingClass(t *testing.T) {
	tree := scope.NewTree("widget.ts", scope.KindModule, extractor.Location{StartByte: 0, EndByte: 200})
	classID := tree.AddChild(0, scope.KindClass, "Dialog", extractor.Location{StartByte: 10, EndByte: 190})
	tree.AddChild(classID, scope.KindMethod, "open", extractor.Location{StartByte: 30, EndByte: 120})

	records := []calldetect.CallRecord{
		{
			Kind: calldetect.KindMethodCall,
			Site: extractor.CallSite{
				Shape:    extractor.ShapeSuperCall,
				Callee:   "open",
				Location: extractor.Location{FilePath: "widget.ts", StartByte: 60, EndByte: 75},
			},
		},
	}

	fixupReceiverKeywords(records, tree)
	require.True(t, records[0].ReceiverResolved)
	assert.Equal(t, "Dialog", records[0].ReceiverType)
}

func TestFixupReceiverKeywords_NilTreeIsNoop(t *testing.T) {
	records := []calldetect.CallRecord{
		{Kind: calldetect.KindMethodCall, Site: extractor.CallSite{Shape: extractor.ShapeThisCall}},
	}
	fixupReceiverKeywords(records, nil)
	assert.False(t, records[0].ReceiverResolved)
}

func TestReturnTypeLookup_SameFileFunction(t *testing.T) {
	file := &extractor.PerFileResult{
		FilePath: "app.ts",
		Symbols: []extractor.Symbol{
			{Name: "makeWidget", FullyQualifiedName: "makeWidget", Kind: extractor.SymbolKindFunction, ReturnType: "Widget"},
		},
	}
	filesByPath := map[string]*extractor.PerFileResult{"app.ts": file}

	lookup := returnTypeLookup("app.ts", filesByPath, nil)
	rt, ok := lookup("makeWidget")
	require.True(t, ok)
	assert.Equal(t, "Widget", rt)

	_, ok = lookup("missing")
	assert.False(t, ok)
}
