package frontend

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/LemurGamingYT/gemc/internal/ir"
)

// Builder adapts a parsed tree-sitter tree into an ir.Program. It is the
// seam spec §1 calls "the IR builder is an adapter from some parse tree to
// our IR" — the concrete grammar for the source language is not part of
// this repository, so Builder is supplied by whatever grammar package is
// wired in at the edges.
type Builder func(root *sitter.Node, src []byte) (*ir.Program, error)

// TreesitterFrontend parses with a caller-supplied tree-sitter grammar and
// hands the resulting tree to Build. The parse step itself — invoking the
// grammar, reading the root node — is grounded on the teacher's
// internal/matcher.ASTMatcher.Find (internal/matcher/tree.go), which runs
// the identical NewParser/SetLanguage/ParseCtx sequence to get a root node
// to query over.
type TreesitterFrontend struct {
	Language *sitter.Language
	Build    Builder
}

// Parse implements Frontend.
func (f *TreesitterFrontend) Parse(path string, src []byte) (*ir.Program, error) {
	if f.Language == nil || f.Build == nil {
		return nil, fmt.Errorf("treesitter frontend: no grammar wired for %s", path)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(f.Language)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("treesitter frontend: parse %s: %w", path, err)
	}
	defer tree.Close()

	return f.Build(tree.RootNode(), src)
}
