// Package js is the boundary to the JavaScript parser. It parses source
// text with tree-sitter and materializes the two node sets the coverage
// core needs: syntactic roots (functions and the top-level program) and
// countable statements, each reduced to plain offset spans and source
// locations. The syntax tree itself is released before Parse returns, so
// nothing downstream holds cgo-backed node references.
package js

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// SourceType selects the goal symbol the source was evaluated as.
type SourceType string

const (
	// SourceTypeScript forbids top-level import/export syntax.
	SourceTypeScript SourceType = "script"
	// SourceTypeModule permits top-level import/export syntax.
	SourceTypeModule SourceType = "module"
)

// ErrModuleSyntax reports module-only syntax in a script-typed source.
var ErrModuleSyntax = errors.New("module syntax in script source")

// Span is a half-open [Start, End) byte-offset range.
type Span struct {
	Start uint32
	End   uint32
}

// Contains reports whether s fully encloses other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Position is a source position with a 1-based line and 0-based column,
// matching the report format's convention.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Loc is the line/column span of a node.
type Loc struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// FunctionInfo describes one syntactic root in pre-order traversal
// position. Index 0 of Program.Roots is always the whole-program root.
type FunctionInfo struct {
	Span      Span
	Loc       Loc
	IsProgram bool
}

// StatementInfo describes one countable statement. Root is the index of
// the nearest enclosing root in Program.Roots, or -1 when the statement
// could not be associated (such statements never reach the report).
type StatementInfo struct {
	Span Span
	Loc  Loc
	Root int
}

// Program is the parse result consumed by the coverage core. Roots and
// Statements are in pre-order traversal order, which is what fixes the
// report's id assignment.
type Program struct {
	Roots      []FunctionInfo
	Statements []StatementInfo
}

// Parse parses source text and extracts roots and statements.
func Parse(ctx context.Context, source []byte, sourceType SourceType) (*Program, error) {
	switch sourceType {
	case SourceTypeScript, SourceTypeModule:
	default:
		return nil, fmt.Errorf("unknown source type %q", sourceType)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if sourceType == SourceTypeScript {
		if err := rejectModuleSyntax(root); err != nil {
			return nil, err
		}
	}

	prog := &Program{}
	collect(root, -1, prog)
	return prog, nil
}

// rejectModuleSyntax enforces the script goal symbol: the grammar parses
// script and module sources identically, so the distinction is checked
// on the produced tree.
func rejectModuleSyntax(root *sitter.Node) error {
	for i := 0; i < int(root.ChildCount()); i++ {
		switch root.Child(i).Type() {
		case "import_statement", "export_statement":
			p := root.Child(i).StartPoint()
			return fmt.Errorf("%w at line %d", ErrModuleSyntax, int(p.Row)+1)
		}
	}
	return nil
}

// collect walks the tree top-down. A node inherits its parent's root
// index unless it is itself a root, in which case it registers as a new
// root and tags its subtree. Registration order is pre-order and is
// never revisited.
func collect(node *sitter.Node, rootIdx int, prog *Program) {
	kind := node.Type()

	if isRootNode(kind) {
		prog.Roots = append(prog.Roots, FunctionInfo{
			Span:      nodeSpan(node),
			Loc:       nodeLoc(node),
			IsProgram: kind == "program",
		})
		rootIdx = len(prog.Roots) - 1
	} else if isStatementNode(kind) {
		prog.Statements = append(prog.Statements, StatementInfo{
			Span: nodeSpan(node),
			Loc:  nodeLoc(node),
			Root: rootIdx,
		})
	}

	// Only named nodes are walked: token children share type strings
	// with named node kinds (the "function" keyword vs an anonymous
	// function expression) and must never classify as roots.
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collect(node.NamedChild(i), rootIdx, prog)
	}
}

// isRootNode reports whether a node kind opens a new syntactic root.
// Both the pre- and post-rename grammar spellings of function
// expressions are listed so grammar upgrades stay harmless.
func isRootNode(kind string) bool {
	switch kind {
	case "program",
		"function_declaration",
		"generator_function_declaration",
		"function",
		"function_expression",
		"generator_function",
		"arrow_function",
		"method_definition":
		return true
	}
	return false
}

// isStatementNode reports whether a node is an independently countable
// statement. Block statements and function declarations are structural
// wrappers around their contents and are excluded.
func isStatementNode(kind string) bool {
	switch kind {
	case "statement_block",
		"function_declaration",
		"generator_function_declaration":
		return false
	case "variable_declaration",
		"lexical_declaration",
		"class_declaration":
		return true
	}
	return strings.HasSuffix(kind, "_statement")
}

func nodeSpan(node *sitter.Node) Span {
	return Span{Start: node.StartByte(), End: node.EndByte()}
}

func nodeLoc(node *sitter.Node) Loc {
	start := node.StartPoint()
	end := node.EndPoint()
	return Loc{
		Start: Position{Line: int(start.Row) + 1, Column: int(start.Column)},
		End:   Position{Line: int(end.Row) + 1, Column: int(end.Column)},
	}
}
