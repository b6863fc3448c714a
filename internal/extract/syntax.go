package extract

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/agusespa/testimpact/internal/types"
)

// Grammar describes how function definitions look in one tree-sitter language.
type Grammar struct {
	Name       string
	Extensions []string
	Language   func() unsafe.Pointer
	// FunctionKinds lists node kinds that introduce a function or method.
	FunctionKinds []string
	// NameOf returns the identifier node of a function node, or nil.
	NameOf func(node *sitter.Node) *sitter.Node
}

// SyntaxExtractor extracts functions from a tree-sitter parse tree. When the
// tree cannot be built it defers to the fallback extractor.
//
// A SyntaxExtractor is not safe for concurrent use.
type SyntaxExtractor struct {
	grammar  Grammar
	kinds    map[string]bool
	parser   *sitter.Parser
	language *sitter.Language
	fallback Extractor
}

func NewSyntaxExtractor(g Grammar, fallback Extractor) (*SyntaxExtractor, error) {
	lang := sitter.NewLanguage(g.Language())
	parser := sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set %s language for parser: %w", g.Name, err)
	}

	kinds := make(map[string]bool, len(g.FunctionKinds))
	for _, k := range g.FunctionKinds {
		kinds[k] = true
	}

	if fallback == nil {
		fallback = NewHeuristic()
	}

	return &SyntaxExtractor{
		grammar:  g,
		kinds:    kinds,
		parser:   parser,
		language: lang,
		fallback: fallback,
	}, nil
}

func (s *SyntaxExtractor) Language() string {
	return s.grammar.Name
}

func (s *SyntaxExtractor) SupportedExtensions() []string {
	return s.grammar.Extensions
}

func (s *SyntaxExtractor) Close() {
	s.parser.Close()
}

func (s *SyntaxExtractor) FunctionNames(code string) []string {
	spans, ok := s.spans(code)
	if !ok {
		return s.fallback.FunctionNames(code)
	}

	names := make([]string, 0, len(spans))
	for _, span := range spans {
		names = append(names, span.Name)
	}
	return names
}

func (s *SyntaxExtractor) FunctionSpan(code, name string) string {
	spans, ok := s.spans(code)
	if !ok {
		return s.fallback.FunctionSpan(code, name)
	}

	for _, span := range spans {
		if span.Name == name {
			return span.Text
		}
	}
	return ""
}

// spans returns all function spans in document order. The boolean is false
// when tree-sitter produced no tree.
func (s *SyntaxExtractor) spans(code string) ([]types.FunctionSpan, bool) {
	src := []byte(code)
	tree := s.parser.Parse(src, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, false
	}

	var spans []types.FunctionSpan
	s.walk(root, src, &spans)
	return spans, true
}

func (s *SyntaxExtractor) walk(node *sitter.Node, src []byte, out *[]types.FunctionSpan) {
	if s.kinds[node.Kind()] {
		if nameNode := s.grammar.NameOf(node); nameNode != nil {
			*out = append(*out, types.FunctionSpan{
				Name: nameNode.Utf8Text(src),
				Text: node.Utf8Text(src),
			})
		}
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil {
			s.walk(child, src, out)
		}
	}
}
