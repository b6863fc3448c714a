package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	KindHeuristic  = "heuristic"
	KindTreeSitter = "treesitter"
)

// Registry picks an extractor by file extension. Paths without a registered
// extension use the heuristic extractor.
type Registry struct {
	extractors map[string]Extractor
	fallback   Extractor
	closers    []func()
}

func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
		fallback:   NewHeuristic(),
	}
}

// NewSyntaxRegistry registers a tree-sitter extractor for every known grammar.
func NewSyntaxRegistry() (*Registry, error) {
	registry := NewRegistry()
	for _, g := range Grammars {
		ex, err := NewSyntaxExtractor(g, registry.fallback)
		if err != nil {
			registry.Close()
			return nil, fmt.Errorf("failed to create %s extractor: %w", g.Name, err)
		}
		registry.Register(ex, g.Extensions...)
		registry.closers = append(registry.closers, ex.Close)
	}
	return registry, nil
}

// NewRegistryForKind builds the registry named by the analysis.extractor setting.
func NewRegistryForKind(kind string) (*Registry, error) {
	switch kind {
	case "", KindHeuristic:
		return NewRegistry(), nil
	case KindTreeSitter:
		return NewSyntaxRegistry()
	default:
		return nil, fmt.Errorf("unknown extractor kind: %s", kind)
	}
}

func (r *Registry) Register(ex Extractor, extensions ...string) {
	for _, ext := range extensions {
		r.extractors[strings.ToLower(ext)] = ex
	}
}

func (r *Registry) For(filePath string) Extractor {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ex, ok := r.extractors[ext]; ok {
		return ex
	}
	return r.fallback
}

func (r *Registry) Close() {
	for _, c := range r.closers {
		c()
	}
	r.closers = nil
}
