package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func nameField(node *sitter.Node) *sitter.Node {
	return node.ChildByFieldName("name")
}

// cDeclaratorName unwraps pointer and function declarators down to the identifier.
func cDeclaratorName(node *sitter.Node) *sitter.Node {
	current := node.ChildByFieldName("declarator")
	for current != nil {
		switch current.Kind() {
		case "identifier", "field_identifier":
			return current
		}
		current = current.ChildByFieldName("declarator")
	}
	return nil
}

var (
	PythonGrammar = Grammar{
		Name:          "Python",
		Extensions:    []string{".py", ".pyw"},
		Language:      tree_sitter_python.Language,
		FunctionKinds: []string{"function_definition"},
		NameOf:        nameField,
	}

	GoGrammar = Grammar{
		Name:          "Go",
		Extensions:    []string{".go"},
		Language:      tree_sitter_go.Language,
		FunctionKinds: []string{"function_declaration", "method_declaration"},
		NameOf:        nameField,
	}

	JavaGrammar = Grammar{
		Name:          "Java",
		Extensions:    []string{".java"},
		Language:      tree_sitter_java.Language,
		FunctionKinds: []string{"method_declaration", "constructor_declaration"},
		NameOf:        nameField,
	}

	TypeScriptGrammar = Grammar{
		Name:          "TypeScript",
		Extensions:    []string{".ts", ".js"},
		Language:      tree_sitter_typescript.LanguageTypescript,
		FunctionKinds: []string{"function_declaration", "generator_function_declaration", "method_definition"},
		NameOf:        nameField,
	}

	TSXGrammar = Grammar{
		Name:          "TSX",
		Extensions:    []string{".tsx", ".jsx"},
		Language:      tree_sitter_typescript.LanguageTSX,
		FunctionKinds: []string{"function_declaration", "generator_function_declaration", "method_definition"},
		NameOf:        nameField,
	}

	CGrammar = Grammar{
		Name:          "C",
		Extensions:    []string{".c", ".h"},
		Language:      tree_sitter_c.Language,
		FunctionKinds: []string{"function_definition"},
		NameOf:        cDeclaratorName,
	}
)

// Grammars lists every grammar the syntax registry installs.
var Grammars = []Grammar{PythonGrammar, GoGrammar, JavaGrammar, TypeScriptGrammar, TSXGrammar, CGrammar}
