// Package validate gates generated artifacts on minimum content quality
// and syntactic validity for file types with a known grammar.
package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"gopkg.in/yaml.v3"

	"personagen/internal/types"
)

// MinContentLength rejects placeholder or empty generations.
const MinContentLength = 10

// Validator checks artifact content against per-extension parsers.
// File types without a registered parser pass once the length check
// succeeds.
type Validator struct {
	parsers map[string]func([]byte) error
}

// New returns a validator with the built-in grammars registered:
// Python via tree-sitter, Go via go/parser, JSON, and YAML.
func New() *Validator {
	v := &Validator{parsers: make(map[string]func([]byte) error)}
	v.parsers[".py"] = validatePythonSyntax
	v.parsers[".go"] = validateGoSyntax
	v.parsers[".json"] = validateJSONSyntax
	v.parsers[".yaml"] = validateYAMLSyntax
	v.parsers[".yml"] = validateYAMLSyntax
	return v
}

// Register adds a custom parser for a file extension.
func (v *Validator) Register(ext string, fn func([]byte) error) {
	v.parsers[strings.ToLower(ext)] = fn
}

// Validate reports whether the artifact content is acceptable. It is a
// pure predicate: it never mutates the artifact and never panics; a
// failure inside a parser converts to false.
func (v *Validator) Validate(content, fileExtension string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if len(content) < MinContentLength {
		return false
	}

	fn, known := v.parsers[strings.ToLower(fileExtension)]
	if !known {
		return true
	}
	return fn([]byte(content)) == nil
}

// ValidateArtifact applies the content rules to a generated artifact.
func (v *Validator) ValidateArtifact(a types.Artifact) bool {
	return v.Validate(a.Content, a.FileExtension)
}

func validateGoSyntax(content []byte) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "artifact.go", content, parser.AllErrors)
	return err
}

func validateJSONSyntax(content []byte) error {
	var v interface{}
	return json.Unmarshal(content, &v)
}

func validateYAMLSyntax(content []byte) error {
	var v interface{}
	return yaml.Unmarshal(content, &v)
}

// validatePythonSyntax parses Python source with tree-sitter and fails
// when the tree contains error nodes.
func validatePythonSyntax(content []byte) error {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return err
	}
	defer tree.Close()

	if tree.RootNode().HasError() {
		return fmt.Errorf("python syntax error")
	}
	return nil
}
