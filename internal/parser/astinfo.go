package parser

import (
	"sync"

	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/diagnostics"
)

// Trigger produces a tree or a syntax fault. It is invoked at most once per
// AstInfo.
type Trigger func() (*ast.Program, *diagnostics.DiagnosticError)

// AstInfo is the outcome of parsing one source: a tree or a syntax fault,
// never both. A lazy AstInfo defers the parse until either is read.
type AstInfo struct {
	file   string
	source *Source

	once    sync.Once
	trigger Trigger
	tree    *ast.Program
	fault   *diagnostics.DiagnosticError
}

// NewAstInfo wraps an already known outcome.
func NewAstInfo(file string, tree *ast.Program, fault *diagnostics.DiagnosticError) *AstInfo {
	return NewLazyAstInfo(file, func() (*ast.Program, *diagnostics.DiagnosticError) {
		return tree, fault
	})
}

func NewLazyAstInfo(file string, trigger Trigger) *AstInfo {
	return &AstInfo{file: file, trigger: trigger}
}

func (a *AstInfo) force() {
	a.once.Do(func() {
		tree, fault := a.trigger()
		a.trigger = nil
		switch {
		case fault != nil:
			if fault.File == "" {
				fault.File = a.file
			}
			a.fault = fault
		case tree == nil:
			a.tree = &ast.Program{File: a.file, Empty: true}
		default:
			if tree.File == "" {
				tree.File = a.file
			}
			a.tree = tree
		}
	})
}

// Tree returns the parsed program, or nil if parsing failed.
func (a *AstInfo) Tree() *ast.Program {
	a.force()
	return a.tree
}

// Fault returns the syntax fault, or nil if parsing succeeded.
func (a *AstInfo) Fault() *diagnostics.DiagnosticError {
	a.force()
	return a.fault
}

// Result returns the tree, or the fault as an error.
func (a *AstInfo) Result() (*ast.Program, error) {
	a.force()
	if a.fault != nil {
		return nil, a.fault
	}
	return a.tree, nil
}

func (a *AstInfo) FileName() string { return a.file }

// Source returns the source this info was produced from, if any.
func (a *AstInfo) Source() *Source { return a.source }
