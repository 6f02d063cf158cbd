// Package modules tracks the scripts loaded into an engine: the default
// module that loose scripts join, and the files pulled in by include.
package modules

import (
	"github.com/funvibe/quill/internal/ast"
	"github.com/funvibe/quill/internal/parser"
)

// Mode tells LoadScriptAsModule what to do with the scripts the default
// module already holds.
type Mode int

const (
	// Initial starts a fresh default module.
	Initial Mode = iota
	// Accumulative adds the script and keeps everything loaded before. The
	// REPL runs in this mode.
	Accumulative
	// Substitutive replaces the scripts of the default module. Types already
	// finalized stay in the registry.
	Substitutive
)

func (m Mode) String() string {
	switch m {
	case Initial:
		return "initial"
	case Accumulative:
		return "accumulative"
	case Substitutive:
		return "substitutive"
	}
	return "unknown"
}

// Script is one loaded source file with the names its prescan found.
type Script struct {
	Path       string
	Info       *parser.AstInfo
	Classes    []string
	Functions  []string
	Directives []string
}

type Module struct {
	Name    string
	Scripts []*Script
}

// Classes lists the classes of every script, in load order.
func (m *Module) Classes() []string {
	var out []string
	for _, s := range m.Scripts {
		out = append(out, s.Classes...)
	}
	return out
}

func prescan(path string, info *parser.AstInfo, prog *ast.Program) *Script {
	s := &Script{Path: path, Info: info}
	if src := info.Source(); src != nil {
		s.Directives = src.Directives().Values()
	}
	for _, stmt := range prog.Statements {
		switch d := stmt.(type) {
		case *ast.ClassDeclaration:
			s.Classes = append(s.Classes, d.Name)
		case *ast.FunctionDeclaration:
			s.Functions = append(s.Functions, d.Name)
		}
	}
	return s
}
