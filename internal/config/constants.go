package config

import (
	"path/filepath"
	"strings"
)

const SourceFileExt = ".quill"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".quill", ".ql"}

// HasSourceExt reports whether path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized source extension from name.
func TrimSourceExt(name string) string {
	for _, e := range SourceFileExtensions {
		if strings.HasSuffix(name, e) {
			return strings.TrimSuffix(name, e)
		}
	}
	return name
}

// UnknownFileName names sources that were not loaded from a file.
const UnknownFileName = "<unknown>"

// DirectivePrefix starts a directive comment: /* $PRAGMA$ value */
const DirectivePrefix = "/* $PRAGMA$"

// Reserved variable names
const (
	ArgumentsVarName = "arguments"
	ThisVarName      = "this"
)

// Default module that scripts load into when they declare no module.
const DefaultModuleName = "<default>"

// Exception trace buffer sizing and rendering limits.
const (
	TraceInitialCapacity = 10
	TraceGrowthRate      = 2
	MaxRenderedCauses    = 4
	UnsetLine            = -1
)

// Default limit of nested calls before a stack overflow is raised.
const DefaultMaxCallDepth = 1000

// DefaultMaxArrayLength bounds new T[n].
const DefaultMaxArrayLength = 1 << 24

// Built-in function names
const (
	PrintFuncName   = "print"
	PrintlnFuncName = "println"
	TypeOfFuncName  = "typeOf"
	LenFuncName     = "len"
	StringFuncName  = "toString"
	FormatFuncName  = "format"
)

// Built-in namespaces
const (
	SystemNamespace = "System"
)

// Known exception type names
const (
	ExceptionTypeName             = "System.Exception"
	DivByZeroExceptionName        = "System.DivByZeroException"
	NullReferenceExceptionName    = "System.NullReferenceException"
	ArrayOutOfRangeExceptionName  = "System.ArrayOutOfRangeException"
	ClassCastExceptionName        = "System.ClassCastException"
	RuntimeCheckExceptionName     = "System.RuntimeCheckException"
	UndefinedSymbolExceptionName  = "System.UndefinedSymbolException"
	TypeIncompatibleExceptionName = "System.TypeIncompatibleException"
	StackOverflowExceptionName    = "System.StackOverflowException"
	IllegalArgumentExceptionName  = "System.IllegalArgumentException"
	BadSyntaxExceptionName        = "System.BadSyntaxException"
	CyclicDependencyExceptionName = "System.CyclicDependencyException"
	IOExceptionName               = "System.IOException"
)
