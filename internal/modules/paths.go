package modules

import (
	"path/filepath"

	"github.com/funvibe/quill/internal/config"
)

// ExtractScriptName derives a display name from a file path by dropping the
// directory and any recognized source extension.
func ExtractScriptName(path string) string {
	return config.TrimSourceExt(filepath.Base(path))
}

// scriptDir is the directory relative includes of a script resolve against.
// Memory sources resolve against the working directory.
func scriptDir(path string) string {
	if path == "" || path == config.UnknownFileName {
		return "."
	}
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}

// candidates lists where an include path may live, in lookup order.
func candidates(fromFile, includePath string, modulePaths []string) []string {
	if filepath.IsAbs(includePath) {
		return []string{includePath}
	}
	out := []string{filepath.Join(scriptDir(fromFile), includePath)}
	for _, dir := range modulePaths {
		out = append(out, filepath.Join(dir, includePath))
	}
	return out
}
