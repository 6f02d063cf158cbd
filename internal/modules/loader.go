package modules

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/parser"
)

var ErrScriptNotFound = errors.New("couldn't find script file")

// CycleError reports an include chain that leads back to a script still
// being included.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "cyclic include: " + strings.Join(e.Chain, " -> ")
}

// Manager owns the default module and the include bookkeeping of one
// engine. Includes run on the engine's main thread only.
type Manager struct {
	mu      sync.Mutex
	paths   []string
	logger  *slog.Logger
	modules map[string]*Module

	sources map[string]*parser.Source
	results map[string]interface{}
	loading []string
}

func NewManager(modulePaths []string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		paths:   append([]string(nil), modulePaths...),
		logger:  logger,
		modules: make(map[string]*Module),
		sources: make(map[string]*parser.Source),
		results: make(map[string]interface{}),
	}
}

func (m *Manager) ModulePaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// Default returns the module loose scripts are loaded into, or nil before
// the first load.
func (m *Manager) Default() *Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modules[config.DefaultModuleName]
}

// LoadScriptAsModule prescans a script and attaches it to the default
// module. The tree is forced here, so a syntax fault surfaces now.
func (m *Manager) LoadScriptAsModule(info *parser.AstInfo, mode Mode) (*Script, error) {
	prog, err := info.Result()
	if err != nil {
		return nil, err
	}
	script := prescan(info.FileName(), info, prog)

	m.mu.Lock()
	mod := m.modules[config.DefaultModuleName]
	switch {
	case mod == nil || mode == Initial:
		mod = &Module{Name: config.DefaultModuleName, Scripts: []*Script{script}}
		m.modules[mod.Name] = mod
	case mode == Accumulative:
		mod.Scripts = append(mod.Scripts, script)
	case mode == Substitutive:
		mod.Scripts = []*Script{script}
	}
	scripts := len(mod.Scripts)
	m.mu.Unlock()

	m.logger.Debug("script loaded",
		"module", config.DefaultModuleName,
		"script", script.Path,
		"mode", mode.String(),
		"classes", len(script.Classes),
		"directives", script.Directives,
		"scripts", scripts)
	return script, nil
}

// Resolve finds the file an include names. Relative paths are tried against
// the including script's directory first, then each module path.
func (m *Manager) Resolve(fromFile, includePath string) (string, error) {
	for _, candidate := range candidates(fromFile, includePath, m.ModulePaths()) {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return parser.Canonicalize(candidate), nil
		}
	}
	return "", fmt.Errorf("%w (%s)", ErrScriptNotFound, includePath)
}

// Source opens a resolved path once; later calls share the source and with
// it the memoized parse.
func (m *Manager) Source(path string) (*parser.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if src, ok := m.sources[path]; ok {
		return src, nil
	}
	src, err := parser.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (%s)", ErrScriptNotFound, path)
		}
		return nil, err
	}
	m.sources[path] = src
	m.logger.Debug("include opened", "path", path)
	return src, nil
}

// BeginInclude marks path as being included. When the script already ran,
// its cached result is returned instead; when it is still running higher up
// the chain, a CycleError is returned.
func (m *Manager) BeginInclude(path string) (interface{}, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.results[path]; ok {
		return r, true, nil
	}
	for i, p := range m.loading {
		if p == path {
			chain := append(append([]string(nil), m.loading[i:]...), path)
			return nil, false, &CycleError{Chain: chain}
		}
	}
	m.loading = append(m.loading, path)
	return nil, false, nil
}

// EndInclude pops path. The result is cached only when the include
// succeeded, so a failed include is retried by the next include site.
func (m *Manager) EndInclude(path string, result interface{}, succeeded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.loading); n > 0 && m.loading[n-1] == path {
		m.loading = m.loading[:n-1]
	}
	if succeeded {
		m.results[path] = result
	}
}

// Included reports whether path has run to completion.
func (m *Manager) Included(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.results[path]
	return ok
}
