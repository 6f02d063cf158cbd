package parser

import (
	"strings"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/token"
)

// Directives are the /* $PRAGMA$ value */ comments at the head of a file.
type Directives struct {
	values []string
}

func (d *Directives) Values() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.values...)
}

func (d *Directives) Len() int {
	if d == nil {
		return 0
	}
	return len(d.values)
}

// Contains compares case-insensitively.
func (d *Directives) Contains(value string) bool {
	if d == nil {
		return false
	}
	for _, v := range d.values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// directiveValue extracts the value of a directive comment. A directive is a
// single-line block comment starting with the directive prefix and carrying a
// non-empty value.
func directiveValue(tok token.Token) (string, bool) {
	if tok.Type != token.BLOCK_COMMENT || strings.Contains(tok.Lexeme, "\n") {
		return "", false
	}
	if !strings.HasPrefix(tok.Lexeme, config.DirectivePrefix) {
		return "", false
	}
	value := strings.TrimSuffix(strings.TrimPrefix(tok.Lexeme, config.DirectivePrefix), "*/")
	value = strings.TrimSpace(value)
	return value, value != ""
}

// collectDirectives scans the head of the stream. It stops at the first
// token that is neither filler nor a directive.
func collectDirectives(tokens []token.Token) (values []string, indices map[int]bool) {
	indices = map[int]bool{}
	for _, tok := range tokens {
		if tok.Channel == token.Skipped {
			continue
		}
		value, ok := directiveValue(tok)
		if !ok {
			break
		}
		values = append(values, value)
		indices[tok.Index] = true
	}
	return values, indices
}
