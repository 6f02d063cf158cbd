package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/quill/internal/config"
)

const formatFlags = "#+- 0"

// formatVerbClass groups the verbs by the kind of value they accept.
type formatVerbClass int

const (
	verbAny formatVerbClass = iota
	verbInteger
	verbNumber
	verbBool
)

func formatVerbKind(verb rune) (formatVerbClass, bool) {
	switch verb {
	case 's', 'q', 'v':
		return verbAny, true
	case 'd', 'x', 'X', 'o', 'b', 'c':
		return verbInteger, true
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return verbNumber, true
	case 't':
		return verbBool, true
	}
	return 0, false
}

// formatVerbs lists the verbs of fmtStr in order, skipping "%%". It fails
// on an unknown or unterminated verb.
func formatVerbs(fmtStr string) ([]rune, error) {
	var verbs []rune
	for i := 0; i < len(fmtStr); i++ {
		if fmtStr[i] != '%' {
			continue
		}
		if i+1 >= len(fmtStr) {
			return nil, fmt.Errorf("unterminated format verb")
		}
		if fmtStr[i+1] == '%' {
			i++
			continue
		}
		j := i + 1
		for j < len(fmtStr) && strings.ContainsRune(formatFlags, rune(fmtStr[j])) {
			j++
		}
		for j < len(fmtStr) && fmtStr[j] >= '0' && fmtStr[j] <= '9' {
			j++
		}
		if j < len(fmtStr) && fmtStr[j] == '.' {
			j++
			for j < len(fmtStr) && fmtStr[j] >= '0' && fmtStr[j] <= '9' {
				j++
			}
		}
		if j >= len(fmtStr) {
			return nil, fmt.Errorf("unterminated format verb")
		}
		verb := rune(fmtStr[j])
		if _, ok := formatVerbKind(verb); !ok {
			return nil, fmt.Errorf("invalid format verb %%%c", verb)
		}
		verbs = append(verbs, verb)
		i = j
	}
	return verbs, nil
}

// CountFormatVerbs counts format verbs in fmtStr, ignoring escaped "%%".
// Returns an error for invalid or unterminated verbs.
func CountFormatVerbs(fmtStr string) (int, error) {
	verbs, err := formatVerbs(fmtStr)
	return len(verbs), err
}

// formatValues renders a format string with script values. Each value must
// suit its verb.
func (c *Context) formatValues(fmtStr string, values []Object) (string, error) {
	verbs, err := formatVerbs(fmtStr)
	if err != nil {
		return "", c.throw(config.IllegalArgumentExceptionName, "Bad format string: %s.", err)
	}
	if len(verbs) != len(values) {
		return "", c.throw(config.IllegalArgumentExceptionName,
			"Format string expects %d values, got %d.", len(verbs), len(values))
	}
	native := make([]interface{}, len(values))
	for i, v := range values {
		kind, _ := formatVerbKind(verbs[i])
		arg, ok := c.formatArg(kind, v)
		if !ok {
			return "", c.throw(config.IllegalArgumentExceptionName,
				"%%%c cannot format a value of type %s.", verbs[i], v.RuntimeType())
		}
		if arg == nil {
			s, err := c.stringify(v)
			if err != nil {
				return "", err
			}
			arg = s
		}
		native[i] = arg
	}
	return fmt.Sprintf(fmtStr, native...), nil
}

// formatArg maps v to the Go value passed to fmt. A nil result with ok set
// means the value is formatted through stringify.
func (c *Context) formatArg(kind formatVerbClass, v Object) (interface{}, bool) {
	switch kind {
	case verbInteger:
		if i, ok := v.(*Integer); ok {
			return i.Value, true
		}
		return nil, false
	case verbNumber:
		switch n := v.(type) {
		case *Integer:
			return float64(n.Value), true
		case *Float:
			return n.Value, true
		}
		return nil, false
	case verbBool:
		if b, ok := v.(*Boolean); ok {
			return b.Value, true
		}
		return nil, false
	}
	switch p := v.(type) {
	case *Integer:
		return p.Value, true
	case *Float:
		return p.Inspect(), true
	case *Boolean:
		return p.Value, true
	case *String:
		return p.Value, true
	}
	return nil, true
}
