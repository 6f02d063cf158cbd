// Package exception carries script-level faults across frames. A Carrier
// wraps the thrown script value and accumulates one trace entry per frame it
// unwinds through.
package exception

import (
	"strconv"
	"strings"

	"github.com/funvibe/quill/internal/config"
)

// Payload is the thrown script value.
type Payload interface {
	TypeName() string
}

// fatalTypes bypass script catch clauses.
var fatalTypes = map[string]bool{
	config.StackOverflowExceptionName: true,
}

type Carrier struct {
	payload Payload
	message string

	trace []string // capacity is len(trace); live entries are trace[:depth]
	depth int

	cause *Carrier
	file  string
	line  int
	raw   bool
}

func New(payload Payload, message string) *Carrier {
	return &Carrier{payload: payload, message: message, line: config.UnsetLine}
}

func (c *Carrier) Payload() Payload { return c.payload }
func (c *Carrier) Message() string  { return c.message }

func (c *Carrier) TypeName() string {
	if c.payload == nil {
		return config.ExceptionTypeName
	}
	return c.payload.TypeName()
}

// Error returns the first line of the rendered output.
func (c *Carrier) Error() string {
	return c.TypeName() + ": " + c.message
}

func (c *Carrier) Unwrap() error {
	if c.cause == nil {
		return nil
	}
	return c.cause
}

// IsFatal reports whether the fault must skip script catch clauses.
func (c *Carrier) IsFatal() bool {
	return fatalTypes[c.TypeName()]
}

// FormatTraceEntry renders name(p1,p2)  (file, line). Parentheses are left
// out when params is nil, the location when file is empty, and the line when
// it is unset.
func FormatTraceEntry(name string, params []string, file string, line int) string {
	var sb strings.Builder
	sb.WriteString(name)
	if params != nil {
		sb.WriteString("(")
		sb.WriteString(strings.Join(params, ","))
		sb.WriteString(")")
	}
	if file != "" {
		sb.WriteString("  (")
		sb.WriteString(file)
		if line != config.UnsetLine {
			sb.WriteString(", ")
			sb.WriteString(strconv.Itoa(line))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// AddTrace appends a frame entry and clears the line, so the next frame up
// records its own call site.
func (c *Carrier) AddTrace(name string, params []string, file string, line int) {
	c.AddRawTrace(FormatTraceEntry(name, params, file, line))
}

// AddRawTrace appends a preformatted entry. The buffer starts at
// config.TraceInitialCapacity and grows by config.TraceGrowthRate.
func (c *Carrier) AddRawTrace(entry string) {
	if c.depth >= len(c.trace) {
		size := config.TraceInitialCapacity
		if len(c.trace) > 0 {
			size = len(c.trace) * config.TraceGrowthRate
		}
		grown := make([]string, size)
		copy(grown, c.trace[:c.depth])
		c.trace = grown
	}
	c.trace[c.depth] = entry
	c.depth++
	c.line = config.UnsetLine
}

// Trace returns the live entries, innermost first.
func (c *Carrier) Trace() []string {
	return append([]string(nil), c.trace[:c.depth]...)
}

func (c *Carrier) Depth() int    { return c.depth }
func (c *Carrier) Capacity() int { return len(c.trace) }

// SetCause records the inner fault. The last call wins.
func (c *Carrier) SetCause(inner *Carrier) { c.cause = inner }
func (c *Carrier) Cause() *Carrier         { return c.cause }

func (c *Carrier) SetLocation(file string, line int) {
	c.file = file
	c.line = line
}

// SetLocationIfUnset keeps the innermost location: once a line is set, outer
// statements leave it alone until the next trace entry clears it.
func (c *Carrier) SetLocationIfUnset(file string, line int) {
	if c.line == config.UnsetLine {
		c.SetLocation(file, line)
	}
}

func (c *Carrier) Location() (string, int) { return c.file, c.line }

// SetRaw drops the from (file, line) footer when rendering. Used for faults
// that carry no meaningful source position.
func (c *Carrier) SetRaw(raw bool) { c.raw = raw }
func (c *Carrier) Raw() bool       { return c.raw }

// Render formats the carrier and up to config.MaxRenderedCauses causes.
//
//	<Type>: <message>
//	  at <entry>
//	  from (<file>, <line>)
//	Caused by:
//	...
func (c *Carrier) Render(indent int, trailingNewline bool) string {
	var sb strings.Builder
	c.render(&sb, strings.Repeat(" ", indent), trailingNewline, 0)
	return sb.String()
}

func (c *Carrier) render(sb *strings.Builder, pad string, trailingNewline bool, depth int) {
	sb.WriteString(pad)
	sb.WriteString(c.TypeName())
	sb.WriteString(": ")
	sb.WriteString(c.message)
	sb.WriteString("\n")

	for _, entry := range c.trace[:c.depth] {
		sb.WriteString(pad)
		sb.WriteString("  at ")
		sb.WriteString(entry)
		sb.WriteString("\n")
	}

	if !c.raw {
		sb.WriteString(pad)
		sb.WriteString("  from (")
		sb.WriteString(c.file)
		sb.WriteString(", ")
		sb.WriteString(strconv.Itoa(c.line))
		sb.WriteString(")")
	}

	if c.cause != nil {
		if !c.raw {
			sb.WriteString("\n")
		}
		sb.WriteString(pad)
		if depth < config.MaxRenderedCauses {
			sb.WriteString("Caused by:\n")
			c.cause.render(sb, pad, false, depth+1)
		} else {
			sb.WriteString("More causes ...\n")
		}
	}

	if trailingNewline {
		sb.WriteString("\n")
	}
}
