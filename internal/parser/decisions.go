package parser

import (
	"sort"
	"strings"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/token"
)

// Alternative is one way to continue at a decision point.
type Alternative int

const (
	AltGroup Alternative = iota
	AltCast
	AltLambda
	AltBlockBody
	AltArrayBody
)

func (a Alternative) String() string {
	switch a {
	case AltGroup:
		return "group"
	case AltCast:
		return "cast"
	case AltLambda:
		return "lambda"
	case AltBlockBody:
		return "block-body"
	case AltArrayBody:
		return "array-body"
	}
	return "unknown"
}

// AmbiguityKind classifies a set of alternatives that all parse.
type AmbiguityKind string

const (
	// CastOrGroup: (a) - b is a cast of -b or a grouped subtraction.
	CastOrGroup AmbiguityKind = "cast-or-group"
	// LambdaBlockOrArray: (x) => {} has an empty block body or returns an
	// empty array.
	LambdaBlockOrArray AmbiguityKind = "lambda-block-or-array"
)

// Ambiguity is reported when more than one alternative survives.
type Ambiguity struct {
	Kind         AmbiguityKind
	Token        token.Token
	Alternatives []Alternative
}

func classify(alts []Alternative) AmbiguityKind {
	sorted := append([]Alternative(nil), alts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	switch {
	case len(sorted) == 2 && sorted[0] == AltGroup && sorted[1] == AltCast:
		return CastOrGroup
	case len(sorted) == 2 && sorted[0] == AltBlockBody && sorted[1] == AltArrayBody:
		return LambdaBlockOrArray
	}
	names := make([]string, len(sorted))
	for i, a := range sorted {
		names[i] = a.String()
	}
	return AmbiguityKind(strings.Join(names, "-or-"))
}

// AmbiguityHandler decides which ambiguities are benign and which
// alternative wins for each of them. Anything else is a syntax fault.
type AmbiguityHandler struct {
	benign map[AmbiguityKind]Alternative
}

func NewAmbiguityHandler(benign map[AmbiguityKind]Alternative) *AmbiguityHandler {
	h := &AmbiguityHandler{benign: map[AmbiguityKind]Alternative{}}
	for k, v := range benign {
		h.benign[k] = v
	}
	return h
}

// DefaultAmbiguityHandler resolves a cast-or-group in favour of the group and
// an empty lambda body in favour of the block.
func DefaultAmbiguityHandler() *AmbiguityHandler {
	return NewAmbiguityHandler(map[AmbiguityKind]Alternative{
		CastOrGroup:        AltGroup,
		LambdaBlockOrArray: AltBlockBody,
	})
}

func (h *AmbiguityHandler) Resolve(a Ambiguity) (Alternative, *diagnostics.DiagnosticError) {
	if alt, ok := h.benign[a.Kind]; ok {
		for _, candidate := range a.Alternatives {
			if candidate == alt {
				return alt, nil
			}
		}
	}
	return 0, diagnostics.NewErrorf(diagnostics.ErrP003, a.Token, "ambiguous syntax (%s)", a.Kind)
}

// decide picks an alternative at the current token. In Fast mode the
// predicted alternative is taken as is. In General mode every candidate is
// tried against the innermost enclosing statement. While speculating, the
// first candidate that completes the statement wins; ambiguity is judged
// only by the parser that owns the result.
func (p *Parser) decide(predicted Alternative, candidates []Alternative) Alternative {
	at := p.pos
	if alt, ok := p.forced[at]; ok {
		return alt
	}
	if p.mode == Fast || len(candidates) < 2 || len(p.restarts) == 0 {
		return predicted
	}

	ordered := []Alternative{predicted}
	for _, alt := range candidates {
		if alt != predicted {
			ordered = append(ordered, alt)
		}
	}

	var viable []Alternative
	for _, alt := range ordered {
		if p.try(at, alt) {
			viable = append(viable, alt)
			if p.speculating {
				break
			}
		}
	}

	choice := predicted
	switch len(viable) {
	case 0:
		// Let the predicted path report the error.
	case 1:
		choice = viable[0]
	default:
		alt, err := p.handler.Resolve(Ambiguity{Kind: classify(viable), Token: p.tokenAt(at), Alternatives: viable})
		if err != nil {
			p.errorf(err.Code, err.Token, "%s", err.Message)
		}
		choice = alt
	}
	p.forced[at] = choice
	return choice
}

// try reparses the innermost statement with alt forced at token index at.
func (p *Parser) try(at int, alt Alternative) (ok bool) {
	r := p.restarts[len(p.restarts)-1]
	trial := p.fork(r)
	trial.speculating = true
	trial.forced[at] = alt
	defer func() {
		if rec := recover(); rec != nil {
			if _, isBailout := rec.(bailout); !isBailout {
				panic(rec)
			}
			ok = false
		}
	}()
	r.fn(trial)
	return true
}
