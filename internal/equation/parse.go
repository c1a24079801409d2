// Package equation reads free-text quadratic equations typed by a player.
//
// Parsing never fails. Terms that cannot be found are reported as absent
// so the scorer can still give partial credit on whatever was recognised.
package equation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
)

// Coef is one coefficient of a parsed equation. Present is false when the
// term did not appear in the input at all, which is distinct from an
// explicit zero.
type Coef struct {
	Value   float64 `json:"value"`
	Present bool    `json:"present"`
}

// Or0 returns the value, or 0 for an absent term.
func (c Coef) Or0() float64 {
	if !c.Present {
		return 0
	}
	return c.Value
}

func (c Coef) String() string {
	if !c.Present {
		return "absent"
	}
	return quadratic.Num(c.Value)
}

// Parsed is the result of Parse.
type Parsed struct {
	A Coef `json:"a"`
	B Coef `json:"b"`
	C Coef `json:"c"`
}

// Quadratic maps absent terms to zero.
func (p Parsed) Quadratic() quadratic.Quadratic {
	return quadratic.Quadratic{A: p.A.Or0(), B: p.B.Or0(), C: p.C.Or0()}
}

func (p Parsed) String() string {
	return fmt.Sprintf("a=%s b=%s c=%s", p.A, p.B, p.C)
}

var (
	// Coefficient then x then a squared indicator: ^2, ^², ² or a bare 2.
	quadTerm = regexp.MustCompile(`([+-]?[\d.]*)x(?:\^2|\^²|²|2)`)
	linTerm  = regexp.MustCompile(`([+-]?[\d.]*)x`)
	constant = regexp.MustCompile(`[+-]?[\d.]+`)

	// Longest numeric prefix, mirroring lenient float parsing: "1.2.3"
	// reads as 1.2 and "4." as 4.
	numPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)`)
)

// Parse extracts a, b and c from text such as "y = -0.5x^2 + 3x - 2".
//
// The quadratic term is located first, then the linear term in what is
// left, then the constant. Each located term is excluded from the later
// scans so that the x inside x² cannot be read as a linear term.
func Parse(text string) Parsed {
	w := newWorking(normalize(text))

	var p Parsed
	if m, ok := w.find(quadTerm); ok {
		p.A = coefFromSign(m.group)
		w.consume(m)
	}
	if m, ok := w.find(linTerm); ok {
		p.B = coefFromSign(m.group)
		w.consume(m)
	}
	// The first hit with a digit wins; a bare "." or "+." is skipped.
	rest, _ := w.view()
	for _, lit := range constant.FindAllString(rest, -1) {
		if c := parseNumber(lit); c.Present {
			p.C = c
			break
		}
	}
	return p
}

// normalize lowercases, drops every whitespace rune and removes the first
// "y=" token.
func normalize(text string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(text))
	return strings.Replace(s, "y=", "", 1)
}

// coefFromSign applies the implicit-one rule: "" and "+" mean 1, "-"
// means -1.
func coefFromSign(s string) Coef {
	switch s {
	case "", "+":
		return Coef{Value: 1, Present: true}
	case "-":
		return Coef{Value: -1, Present: true}
	}
	return parseNumber(s)
}

// parseNumber reads the longest numeric prefix of s. A string with no
// digits at all (".", "+.") yields an absent coefficient.
func parseNumber(s string) Coef {
	lit := numPrefix.FindString(s)
	if lit == "" {
		return Coef{}
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Coef{}
	}
	return Coef{Value: v, Present: true}
}
