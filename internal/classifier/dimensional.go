package classifier

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gauntlet/domain/hypothesis"
)

// Dimension is an exponent vector over the seven SI base dimensions:
// length, mass, time, current, temperature, amount, luminosity.
type Dimension [7]int

// Dimensionless is the zero vector.
var Dimensionless = Dimension{}

func (d Dimension) mul(o Dimension) Dimension {
	var r Dimension
	for i := range d {
		r[i] = d[i] + o[i]
	}
	return r
}

func (d Dimension) div(o Dimension) Dimension {
	var r Dimension
	for i := range d {
		r[i] = d[i] - o[i]
	}
	return r
}

func (d Dimension) pow(n int) Dimension {
	var r Dimension
	for i := range d {
		r[i] = d[i] * n
	}
	return r
}

func (d Dimension) String() string {
	names := [7]string{"m", "kg", "s", "A", "K", "mol", "cd"}
	var parts []string
	for i, exp := range d {
		switch {
		case exp == 1:
			parts = append(parts, names[i])
		case exp != 0:
			parts = append(parts, fmt.Sprintf("%s^%d", names[i], exp))
		}
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, "*")
}

// baseUnits maps unit symbols to their dimension vectors. Derived units are
// pre-expanded; prefixed length scales used in the hypothesis corpus (Mpc,
// km) reduce to plain length since only dimensions matter here.
var baseUnits = map[string]Dimension{
	"":    Dimensionless,
	"1":   Dimensionless,
	"rad": Dimensionless,
	"m":   {1, 0, 0, 0, 0, 0, 0},
	"km":  {1, 0, 0, 0, 0, 0, 0},
	"Mpc": {1, 0, 0, 0, 0, 0, 0},
	"kg":  {0, 1, 0, 0, 0, 0, 0},
	"g":   {0, 1, 0, 0, 0, 0, 0},
	"s":   {0, 0, 1, 0, 0, 0, 0},
	"A":   {0, 0, 0, 1, 0, 0, 0},
	"K":   {0, 0, 0, 0, 1, 0, 0},
	"mol": {0, 0, 0, 0, 0, 1, 0},
	"cd":  {0, 0, 0, 0, 0, 0, 1},
	"Hz":  {0, 0, -1, 0, 0, 0, 0},
	"N":   {1, 1, -2, 0, 0, 0, 0},
	"Pa":  {-1, 1, -2, 0, 0, 0, 0},
	"J":   {2, 1, -2, 0, 0, 0, 0},
	"eV":  {2, 1, -2, 0, 0, 0, 0},
	"W":   {2, 1, -3, 0, 0, 0, 0},
	"C":   {0, 0, 1, 1, 0, 0, 0},
	"V":   {2, 1, -3, -1, 0, 0, 0},
	"T":   {0, 1, -2, -1, 0, 0, 0},
}

// ParseUnit resolves a unit expression such as "kg*m/s^2" or "W/m^2" into a
// dimension vector. Grammar: factor {("*"|"/") factor}, factor = symbol
// ["^" [-]digits]. Unknown symbols are an error, not a silent pass.
func ParseUnit(expr string) (Dimension, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Dimensionless, nil
	}
	dim := Dimensionless
	divide := false
	for _, chunk := range splitOps(expr) {
		if chunk == "*" || chunk == "/" {
			divide = chunk == "/"
			continue
		}
		sym, exp, err := splitExponent(chunk)
		if err != nil {
			return Dimensionless, err
		}
		d, ok := baseUnits[sym]
		if !ok {
			return Dimensionless, fmt.Errorf("unknown unit symbol %q", sym)
		}
		d = d.pow(exp)
		if divide {
			dim = dim.div(d)
		} else {
			dim = dim.mul(d)
		}
		divide = false
	}
	return dim, nil
}

// splitOps tokenizes an expression into symbol chunks and the "*"/"/"
// operators between them.
func splitOps(expr string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range expr {
		switch r {
		case '*', '/':
			if cur.Len() > 0 {
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
			out = append(out, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}

func splitExponent(chunk string) (string, int, error) {
	chunk = strings.TrimSpace(chunk)
	if i := strings.IndexRune(chunk, '^'); i >= 0 {
		exp, err := strconv.Atoi(strings.TrimSpace(chunk[i+1:]))
		if err != nil {
			return "", 0, fmt.Errorf("bad exponent in %q", chunk)
		}
		return strings.TrimSpace(chunk[:i]), exp, nil
	}
	return chunk, 1, nil
}

// CheckEquation re-derives the dimensional consistency of an equation over
// the hypothesis parameters, e.g. "Q = h * A * dT". Identifiers resolve to
// the units of the named parameters; numeric literals are dimensionless.
// Every additive term on a side must share that side's dimension, and both
// sides must agree.
//
// The returned bool is meaningful only when err is nil; an unresolvable
// equation (unknown identifier, malformed expression) is not evidence in
// either direction.
func CheckEquation(equation string, params map[string]hypothesis.Quantity) (bool, error) {
	lhs, rhs, ok := strings.Cut(equation, "=")
	if !ok {
		return false, fmt.Errorf("equation %q has no '='", equation)
	}
	left, err := sideDimension(lhs, params)
	if err != nil {
		return false, err
	}
	right, err := sideDimension(rhs, params)
	if err != nil {
		return false, err
	}
	return left == right, nil
}

// sideDimension evaluates one side of an equation: additive terms split on
// +/- must agree, and each term is a product/quotient of identifiers.
func sideDimension(side string, params map[string]hypothesis.Quantity) (Dimension, error) {
	terms := splitTerms(side)
	if len(terms) == 0 {
		return Dimensionless, fmt.Errorf("empty expression %q", side)
	}
	result, err := termDimension(terms[0], params)
	if err != nil {
		return Dimensionless, err
	}
	for _, term := range terms[1:] {
		d, err := termDimension(term, params)
		if err != nil {
			return Dimensionless, err
		}
		if d != result {
			return Dimensionless, fmt.Errorf("additive terms disagree: %s vs %s", result, d)
		}
	}
	return result, nil
}

// splitTerms breaks an expression on top-level + and - signs. A sign
// directly after an operator or at the start is a unary prefix, not a term
// boundary.
func splitTerms(side string) []string {
	var terms []string
	var cur strings.Builder
	prevOp := true
	for _, r := range side {
		switch {
		case (r == '+' || r == '-') && !prevOp:
			if s := strings.TrimSpace(cur.String()); s != "" {
				terms = append(terms, s)
			}
			cur.Reset()
			prevOp = true
		case r == '*' || r == '/' || r == '^':
			cur.WriteRune(r)
			prevOp = true
		case unicode.IsSpace(r):
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
			prevOp = false
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		terms = append(terms, s)
	}
	return terms
}

// termDimension resolves a multiplicative term of identifiers and numeric
// literals against the parameter units.
func termDimension(term string, params map[string]hypothesis.Quantity) (Dimension, error) {
	dim := Dimensionless
	divide := false
	for _, chunk := range splitOps(term) {
		if chunk == "*" || chunk == "/" {
			divide = chunk == "/"
			continue
		}
		ident, exp, err := splitExponent(chunk)
		if err != nil {
			return Dimensionless, err
		}
		d, err := identDimension(ident, params)
		if err != nil {
			return Dimensionless, err
		}
		d = d.pow(exp)
		if divide {
			dim = dim.div(d)
		} else {
			dim = dim.mul(d)
		}
		divide = false
	}
	return dim, nil
}

func identDimension(ident string, params map[string]hypothesis.Quantity) (Dimension, error) {
	ident = strings.TrimLeft(strings.TrimSpace(ident), "+-")
	if ident == "" {
		return Dimensionless, fmt.Errorf("empty identifier")
	}
	if _, err := strconv.ParseFloat(ident, 64); err == nil {
		return Dimensionless, nil
	}
	q, ok := params[ident]
	if !ok {
		return Dimensionless, fmt.Errorf("unknown identifier %q", ident)
	}
	return ParseUnit(q.Unit)
}
