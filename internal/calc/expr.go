package calc

import (
	"strings"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// ParseExpression parses a one-line infix expression:
//
//	a + b    a - b    a * b    a / b    a % b    a <=> b
//	a ^ e mod m
//
// Operation names may replace the symbols ("a mul b", "a modexp e mod m").
// Tokens are separated by whitespace.
func ParseExpression(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 5 {
		return Request{}, apperrors.ValidationError{
			Field:   "expression",
			Message: "expected \"a <op> b\" or \"a ^ e mod m\"",
		}
	}
	op, err := ParseOp(fields[1])
	if err != nil {
		return Request{}, err
	}
	m := ""
	switch {
	case op == OpModExp && len(fields) == 5:
		if !strings.EqualFold(fields[3], "mod") {
			return Request{}, apperrors.ValidationError{Field: "expression", Message: "expected \"mod\" before the modulus"}
		}
		m = fields[4]
	case op == OpModExp:
		return Request{}, apperrors.ValidationError{Field: "expression", Message: "modexp requires \"mod m\""}
	case len(fields) == 5:
		return Request{}, apperrors.ValidationError{Field: "expression", Message: "only modexp takes a modulus"}
	}
	return NewRequest(string(op), fields[0], fields[2], m)
}
