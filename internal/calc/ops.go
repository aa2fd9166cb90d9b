package calc

import (
	"context"
	"fmt"
	"strings"

	"github.com/agbru/bigcalc/internal/bigint"
	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// Op identifies an arithmetic operation.
type Op string

const (
	OpAdd    Op = "add"
	OpSub    Op = "sub"
	OpMul    Op = "mul"
	OpDiv    Op = "div"
	OpMod    Op = "mod"
	OpModExp Op = "modexp"
	OpCmp    Op = "cmp"
)

var allOps = []Op{OpAdd, OpSub, OpMul, OpDiv, OpMod, OpModExp, OpCmp}

// Ops returns every supported operation in display order.
func Ops() []Op {
	return append([]Op(nil), allOps...)
}

// opSymbols maps infix symbols accepted by ParseExpression.
var opSymbols = map[string]Op{
	"+":   OpAdd,
	"-":   OpSub,
	"*":   OpMul,
	"/":   OpDiv,
	"%":   OpMod,
	"^":   OpModExp,
	"<=>": OpCmp,
}

// ParseOp resolves an operation name or symbol, case-insensitively.
func ParseOp(s string) (Op, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if op, ok := opSymbols[s]; ok {
		return op, nil
	}
	for _, op := range allOps {
		if string(op) == s {
			return op, nil
		}
	}
	return "", apperrors.ValidationError{
		Field:   "op",
		Message: fmt.Sprintf("unknown operation %q (available: %s)", s, joinOps()),
	}
}

func joinOps() string {
	names := make([]string, len(allOps))
	for i, op := range allOps {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// UsesMultiplier reports whether the strategy choice affects how op is
// computed. Only products and modular exponentiation multiply.
func (op Op) UsesMultiplier() bool {
	return op == OpMul || op == OpModExp
}

// Request is one arithmetic operation with its operands. M is the modulus
// and is only read by OpModExp.
type Request struct {
	Op Op
	A  bigint.BigInt
	B  bigint.BigInt
	M  bigint.BigInt
}

// Validate checks that the operation is known.
func (r Request) Validate() error {
	if _, err := ParseOp(string(r.Op)); err != nil {
		return err
	}
	return nil
}

// String renders the request as an infix expression.
func (r Request) String() string {
	switch r.Op {
	case OpModExp:
		return fmt.Sprintf("%s ^ %s mod %s", r.A, r.B, r.M)
	case OpCmp:
		return fmt.Sprintf("%s <=> %s", r.A, r.B)
	}
	for sym, op := range opSymbols {
		if op == r.Op {
			return fmt.Sprintf("%s %s %s", r.A, sym, r.B)
		}
	}
	return fmt.Sprintf("%s %s %s", r.A, r.Op, r.B)
}

// NewRequest parses decimal operands into a request. m may be empty unless
// op is OpModExp.
func NewRequest(op, a, b, m string) (Request, error) {
	parsed, err := ParseOp(op)
	if err != nil {
		return Request{}, err
	}
	req := Request{Op: parsed}
	if req.A, err = parseOperand("a", a); err != nil {
		return Request{}, err
	}
	if req.B, err = parseOperand("b", b); err != nil {
		return Request{}, err
	}
	if parsed == OpModExp {
		if strings.TrimSpace(m) == "" {
			return Request{}, apperrors.ValidationError{Field: "m", Message: "modexp requires a modulus"}
		}
		if req.M, err = parseOperand("m", m); err != nil {
			return Request{}, err
		}
	}
	return req, nil
}

func parseOperand(field, s string) (bigint.BigInt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return bigint.BigInt{}, apperrors.ValidationError{Field: field, Message: "operand is required"}
	}
	return bigint.Parse(s)
}

// Evaluate computes req with products delegated to m. Comparison yields
// -1, 0 or 1.
func Evaluate(m bigint.Multiplier, req Request) (bigint.BigInt, error) {
	return EvaluateContext(context.Background(), m, req)
}

// EvaluateContext is Evaluate whose divisions and modular reductions stop
// with ctx.Err() once ctx is done.
func EvaluateContext(ctx context.Context, m bigint.Multiplier, req Request) (bigint.BigInt, error) {
	switch req.Op {
	case OpAdd:
		return req.A.Add(req.B), nil
	case OpSub:
		return req.A.Sub(req.B), nil
	case OpMul:
		return m.Multiply(req.A, req.B), nil
	case OpDiv:
		return req.A.QuoContext(ctx, req.B)
	case OpMod:
		return req.A.RemContext(ctx, req.B)
	case OpModExp:
		return req.A.ModExpContext(ctx, m, req.B, req.M)
	case OpCmp:
		return bigint.FromInt64(int64(req.A.Cmp(req.B))), nil
	}
	return bigint.BigInt{}, req.Validate()
}
