package ir

import (
	"fmt"
	"strings"
)

// Instruction op names other than the arithmetic/comparison operators,
// which are carried verbatim from the source token.
const (
	OpAssign    = "="
	OpLabel     = "label"
	OpGoto      = "goto"
	OpIfFalse   = "if_false"
	OpParam     = "param"
	OpCall      = "call"
	OpJumpFalse = "JUMP_FALSE"
)

// Placeholders emitted for shapes the generator does not lower.
const (
	ExprPlaceholder  = "expr(...)"
	ComplexCond      = "complex_cond"
	ComplexElseLabel = "L_complex_else"
	LabelResult      = ":"
	gotoResultPrefix = "goto "
)

// TAC is one three-address instruction. A nil Arg1/Arg2 is an absent
// operand and encodes as JSON null.
type TAC struct {
	Op     string  `json:"op"`
	Arg1   *string `json:"arg1"`
	Arg2   *string `json:"arg2"`
	Result string  `json:"result"`
}

type Quadruple struct {
	Op     string  `json:"op"`
	Arg1   *string `json:"arg1"`
	Arg2   *string `json:"arg2"`
	Result string  `json:"result"`
}

// Arg returns a pointer to a copy of s, for building operands inline.
func Arg(s string) *string { return &s }

func GotoResult(label string) string { return gotoResultPrefix + label }

// Lower maps each TAC instruction to its quadruple. Only if_false changes
// shape: it becomes JUMP_FALSE with the target label in Arg2.
func Lower(tac []TAC) []Quadruple {
	quads := make([]Quadruple, len(tac))
	for i, code := range tac {
		q := Quadruple{Op: code.Op, Arg1: code.Arg1, Arg2: code.Arg2, Result: code.Result}
		if code.Op == OpIfFalse {
			q.Op = OpJumpFalse
			q.Arg2 = Arg(strings.TrimPrefix(code.Result, gotoResultPrefix))
			q.Result = ""
		}
		quads[i] = q
	}
	return quads
}

func operand(s *string, absent string) string {
	if s == nil {
		return absent
	}
	return *s
}

// String renders the instruction in conventional three-address form.
func (t TAC) String() string {
	a1, a2 := operand(t.Arg1, ""), operand(t.Arg2, "")
	switch t.Op {
	case OpAssign:
		return fmt.Sprintf("%s = %s", t.Result, a1)
	case OpLabel:
		return a1 + t.Result
	case OpGoto:
		return "goto " + a1
	case OpIfFalse:
		return fmt.Sprintf("if_false %s %s", a1, t.Result)
	case OpParam:
		return "param " + a1
	case OpCall:
		if t.Result == "" {
			return fmt.Sprintf("call %s, %s", a1, a2)
		}
		return fmt.Sprintf("%s = call %s, %s", t.Result, a1, a2)
	}
	return fmt.Sprintf("%s = %s %s %s", t.Result, a1, t.Op, a2)
}

func (q Quadruple) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", q.Op, operand(q.Arg1, "_"), operand(q.Arg2, "_"), q.Result)
}

// FormatTAC lists instructions one per line, 1-based, tab separated.
func FormatTAC(tac []TAC) string {
	if len(tac) == 0 {
		return "(empty)"
	}
	lines := make([]string, len(tac))
	for i, code := range tac {
		lines[i] = fmt.Sprintf("%d: %s\t%s\t%s\t=> %s", i+1, code.Op, operand(code.Arg1, " "), operand(code.Arg2, " "), code.Result)
	}
	return strings.Join(lines, "\n")
}

// FormatQuads lists quadruples one per line, 0-based.
func FormatQuads(quads []Quadruple) string {
	if len(quads) == 0 {
		return "(empty)"
	}
	lines := make([]string, len(quads))
	for i, q := range quads {
		lines[i] = fmt.Sprintf("%d: %s", i, q)
	}
	return strings.Join(lines, "\n")
}
