package codegen

import (
	"fmt"
	"strconv"

	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/ir"
	"github.com/xplshn/tacgen/pkg/token"
)

// Diagnostic records a place where the generator fell back to a
// placeholder. Generation itself never fails.
type Diagnostic struct {
	Token   token.Token
	Warning config.Warning
	Message string
}

type Context struct {
	tokens     []token.Token
	pos        int
	tac        []ir.TAC
	tempCount  int
	labelCount int
	callTemps  bool
	diags      []Diagnostic
}

func NewContext(cfg *config.Config) *Context {
	return &Context{callTemps: cfg.IsFeatureEnabled(config.FeatCallTemps)}
}

// Generate runs the generator with the default configuration.
func Generate(tokens []token.Token) []ir.TAC {
	return NewContext(config.NewConfig()).Generate(tokens)
}

// Generate scans tokens once, left to right. Temporary and label counters
// start at zero for every call and are never reused within it.
func (ctx *Context) Generate(tokens []token.Token) []ir.TAC {
	ctx.tokens, ctx.pos = tokens, 0
	ctx.tac, ctx.diags = nil, nil
	ctx.tempCount, ctx.labelCount = 0, 0

	for ctx.pos < len(ctx.tokens) && ctx.tokens[ctx.pos].Type != token.EOF {
		st, ok := ctx.recognize()
		if !ok {
			ctx.pos++
			continue
		}
		ctx.emitStmt(st)
		ctx.pos = st.end
	}
	return ctx.tac
}

func (ctx *Context) Diagnostics() []Diagnostic { return ctx.diags }

func (ctx *Context) newTemp() string {
	t := fmt.Sprintf("t%d", ctx.tempCount)
	ctx.tempCount++
	return t
}

func (ctx *Context) newLabel() string {
	l := fmt.Sprintf("L%d", ctx.labelCount)
	ctx.labelCount++
	return l
}

func (ctx *Context) addInstr(op string, arg1, arg2 *string, result string) {
	ctx.tac = append(ctx.tac, ir.TAC{Op: op, Arg1: arg1, Arg2: arg2, Result: result})
}

func (ctx *Context) warn(tok token.Token, w config.Warning, format string, args ...any) {
	ctx.diags = append(ctx.diags, Diagnostic{Token: tok, Warning: w, Message: fmt.Sprintf(format, args...)})
}

func (ctx *Context) emitStmt(st stmt) {
	switch st.kind {
	case stmtDecl, stmtAssign:
		ctx.codegenAssign(st)
	case stmtIf:
		ctx.codegenIf(st)
	case stmtWhile:
		ctx.codegenWhile(st)
	case stmtCall:
		ctx.codegenCall(st)
	}
}

// codegenAssign lowers `target = expr`. Only a lone operand or a single
// binary operation are lowered; anything longer becomes a placeholder.
func (ctx *Context) codegenAssign(st stmt) {
	e := st.expr
	switch {
	case len(e) == 1 && e[0].IsOperand():
		ctx.addInstr(ir.OpAssign, ir.Arg(e[0].Value), nil, st.target)
	case isSimpleBinary(e, false):
		t := ctx.newTemp()
		ctx.addInstr(e[1].Value, ir.Arg(e[0].Value), ir.Arg(e[2].Value), t)
		ctx.addInstr(ir.OpAssign, ir.Arg(t), nil, st.target)
	default:
		ctx.warn(st.at, config.WarnUnsupportedExpr, "expression assigned to '%s' is too complex, emitting placeholder", st.target)
		ctx.addInstr(ir.OpAssign, ir.Arg(ir.ExprPlaceholder), nil, st.target)
	}
}

func (ctx *Context) codegenIf(st stmt) {
	c := st.expr
	if !isSimpleBinary(c, true) {
		ctx.warn(st.at, config.WarnComplexCond, "condition is not a single comparison")
		ctx.addInstr(ir.OpIfFalse, ir.Arg(ir.ComplexCond), nil, ir.GotoResult(ir.ComplexElseLabel))
		return
	}
	cond := ctx.newTemp()
	elseL := ctx.newLabel()
	ctx.addInstr(c[1].Value, ir.Arg(c[0].Value), ir.Arg(c[2].Value), cond)
	ctx.addInstr(ir.OpIfFalse, ir.Arg(cond), nil, ir.GotoResult(elseL))
	ctx.addInstr(ir.OpLabel, ir.Arg(elseL), nil, ir.LabelResult)
}

func (ctx *Context) codegenWhile(st stmt) {
	startL, endL := ctx.newLabel(), ctx.newLabel()
	ctx.addInstr(ir.OpLabel, ir.Arg(startL), nil, ir.LabelResult)

	c := st.expr
	if isSimpleBinary(c, true) {
		cond := ctx.newTemp()
		ctx.addInstr(c[1].Value, ir.Arg(c[0].Value), ir.Arg(c[2].Value), cond)
		ctx.addInstr(ir.OpIfFalse, ir.Arg(cond), nil, ir.GotoResult(endL))
	} else {
		ctx.warn(st.at, config.WarnComplexCond, "loop condition is not a single comparison")
		ctx.addInstr(ir.OpIfFalse, ir.Arg(ir.ComplexCond), nil, ir.GotoResult(endL))
	}

	ctx.addInstr(ir.OpGoto, ir.Arg(startL), nil, "")
	ctx.addInstr(ir.OpLabel, ir.Arg(endL), nil, ir.LabelResult)
}

func (ctx *Context) codegenCall(st stmt) {
	for _, arg := range st.args {
		if len(arg) == 1 && arg[0].IsOperand() {
			ctx.addInstr(ir.OpParam, ir.Arg(arg[0].Value), nil, "")
			continue
		}
		ctx.warn(arg[0], config.WarnUnsupportedExpr, "argument to '%s' is too complex, emitting placeholder", st.target)
		ctx.addInstr(ir.OpParam, ir.Arg(ir.ExprPlaceholder), nil, "")
	}

	result := ""
	if ctx.callTemps {
		result = ctx.newTemp()
	}
	ctx.addInstr(ir.OpCall, ir.Arg(st.target), ir.Arg(strconv.Itoa(len(st.args))), result)
}

// isSimpleBinary reports whether e is exactly `operand OP operand`. With
// comparison set, OP must be a relational or equality operator.
func isSimpleBinary(e []token.Token, comparison bool) bool {
	if len(e) != 3 || !e[0].IsOperand() || !e[2].IsOperand() {
		return false
	}
	if comparison {
		return e[1].IsComparison()
	}
	return e[1].IsBinaryOp()
}
