package codegen

import "github.com/xplshn/tacgen/pkg/token"

type stmtKind int

const (
	stmtAssign stmtKind = iota
	stmtDecl
	stmtIf
	stmtWhile
	stmtCall
)

// stmt is a recognized statement shape. expr holds the right-hand side for
// assignments and the parenthesized condition for if/while.
type stmt struct {
	kind   stmtKind
	at     token.Token
	target string
	expr   []token.Token
	args   [][]token.Token
	end    int
}

var declKeywords = map[string]bool{
	"let": true, "const": true, "var": true, "int": true,
	"float": true, "double": true, "char": true, "auto": true,
}

type recognizer func(ctx *Context) (stmt, bool)

var recognizers = []recognizer{
	(*Context).recognizeAssign,
	(*Context).recognizeDecl,
	(*Context).recognizeIf,
	(*Context).recognizeWhile,
	(*Context).recognizeCall,
}

func (ctx *Context) recognize() (stmt, bool) {
	for _, r := range recognizers {
		if st, ok := r(ctx); ok {
			return st, true
		}
	}
	return stmt{}, false
}

func (ctx *Context) at(i int) token.Token {
	if i >= 0 && i < len(ctx.tokens) {
		return ctx.tokens[i]
	}
	return token.Token{Type: token.EOF, Value: "EOF"}
}

// `ident = expr ;`
func (ctx *Context) recognizeAssign() (stmt, bool) {
	tok := ctx.at(ctx.pos)
	if tok.Type != token.Identifier || !ctx.at(ctx.pos+1).Is(token.Operator, "=") {
		return stmt{}, false
	}
	semi, ok := ctx.findSemi(ctx.pos + 2)
	if !ok {
		return stmt{}, false
	}
	return stmt{kind: stmtAssign, at: tok, target: tok.Value, expr: ctx.tokens[ctx.pos+2 : semi], end: semi + 1}, true
}

// `T ident = expr ;`
func (ctx *Context) recognizeDecl() (stmt, bool) {
	tok := ctx.at(ctx.pos)
	name := ctx.at(ctx.pos + 1)
	if tok.Type != token.Keyword || !declKeywords[tok.Value] || name.Type != token.Identifier ||
		!ctx.at(ctx.pos+2).Is(token.Operator, "=") {
		return stmt{}, false
	}
	semi, ok := ctx.findSemi(ctx.pos + 3)
	if !ok {
		return stmt{}, false
	}
	return stmt{kind: stmtDecl, at: tok, target: name.Value, expr: ctx.tokens[ctx.pos+3 : semi], end: semi + 1}, true
}

func (ctx *Context) recognizeIf() (stmt, bool)    { return ctx.recognizeCond("if", stmtIf) }
func (ctx *Context) recognizeWhile() (stmt, bool) { return ctx.recognizeCond("while", stmtWhile) }

// `kw ( cond ) body` where body is a braced block or a single statement.
func (ctx *Context) recognizeCond(keyword string, kind stmtKind) (stmt, bool) {
	tok := ctx.at(ctx.pos)
	if !tok.IsKeyword(keyword) || !ctx.at(ctx.pos+1).IsPunct("(") {
		return stmt{}, false
	}
	closing := ctx.matchParen(ctx.pos + 1)
	if closing < 0 {
		return stmt{}, false
	}
	return stmt{kind: kind, at: tok, expr: ctx.tokens[ctx.pos+2 : closing], end: ctx.skipBody(closing + 1)}, true
}

// `ident ( args ) ;` at the start of a statement.
func (ctx *Context) recognizeCall() (stmt, bool) {
	tok := ctx.at(ctx.pos)
	if tok.Type != token.Identifier || !ctx.at(ctx.pos+1).IsPunct("(") || !ctx.atStatementStart() {
		return stmt{}, false
	}
	closing := ctx.matchParen(ctx.pos + 1)
	if closing < 0 || !ctx.at(closing+1).IsPunct(";") {
		return stmt{}, false
	}
	return stmt{kind: stmtCall, at: tok, target: tok.Value, args: splitArgs(ctx.tokens[ctx.pos+2 : closing]), end: closing + 2}, true
}

// atStatementStart accepts a call after a statement boundary: `;`, a
// brace, a closing `)` (loop headers, casts), a `case x:` label, `else`,
// `do`, or a preprocessor line. Prototypes such as `int f(int a);`, member
// calls and nested calls like `return f(x);` follow something else.
func (ctx *Context) atStatementStart() bool {
	if ctx.pos == 0 {
		return true
	}
	prev := ctx.at(ctx.pos - 1)
	switch prev.Type {
	case token.Punctuation:
		return prev.Value == ";" || prev.Value == "{" || prev.Value == "}" || prev.Value == ")"
	case token.Operator:
		return prev.Value == ":"
	case token.Keyword:
		return prev.Value == "else" || prev.Value == "do"
	case token.Preprocessor:
		return true
	}
	return false
}

// findSemi returns the index of the `;` ending the statement that starts at
// from. A brace or EOF before it means the statement is not a simple one.
func (ctx *Context) findSemi(from int) (int, bool) {
	for i := from; i < len(ctx.tokens); i++ {
		tok := ctx.tokens[i]
		switch {
		case tok.Type == token.EOF, tok.IsPunct("{"), tok.IsPunct("}"):
			return 0, false
		case tok.IsPunct(";"):
			return i, true
		}
	}
	return 0, false
}

// matchParen returns the index of the `)` closing the `(` at open, or -1
// if a statement boundary or EOF comes first.
func (ctx *Context) matchParen(open int) int {
	depth := 0
	for i := open; i < len(ctx.tokens); i++ {
		tok := ctx.tokens[i]
		switch {
		case tok.Type == token.EOF, tok.IsPunct(";"), tok.IsPunct("{"), tok.IsPunct("}"):
			return -1
		case tok.IsPunct("("):
			depth++
		case tok.IsPunct(")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipBody returns the index just past the body starting at from: the
// matching `}` of a braced block, or the next `;` otherwise. Nothing inside
// is generated.
func (ctx *Context) skipBody(from int) int {
	i := from
	if ctx.at(i).IsPunct("{") {
		depth := 0
		for ; i < len(ctx.tokens) && ctx.tokens[i].Type != token.EOF; i++ {
			switch {
			case ctx.tokens[i].IsPunct("{"):
				depth++
			case ctx.tokens[i].IsPunct("}"):
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
		return i
	}
	for ; i < len(ctx.tokens) && ctx.tokens[i].Type != token.EOF; i++ {
		if ctx.tokens[i].IsPunct(";") {
			return i + 1
		}
	}
	return i
}

// splitArgs splits call arguments on top-level commas, dropping empty
// groups.
func splitArgs(toks []token.Token) [][]token.Token {
	var args [][]token.Token
	depth, start := 0, 0
	flush := func(end int) {
		if end > start {
			args = append(args, toks[start:end])
		}
	}
	for i, tok := range toks {
		switch {
		case tok.IsPunct("("), tok.IsPunct("["), tok.IsPunct("{"):
			depth++
		case tok.IsPunct(")"), tok.IsPunct("]"), tok.IsPunct("}"):
			depth--
		case tok.IsPunct(",") && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(toks))
	return args
}
