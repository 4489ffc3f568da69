package symbols

import (
	"sort"

	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/token"
)

const GlobalScope = "global"

type Entry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Scope string `json:"scope"`
}

// Table maps identifier names to their entry; a later declaration of the
// same name replaces the earlier one.
type Table map[string]Entry

// Names returns the table keys in sorted order, for stable output.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var declKeywords = map[string]bool{
	"let": true, "const": true, "var": true, "int": true, "float": true, "double": true,
	"char": true, "auto": true, "boolean": true, "byte": true, "short": true, "long": true,
}

var returnTypes = map[string]bool{
	"void": true, "int": true, "float": true, "double": true, "char": true, "long": true,
	"short": true, "boolean": true, "byte": true, "auto": true,
}

type Builder struct {
	scopeStack bool
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{scopeStack: cfg.IsFeatureEnabled(config.FeatScopeStack)}
}

// Build runs the builder with the default (flat scope) configuration.
func Build(tokens []token.Token) Table {
	return NewBuilder(config.NewConfig()).Build(tokens)
}

func (b *Builder) Build(tokens []token.Token) Table {
	table := make(Table)
	sc := newScopes(b.scopeStack)
	at := func(i int) token.Token {
		if i >= 0 && i < len(tokens) {
			return tokens[i]
		}
		return token.Token{Type: token.EOF, Value: "EOF"}
	}

	for i := 0; i < len(tokens); i++ {
		tok, prev, next := tokens[i], at(i-1), at(i+1)

		switch {
		case tok.IsPunct("}"):
			sc.exit()
			continue
		case tok.IsPunct("{"):
			sc.enter()
			continue
		case tok.IsPunct(";"):
			sc.endStatement()
			continue
		}

		if tok.Type == token.Identifier && next.IsPunct("(") && isReturnType(prev) {
			table[tok.Value] = Entry{Name: tok.Value, Type: prev.Value + " function", Scope: GlobalScope}
			sc.open(tok.Value)
			continue
		}

		if typ, n := declKeyword(tokens, i); n > 0 {
			ident := at(i + n)
			if ident.Type == token.Identifier && !at(i+n+1).IsPunct("(") {
				table[ident.Value] = Entry{Name: ident.Value, Type: typ, Scope: sc.current}
				i += n
				if at(i+1).Is(token.Operator, "=") {
					for i+1 < len(tokens) && !tokens[i+1].IsPunct(";") && tokens[i+1].Type != token.EOF {
						i++
					}
				}
				continue
			}
		}

		switch {
		case tok.Type == token.Identifier && prev.IsKeyword("class"):
			table[tok.Value] = Entry{Name: tok.Value, Type: "class", Scope: GlobalScope}
			sc.open(tok.Value)
		case tok.IsKeyword("using") && next.IsKeyword("namespace"):
			if ns := at(i + 2); ns.Type == token.Identifier || ns.Type == token.Keyword {
				table["using_namespace_"+ns.Value] = Entry{Name: "using namespace " + ns.Value, Type: "directive", Scope: sc.current}
				i += 2
			}
		}
	}
	return table
}

func isReturnType(tok token.Token) bool {
	return tok.Type == token.Identifier || (tok.Type == token.Keyword && returnTypes[tok.Value])
}

// declKeyword reports the declared type starting at tokens[i] and how many
// tokens spell it; n is zero when no declaration keyword starts there.
func declKeyword(tokens []token.Token, i int) (typ string, n int) {
	tok := tokens[i]
	switch {
	case tok.Type == token.Keyword && declKeywords[tok.Value]:
		return tok.Value, 1
	case tok.Is(token.Identifier, "String"):
		return tok.Value, 1
	case tok.Is(token.Identifier, "std") && i+2 < len(tokens) &&
		tokens[i+1].Is(token.Operator, "::") && tokens[i+2].Is(token.Identifier, "string"):
		return "std::string", 3
	}
	return "", 0
}
