// Package analyzer runs the tokenizer, TAC generator, quadruple lowering
// and symbol-table builder over one source snippet.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/xplshn/tacgen/pkg/codegen"
	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/ir"
	"github.com/xplshn/tacgen/pkg/lexer"
	"github.com/xplshn/tacgen/pkg/symbols"
	"github.com/xplshn/tacgen/pkg/token"
)

type Language string

const (
	C    Language = "c"
	CPP  Language = "cpp"
	Java Language = "java"
)

var Languages = []Language{C, CPP, Java}

var languageNames = map[Language]string{C: "C", CPP: "C++", Java: "Java"}

func (l Language) DisplayName() string { return languageNames[l] }

// ParseLanguage accepts the tags c, cpp and java (case-insensitive) plus a
// few common spellings.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return C, nil
	case "cpp", "c++", "cxx", "cc":
		return CPP, nil
	case "java":
		return Java, nil
	}
	return "", fmt.Errorf("unsupported language '%s'. Supported: c, cpp, java", s)
}

// LanguageForFile guesses the language tag from a file extension.
func LanguageForFile(path string) (Language, bool) {
	switch {
	case strings.HasSuffix(path, ".c"), strings.HasSuffix(path, ".h"):
		return C, true
	case strings.HasSuffix(path, ".cpp"), strings.HasSuffix(path, ".cc"),
		strings.HasSuffix(path, ".cxx"), strings.HasSuffix(path, ".hpp"):
		return CPP, true
	case strings.HasSuffix(path, ".java"):
		return Java, true
	}
	return "", false
}

// Diagnostic is a warning attached to a result. Lexical errors skipped
// under lex-recovery are reported here too.
type Diagnostic struct {
	Warning config.Warning `json:"-"`
	Token   token.Token    `json:"token"`
	Message string         `json:"message"`
}

type Result struct {
	Language         Language       `json:"language"`
	SourceCode       string         `json:"sourceCode"`
	Tokens           []token.Token  `json:"tokens"`
	ThreeAddressCode []ir.TAC       `json:"threeAddressCode"`
	Quadruples       []ir.Quadruple `json:"quadruples"`
	SymbolTable      symbols.Table  `json:"symbolTable"`
	Diagnostics      []Diagnostic   `json:"diagnostics,omitempty"`
}

type Analyzer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs the whole pipeline. A lexical error aborts it and no partial
// result is returned, unless lex-recovery is enabled.
func (a *Analyzer) Analyze(lang Language, source string) (*Result, error) {
	res := &Result{Language: lang, SourceCode: source}

	if a.cfg.IsFeatureEnabled(config.FeatLexRecovery) {
		tokens, errs := lexer.TokenizeAll(source)
		res.Tokens = tokens
		for _, e := range errs {
			tok := token.Token{Type: token.Unknown, Line: e.Pos.Line, Column: e.Pos.Column, Len: e.Len}
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Warning: config.WarnLexRecovered, Token: tok, Message: e.Message})
		}
	} else {
		tokens, err := lexer.Tokenize(source)
		if err != nil {
			return nil, err
		}
		res.Tokens = tokens
	}

	for _, tok := range res.Tokens {
		if tok.Type == token.Unknown && strings.HasPrefix(tok.Value, "#") {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Warning: config.WarnUnknownDirective, Token: tok,
				Message: fmt.Sprintf("unknown preprocessor directive '%s'", tok.Value),
			})
		}
	}

	gen := codegen.NewContext(a.cfg)
	res.ThreeAddressCode = gen.Generate(res.Tokens)
	for _, d := range gen.Diagnostics() {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Warning: d.Warning, Token: d.Token, Message: d.Message})
	}
	res.Quadruples = ir.Lower(res.ThreeAddressCode)
	res.SymbolTable = symbols.NewBuilder(a.cfg).Build(res.Tokens)
	return res, nil
}
