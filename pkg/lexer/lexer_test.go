package lexer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/xplshn/tacgen/pkg/token"
)

type tv struct {
	Type  token.Type
	Value string
}

func kinds(tokens []token.Token) []tv {
	out := make([]tv, len(tokens))
	for i, tok := range tokens {
		out[i] = tv{tok.Type, tok.Value}
	}
	return out
}

func mustTokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return tokens
}

func TestTokenizeAssignment(t *testing.T) {
	got := mustTokenize(t, "x = 5;")
	want := []token.Token{
		{Type: token.Identifier, Value: "x", Line: 1, Column: 1, Len: 1},
		{Type: token.Operator, Value: "=", Line: 1, Column: 3, Len: 1},
		{Type: token.Number, Value: "5", Line: 1, Column: 5, Len: 1},
		{Type: token.Punctuation, Value: ";", Line: 1, Column: 6, Len: 1},
		{Type: token.EOF, Value: "EOF", Line: 1, Column: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tv
	}{
		{"longest operator", "a === b", []tv{
			{token.Identifier, "a"}, {token.Operator, "==="}, {token.Identifier, "b"},
		}},
		{"arrow and scope", "p->x; std::cout", []tv{
			{token.Identifier, "p"}, {token.Operator, "->"}, {token.Identifier, "x"}, {token.Punctuation, ";"},
			{token.Identifier, "std"}, {token.Operator, "::"}, {token.Identifier, "cout"},
		}},
		{"colon is an operator", "a ? b : c", []tv{
			{token.Identifier, "a"}, {token.Operator, "?"}, {token.Identifier, "b"},
			{token.Operator, ":"}, {token.Identifier, "c"},
		}},
		{"keywords", "int while return", []tv{
			{token.Keyword, "int"}, {token.Keyword, "while"}, {token.Keyword, "return"},
		}},
		{"numbers", "3.14 1e10 2.5E-3 7.", []tv{
			{token.Number, "3.14"}, {token.Number, "1e10"},
			{token.Number, "2.5E-3"}, {token.Number, "7."},
		}},
		{"leading dot is an operator", "x = .5;", []tv{
			{token.Identifier, "x"}, {token.Operator, "="}, {token.Operator, "."},
			{token.Number, "5"}, {token.Punctuation, ";"},
		}},
		{"number then identifier", "1else", []tv{
			{token.Number, "1"}, {token.Keyword, "else"},
		}},
		{"member access", "a.b", []tv{
			{token.Identifier, "a"}, {token.Operator, "."}, {token.Identifier, "b"},
		}},
		{"escapes", `"a\tb" "\q" '\n' 'z' ""`, []tv{
			{token.String, "a\tb"}, {token.String, `\q`}, {token.Character, "\n"},
			{token.Character, "z"}, {token.String, ""},
		}},
		{"comments", "// line\nx /* block\n */ = 1;", []tv{
			{token.Identifier, "x"}, {token.Operator, "="}, {token.Number, "1"}, {token.Punctuation, ";"},
		}},
		{"directive swallows line", "#include <stdio.h>\nint x;", []tv{
			{token.Preprocessor, "#include"}, {token.Keyword, "int"}, {token.Identifier, "x"}, {token.Punctuation, ";"},
		}},
		{"unknown directive", "#foo bar", []tv{
			{token.Unknown, "#foo"}, {token.Identifier, "bar"},
		}},
		{"unicode identifier", "café_2 = 1", []tv{
			{token.Identifier, "café_2"}, {token.Operator, "="}, {token.Number, "1"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(mustTokenize(t, tt.src))
			want := append(tt.want, tv{token.EOF, "EOF"})
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPositions(t *testing.T) {
	src := "int a;\n/* two\nlines */ b = 'c';\n  \"s\""
	got := mustTokenize(t, src)
	type pos struct {
		Value        string
		Line, Column int
	}
	var positions []pos
	for _, tok := range got {
		positions = append(positions, pos{tok.Value, tok.Line, tok.Column})
	}
	want := []pos{
		{"int", 1, 1}, {"a", 1, 5}, {";", 1, 6},
		{"b", 3, 10}, {"=", 3, 12}, {"c", 3, 14}, {";", 3, 17},
		{"s", 4, 3},
		{"EOF", 4, 6},
	}
	if diff := cmp.Diff(want, positions); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		kind         ErrorKind
		line, column int
	}{
		{"unterminated string", `"abc`, UnterminatedLiteral, 1, 1},
		{"unterminated char", `x = 'a`, UnterminatedLiteral, 1, 5},
		{"newline in string", "s = \"ab\ncd\";", NewlineInLiteral, 1, 5},
		{"long char literal", "c = 'ab';", InvalidCharLiteral, 1, 5},
		{"empty char literal", "c = '';", InvalidCharLiteral, 1, 5},
		{"unterminated comment", "x = 1; /* never closed", UnterminatedComment, 1, 8},
		{"exponent without digits", "x = 1e+;", InvalidNumber, 1, 5},
		{"unknown character", "x = @;", UnknownCharacter, 1, 5},
		{"unknown on second line", "x;\n  $", UnknownCharacter, 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded with %v", tt.src, kinds(tokens))
			}
			if tokens != nil {
				t.Errorf("partial tokens returned: %v", kinds(tokens))
			}
			if !errors.Is(err, &Error{Kind: tt.kind}) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("err is %T, want *Error", err)
			}
			if lexErr.Pos.Line != tt.line || lexErr.Pos.Column != tt.column {
				t.Errorf("error at %d:%d, want %d:%d", lexErr.Pos.Line, lexErr.Pos.Column, tt.line, tt.column)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := Tokenize("x = @;")
	const want = "lexer error at 1:5: unknown character '@'"
	if err == nil || err.Error() != want {
		t.Errorf("err = %v, want %q", err, want)
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	src := "#include <stdio.h>\nint main() { int a = 10; while (a < 20) { a = a + 1; } printf(\"%d\", a); }"
	first := mustTokenize(t, src)
	second := mustTokenize(t, src)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("tokenize is not deterministic:\n%s", diff)
	}
}

func TestSingleEOF(t *testing.T) {
	for _, src := range []string{"", "   \n\t", "// only a comment", "a b c"} {
		tokens := mustTokenize(t, src)
		eofs := 0
		for _, tok := range tokens {
			if tok.Type == token.EOF {
				eofs++
			}
		}
		if eofs != 1 || tokens[len(tokens)-1].Type != token.EOF {
			t.Errorf("Tokenize(%q): want exactly one trailing EOF, got %v", src, kinds(tokens))
		}
	}
}

func TestTokenizeAll(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []tv
		kinds []ErrorKind
	}{
		{"unknown characters", "a @ b $$", []tv{
			{token.Identifier, "a"}, {token.Unknown, "@"}, {token.Identifier, "b"},
			{token.Unknown, "$"}, {token.Unknown, "$"},
		}, []ErrorKind{UnknownCharacter, UnknownCharacter, UnknownCharacter}},
		{"unterminated comment", "a /* x", []tv{
			{token.Identifier, "a"},
		}, []ErrorKind{UnterminatedComment}},
		{"unterminated string", `x = "abc`, []tv{
			{token.Identifier, "x"}, {token.Operator, "="}, {token.Unknown, `"abc`},
		}, []ErrorKind{UnterminatedLiteral}},
		{"newline in string", "s = \"ab\ny;", []tv{
			{token.Identifier, "s"}, {token.Operator, "="}, {token.Unknown, `"ab`},
			{token.Identifier, "y"}, {token.Punctuation, ";"},
		}, []ErrorKind{NewlineInLiteral}},
		{"clean input", "x = 1;", []tv{
			{token.Identifier, "x"}, {token.Operator, "="}, {token.Number, "1"}, {token.Punctuation, ";"},
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, errs := TokenizeAll(tt.src)
			want := append(tt.want, tv{token.EOF, "EOF"})
			if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			var gotKinds []ErrorKind
			for _, e := range errs {
				gotKinds = append(gotKinds, e.Kind)
			}
			if diff := cmp.Diff(tt.kinds, gotKinds, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("error kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Every byte value must be consumed, whatever it is.
func TestTokenizeAllProgress(t *testing.T) {
	var src []byte
	for b := 1; b < 128; b++ {
		src = append(src, byte(b))
	}
	tokens, _ := TokenizeAll(string(src))
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		t.Fatalf("TokenizeAll did not reach EOF: %v", kinds(tokens))
	}
}

func TestNextAlwaysAdvances(t *testing.T) {
	l := New("@#`\\")
	for i := 0; i < 10; i++ {
		before := l.pos.Offset
		tok, _ := l.Next()
		if tok.Type == token.EOF {
			return
		}
		if l.pos.Offset <= before {
			t.Fatalf("lexer stalled at offset %d on %q", before, tok.Value)
		}
	}
	t.Fatal("lexer never reached EOF")
}
