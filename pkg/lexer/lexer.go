package lexer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xplshn/tacgen/pkg/token"
)

// Position is the scanner's cursor. Line and Column are 1-based; Column
// resets on every newline consumed, comments and literals included.
type Position struct {
	Offset int
	Line   int
	Column int
}

type Lexer struct {
	source []rune
	pos    Position
}

func New(source string) *Lexer {
	return &Lexer{source: []rune(source), pos: Position{Line: 1, Column: 1}}
}

// Tokenize scans the whole source and stops at the first lexical error.
// On success the result always ends with a single EOF token.
func Tokenize(source string) ([]token.Token, error) {
	l := New(source)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// TokenizeAll never aborts: each lexical error is collected and the text it
// covered is kept as an UNKNOWN token.
func TokenizeAll(source string) ([]token.Token, []*Error) {
	l := New(source)
	var tokens []token.Token
	var errs []*Error
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, err.(*Error))
			if tok.Type == token.EOF || tok.Len == 0 {
				continue
			}
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, errs
		}
	}
}

// Next returns the next token. When it fails, the returned token is an
// UNKNOWN token spanning whatever was consumed, and the lexer has always
// moved forward.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.makeToken(token.EOF, "EOF", l.pos), err
	}
	start := l.pos

	if l.isAtEnd() {
		return l.makeToken(token.EOF, "EOF", start), nil
	}

	ch := l.peek()
	if ch == '#' {
		return l.directive(start), nil
	}

	if op := l.operator(); op != "" {
		return l.makeToken(token.Operator, op, start), nil
	}
	if token.PunctuationChars[string(ch)] {
		l.advance()
		return l.makeToken(token.Punctuation, string(ch), start), nil
	}
	if isDigit(ch) {
		return l.numberLiteral(start)
	}
	if unicode.IsLetter(ch) || ch == '_' {
		return l.identifierOrKeyword(start), nil
	}
	if ch == '"' || ch == '\'' {
		return l.quotedLiteral(start)
	}

	l.advance()
	return l.fail(UnknownCharacter, start, "unknown character '%c'", ch)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos.Offset]
}

func (l *Lexer) peekNext() rune {
	if l.pos.Offset+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos.Offset+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos.Offset]
	if ch == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.pos.Offset++
	return ch
}

func (l *Lexer) isAtEnd() bool { return l.pos.Offset >= len(l.source) }

func (l *Lexer) text(start Position) string { return string(l.source[start.Offset:l.pos.Offset]) }

func (l *Lexer) makeToken(tokType token.Type, value string, start Position) token.Token {
	return token.Token{
		Type: tokType, Value: value,
		Line: start.Line, Column: start.Column, Len: l.pos.Offset - start.Offset,
	}
}

func (l *Lexer) fail(kind ErrorKind, start Position, format string, args ...any) (token.Token, error) {
	raw := strings.TrimRight(l.text(start), "\n")
	tok := l.makeToken(token.Unknown, raw, start)
	return tok, &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: start, Len: tok.Len}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for !l.isAtEnd() {
		ch := l.peek()
		switch {
		case unicode.IsSpace(ch):
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '*':
			if err := l.blockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) blockComment() error {
	start := l.pos
	l.advance()
	l.advance()
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return &Error{Kind: UnterminatedComment, Message: "unterminated multi-line comment", Pos: start, Len: l.pos.Offset - start.Offset}
}

// directive reads '#' plus the following letters. Known directives swallow
// the rest of the physical line; their arguments are not tokenized.
func (l *Lexer) directive(start Position) token.Token {
	l.advance()
	for c := l.peek(); isASCIILetter(c) || c == '_'; c = l.peek() {
		l.advance()
	}
	word := l.text(start)
	if !token.Directives[word] {
		return l.makeToken(token.Unknown, word, start)
	}
	tok := l.makeToken(token.Preprocessor, word, start)
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
	return tok
}

// operator tries the widest window first so "===" never lexes as "==", "=".
func (l *Lexer) operator() string {
	for n := token.MaxOperatorLen; n > 0; n-- {
		if l.pos.Offset+n > len(l.source) {
			continue
		}
		candidate := string(l.source[l.pos.Offset : l.pos.Offset+n])
		if token.Operators[candidate] {
			for i := 0; i < n; i++ {
				l.advance()
			}
			return candidate
		}
	}
	return ""
}

var numberPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func (l *Lexer) numberLiteral(start Position) (token.Token, error) {
	seenDot := false
	for !l.isAtEnd() {
		c := l.peek()
		if isDigit(c) {
			l.advance()
		} else if c == '.' && !seenDot {
			seenDot = true
			l.advance()
		} else {
			break
		}
	}

	// An exponent is only attempted when 'e' is followed by a sign or a
	// digit; "1else" stays a number followed by an identifier.
	if c := l.peek(); c == 'e' || c == 'E' {
		if next := l.peekNext(); next == '+' || next == '-' || isDigit(next) {
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	text := l.text(start)
	if !numberPattern.MatchString(text) {
		return l.fail(InvalidNumber, start, "invalid number format near '%s'", text)
	}
	return l.makeToken(token.Number, text, start), nil
}

func (l *Lexer) identifierOrKeyword(start Position) token.Token {
	for c := l.peek(); unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'; c = l.peek() {
		l.advance()
	}
	value := l.text(start)
	if token.Keywords[value] {
		return l.makeToken(token.Keyword, value, start)
	}
	return l.makeToken(token.Identifier, value, start)
}

var escapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r', '\\': '\\', '\'': '\'', '"': '"',
}

func (l *Lexer) quotedLiteral(start Position) (token.Token, error) {
	quote := l.advance()
	kind := "string"
	if quote == '\'' {
		kind = "character"
	}

	var sb strings.Builder
	for {
		if l.isAtEnd() {
			return l.fail(UnterminatedLiteral, start, "unterminated %s literal starting with %c", kind, quote)
		}
		c := l.peek()
		if c == quote {
			l.advance()
			break
		}
		if c == '\n' {
			l.advance()
			return l.fail(NewlineInLiteral, start, "newline in %s literal", kind)
		}
		if c != '\\' {
			sb.WriteRune(l.advance())
			continue
		}

		l.advance()
		if l.isAtEnd() {
			return l.fail(UnterminatedLiteral, start, "unterminated %s literal starting with %c", kind, quote)
		}
		e := l.advance()
		if e == '\n' {
			return l.fail(NewlineInLiteral, start, "newline in %s literal", kind)
		}
		if decoded, ok := escapes[e]; ok {
			sb.WriteRune(decoded)
		} else {
			sb.WriteRune('\\')
			sb.WriteRune(e)
		}
	}

	value := sb.String()
	if quote == '"' {
		return l.makeToken(token.String, value, start), nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return l.fail(InvalidCharLiteral, start, "invalid character literal %s: must hold exactly one character", l.text(start))
	}
	return l.makeToken(token.Character, value, start), nil
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isASCIILetter(c rune) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
