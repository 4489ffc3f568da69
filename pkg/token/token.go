package token

type Type int

const (
	EOF Type = iota
	Keyword
	Identifier
	Operator
	Punctuation
	Number
	String
	Character
	Preprocessor
	Unknown
)

var typeNames = [...]string{
	EOF:          "EOF",
	Keyword:      "KEYWORD",
	Identifier:   "IDENTIFIER",
	Operator:     "OPERATOR",
	Punctuation:  "PUNCTUATION",
	Number:       "NUMBER",
	String:       "STRING",
	Character:    "CHARACTER",
	Preprocessor: "PREPROCESSOR",
	Unknown:      "UNKNOWN",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "UNKNOWN"
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	for i, name := range typeNames {
		if name == string(b) {
			*t = Type(i)
			return nil
		}
	}
	*t = Unknown
	return nil
}

// Keywords covers C, C++ and Java reserved words plus a handful of JS and
// library identifiers the analyzer treats as reserved.
var Keywords = setOf(
	// JS base
	"let", "const", "var", "if", "else", "for", "while", "function", "return", "class", "new",
	"import", "export", "from", "switch", "case", "default", "break", "continue", "try", "catch",
	"finally", "throw", "async", "await", "public", "private", "protected", "static", "void",
	"interface", "implements", "extends", "super", "this", "true", "false", "null", "undefined",
	// C
	"int", "float", "double", "char", "long", "short", "unsigned", "signed", "struct", "union",
	"enum", "typedef", "sizeof", "goto", "volatile", "extern", "register", "auto", "do",
	// C++
	"namespace", "using", "template", "typename", "virtual", "override", "final", "delete",
	"explicit", "friend", "inline", "mutable", "nullptr", "operator", "reinterpret_cast",
	"static_cast", "dynamic_cast", "const_cast", "noexcept", "bool",
	// Java
	"package", "boolean", "byte", "instanceof", "native", "strictfp", "synchronized", "throws",
	"transient", "abstract", "assert",
)

var Directives = setOf(
	"#include", "#define", "#undef", "#ifdef", "#ifndef", "#if", "#elif", "#else", "#endif",
	"#pragma", "#error",
)

// Operators is matched longest first by the lexer, so every entry is at
// most MaxOperatorLen runes long.
var Operators = setOf(
	"+", "-", "*", "/", "%",
	"=", "+=", "-=", "*=", "/=", "%=",
	"==", "===", "!=", "!==", "<", ">", "<=", ">=",
	"&&", "||", "!",
	"++", "--",
	"&", "|", "^", "~", "<<", ">>",
	"?", ":",
	".", "->", "::", "=>",
)

const MaxOperatorLen = 3

var PunctuationChars = setOf("{", "}", "(", ")", "[", "]", ";", ",", ":")

// BinaryOperators are the operators accepted between two operands of a
// simple expression.
var BinaryOperators = setOf(
	"+", "-", "*", "/", "%",
	"==", "===", "!=", "!==", "<", ">", "<=", ">=",
	"&&", "||", "&", "|", "^", "<<", ">>",
)

var Comparisons = setOf("==", "===", "!=", "!==", "<", ">", "<=", ">=")

// LiteralKeywords may stand as an operand wherever a number or identifier can.
var LiteralKeywords = setOf("true", "false", "null", "nullptr")

func setOf(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

type Token struct {
	Type   Type   `json:"type"`
	Value  string `json:"value"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Len    int    `json:"-"`
}

func (t Token) Is(typ Type, value string) bool { return t.Type == typ && t.Value == value }

func (t Token) IsPunct(value string) bool { return t.Is(Punctuation, value) }

func (t Token) IsKeyword(value string) bool { return t.Is(Keyword, value) }

// IsOperand reports whether the token can stand alone as a value: a literal,
// an identifier, or one of the literal keywords.
func (t Token) IsOperand() bool {
	switch t.Type {
	case Number, String, Character, Identifier:
		return true
	case Keyword:
		return LiteralKeywords[t.Value]
	}
	return false
}

func (t Token) IsBinaryOp() bool { return t.Type == Operator && BinaryOperators[t.Value] }

func (t Token) IsComparison() bool { return t.Type == Operator && Comparisons[t.Value] }
