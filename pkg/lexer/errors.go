package lexer

import "fmt"

type ErrorKind int

const (
	UnterminatedComment ErrorKind = iota
	InvalidNumber
	UnterminatedLiteral
	NewlineInLiteral
	InvalidCharLiteral
	UnknownCharacter
)

var kindNames = map[ErrorKind]string{
	UnterminatedComment: "UnterminatedComment",
	InvalidNumber:       "InvalidNumber",
	UnterminatedLiteral: "UnterminatedLiteral",
	NewlineInLiteral:    "NewlineInLiteral",
	InvalidCharLiteral:  "InvalidCharLiteral",
	UnknownCharacter:    "UnknownCharacter",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a lexical error. Line and Column point at the first rune of the
// offending text; Len is the number of runes the lexer consumed for it.
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     Position
	Len     int
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexer error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Is lets errors.Is match on kind alone: errors.Is(err, &Error{Kind: InvalidNumber}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
