package util

import (
	"bytes"
	"testing"

	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/token"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetSourceFile(SourceFileRecord{Name: "a.c", Content: []rune("int x;\nint y = @;\n")})
	return &buf
}

func TestPrintError(t *testing.T) {
	buf := capture(t)
	PrintError(token.Token{Line: 2, Column: 9, Len: 1}, "unknown character '%c'", '@')
	const want = "a.c:2:9: error: unknown character '@'\n  int y = @;\n          ^\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCaretSpansToken(t *testing.T) {
	buf := capture(t)
	PrintError(token.Token{Line: 1, Column: 1, Len: 3}, "bad")
	const want = "a.c:1:1: error: bad\n  int x;\n  ^~~\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNoSourceLine(t *testing.T) {
	buf := capture(t)
	PrintError(token.Token{}, "no input files")
	const want = "a.c:0:0: error: no input files\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWarn(t *testing.T) {
	buf := capture(t)
	cfg := config.NewConfig()

	Warn(cfg, config.WarnUnknownDirective, token.Token{Line: 1, Column: 1}, "ignored")
	if buf.Len() != 0 {
		t.Errorf("disabled warning printed %q", buf.String())
	}

	Warn(cfg, config.WarnComplexCond, token.Token{Line: 1, Column: 5, Len: 1}, "condition is %s", "complex")
	const want = "a.c:1:5: warning: condition is complex [-Wcomplex-cond]\n  int x;\n      ^\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestInfo(t *testing.T) {
	buf := capture(t)
	Info("saved %d records", 2)
	if got, want := buf.String(), "tacgen: info: saved 2 records\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
