package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/token"
	"golang.org/x/term"
)

// SourceFileRecord is the name and content of the file being analyzed,
// kept for rendering the offending line under a diagnostic.
type SourceFileRecord struct {
	Name    string
	Content []rune
}

var (
	current SourceFileRecord
	stderr  io.Writer = os.Stderr
	colors            = term.IsTerminal(int(os.Stderr.Fd()))
)

func SetSourceFile(rec SourceFileRecord) { current = rec }

// SetOutput redirects diagnostics, disabling colours; used by tests.
func SetOutput(w io.Writer) {
	stderr = w
	colors = false
}

func paint(code, s string) string {
	if !colors {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func fileName() string {
	if current.Name == "" {
		return "<stdin>"
	}
	return current.Name
}

// printErrorLine prints the source line of tok and a caret under it.
func printErrorLine(w io.Writer, tok token.Token) {
	if tok.Line == 0 || len(current.Content) == 0 {
		return
	}

	content := current.Content
	lineNum := tok.Line
	lineStart := 0
	for i, r := range content {
		if lineNum <= 1 {
			break
		}
		if r == '\n' {
			lineNum--
			lineStart = i + 1
		}
	}

	lineEnd := len(content)
	for i := lineStart; i < len(content); i++ {
		if content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	fmt.Fprintf(w, "  %s\n", string(content[lineStart:lineEnd]))

	caret := "^"
	if tok.Len > 1 {
		caret += strings.Repeat("~", tok.Len-1)
	}
	col := tok.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", col-1), paint("32", caret))
}

// PrintError prints a formatted error for tok without exiting.
func PrintError(tok token.Token, format string, args ...interface{}) {
	fmt.Fprintf(stderr, "%s:%d:%d: %s ", fileName(), tok.Line, tok.Column, paint("31", "error:"))
	fmt.Fprintf(stderr, format, args...)
	fmt.Fprintln(stderr)
	printErrorLine(stderr, tok)
}

// Error prints a formatted error message and exits the program
func Error(tok token.Token, format string, args ...interface{}) {
	PrintError(tok, format, args...)
	os.Exit(1)
}

// Warn prints a formatted warning if the warning is enabled in cfg.
func Warn(cfg *config.Config, wt config.Warning, tok token.Token, format string, args ...interface{}) {
	if !cfg.IsWarningEnabled(wt) {
		return
	}
	fmt.Fprintf(stderr, "%s:%d:%d: %s ", fileName(), tok.Line, tok.Column, paint("33", "warning:"))
	fmt.Fprintf(stderr, format, args...)
	fmt.Fprintf(stderr, " [-W%s]\n", cfg.Warnings[wt].Name)
	printErrorLine(stderr, tok)
}

func Info(format string, args ...interface{}) {
	fmt.Fprintf(stderr, "tacgen: info: "+format+"\n", args...)
}
