// Package report renders analysis results as terminal tables.
package report

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/xplshn/tacgen/pkg/ir"
	"github.com/xplshn/tacgen/pkg/symbols"
	"github.com/xplshn/tacgen/pkg/token"
)

var TitleStyle = pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)

func Title(s string) string { return TitleStyle.Sprint(s) }

func render(data pterm.TableData) (string, error) {
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func nullable(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

func Tokens(tokens []token.Token) (string, error) {
	data := pterm.TableData{{"#", "Type", "Value", "Line", "Column"}}
	for i, tok := range tokens {
		data = append(data, []string{
			strconv.Itoa(i), tok.Type.String(), strconv.Quote(tok.Value),
			strconv.Itoa(tok.Line), strconv.Itoa(tok.Column),
		})
	}
	return render(data)
}

func TAC(tac []ir.TAC) (string, error) {
	data := pterm.TableData{{"#", "Op", "Arg1", "Arg2", "Result", "Code"}}
	for i, code := range tac {
		data = append(data, []string{
			strconv.Itoa(i + 1), code.Op, nullable(code.Arg1), nullable(code.Arg2), code.Result, code.String(),
		})
	}
	return render(data)
}

func Quadruples(quads []ir.Quadruple) (string, error) {
	data := pterm.TableData{{"#", "Op", "Arg1", "Arg2", "Result"}}
	for i, q := range quads {
		data = append(data, []string{strconv.Itoa(i), q.Op, nullable(q.Arg1), nullable(q.Arg2), q.Result})
	}
	return render(data)
}

func Symbols(table symbols.Table) (string, error) {
	data := pterm.TableData{{"Name", "Type", "Scope"}}
	for _, name := range table.Names() {
		e := table[name]
		data = append(data, []string{e.Name, e.Type, e.Scope})
	}
	return render(data)
}
