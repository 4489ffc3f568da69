// Package explain prepares analysis results for a natural-language
// explanation service. The service itself is external; Prompt is an offline
// stand-in that returns the prompt it would be sent.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/xplshn/tacgen/pkg/analyzer"
	"github.com/xplshn/tacgen/pkg/ir"
	"github.com/xplshn/tacgen/pkg/symbols"
	"github.com/xplshn/tacgen/pkg/token"
)

type Request struct {
	Language         analyzer.Language `json:"language"`
	SourceCode       string            `json:"sourceCode"`
	Tokens           []token.Token     `json:"tokens"`
	ThreeAddressCode []ir.TAC          `json:"threeAddressCode,omitempty"`
	Quadruples       []ir.Quadruple    `json:"quadruples,omitempty"`
	SymbolTable      symbols.Table     `json:"symbolTable,omitempty"`
}

func NewRequest(res *analyzer.Result) *Request {
	return &Request{
		Language:         res.Language,
		SourceCode:       res.SourceCode,
		Tokens:           res.Tokens,
		ThreeAddressCode: res.ThreeAddressCode,
		Quadruples:       res.Quadruples,
		SymbolTable:      res.SymbolTable,
	}
}

// Explainer turns a request into free text.
type Explainer interface {
	Explain(ctx context.Context, req *Request) (string, error)
}

type Prompt struct{}

func (Prompt) Explain(ctx context.Context, req *Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return BuildPrompt(req)
}

func jsonIndent(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"json":        jsonIndent,
	"formatTAC":   ir.FormatTAC,
	"formatQuads": ir.FormatQuads,
	"fence":       func() string { return "```" },
}).Parse(`You are an expert compiler design assistant and programmer. Explain the following {{.Language}} source code using its analysis results.

Source code:
{{fence}}{{.Language}}
{{.SourceCode}}
{{fence}}

1. Tokens:
{{if .Tokens}}{{fence}}json
{{json .Tokens}}
{{fence}}{{else}}(No tokens provided or generated){{end}}

2. Three-Address Code (TAC):
{{if .ThreeAddressCode}}{{fence}}
{{formatTAC .ThreeAddressCode}}
{{fence}}{{else}}(No TAC provided or generated){{end}}

3. Quadruples:
{{if .Quadruples}}{{fence}}
{{formatQuads .Quadruples}}
{{fence}}{{else}}(No Quadruples provided or generated){{end}}

4. Symbol Table:
{{if .SymbolTable}}{{fence}}json
{{json .SymbolTable}}
{{fence}}{{else}}(No Symbol Table provided or generated){{end}}

Cover: the overall purpose of the code, its key structures (loops, conditionals, functions, classes), what the tokens represent, how a simple part of the intermediate code maps back to the source, what the symbol table records, and any notable {{.Language}} features.
`))

// BuildPrompt renders req as the text sent to the explanation service.
func BuildPrompt(req *Request) (string, error) {
	if req == nil {
		return "", fmt.Errorf("explain: nil request")
	}
	var sb strings.Builder
	if err := promptTmpl.Execute(&sb, req); err != nil {
		return "", fmt.Errorf("explain: rendering prompt: %w", err)
	}
	return sb.String(), nil
}
