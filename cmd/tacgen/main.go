package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xplshn/tacgen/pkg/analyzer"
	"github.com/xplshn/tacgen/pkg/cli"
	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/explain"
	"github.com/xplshn/tacgen/pkg/history"
	"github.com/xplshn/tacgen/pkg/ir"
	"github.com/xplshn/tacgen/pkg/lexer"
	"github.com/xplshn/tacgen/pkg/report"
	"github.com/xplshn/tacgen/pkg/token"
	"github.com/xplshn/tacgen/pkg/util"
)

var allSections = []string{"tokens", "tac", "quads", "symbols"}

func main() {
	app := cli.NewApp("tacgen")
	app.Synopsis = "[options] <input.c|input.cpp|input.java|-> ..."
	app.Description = "Tokenizes C, C++ and Java snippets, generates three-address code and quadruples for simple statements, and builds a flat symbol table."
	app.Authors = []string{"xplshn"}
	app.Repository = "<https://github.com/xplshn/tacgen>"

	var (
		lang        string
		format      string
		configFile  string
		userID      string
		historyPath string
		emit        []string
		sample      bool
		listHistory bool
		explainReq  bool
		wall        bool
		wnoAll      bool
	)

	fs := app.FlagSet
	fs.String(&lang, "lang", "l", "", "Language tag of the input (c, cpp, java).", "lang")
	fs.String(&format, "format", "f", "", "Output format (table, text, json).", "format")
	fs.String(&configFile, "config", "c", "", "Read settings from a TOML file.", "file")
	fs.String(&userID, "user", "u", "", "Record the analysis in the history of <user>.", "user")
	fs.String(&historyPath, "history", "", "", "History file (JSON lines).", "file")
	fs.List(&emit, "emit", "e", nil, "Sections to print: tokens, tac, quads, symbols.", "section")
	fs.Bool(&sample, "sample", "s", false, "Analyze the built-in sample program for --lang.")
	fs.Bool(&listHistory, "list-history", "", false, "List the history of --user and exit.")
	fs.Bool(&explainReq, "explain", "x", false, "Print the explanation prompt for each analysis.")
	fs.Bool(&wall, "Wall", "", false, "Enable all warnings.")
	fs.Bool(&wnoAll, "Wno-all", "", false, "Disable all warnings.")

	cfg := config.NewConfig()
	warningFlags, featureFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(inputFiles []string) error {
		// Config file first, command line overrides it
		if configFile != "" {
			if err := cfg.LoadFile(configFile); err != nil {
				util.Error(token.Token{}, "%v", err)
			}
		}
		if wall {
			cfg.SetAllWarnings(true)
		}
		if wnoAll {
			cfg.SetAllWarnings(false)
		}
		cfg.ApplyFlagGroups(warningFlags, featureFlags)

		if format != "" {
			if err := cfg.SetFormat(format); err != nil {
				util.Error(token.Token{}, "%v", err)
			}
		}
		if lang != "" {
			cfg.Language = lang
		}
		if userID != "" {
			cfg.UserID = userID
		}
		if historyPath != "" {
			cfg.HistoryPath = historyPath
		}
		if cfg.HistoryPath == "" {
			cfg.HistoryPath = config.DefaultHistoryPath()
		}
		sections, err := selectSections(emit)
		if err != nil {
			util.Error(token.Token{}, "%v", err)
		}

		store := history.NewFileStore(cfg.HistoryPath)
		ctx := context.Background()

		if listHistory {
			return printHistory(ctx, store, cfg.UserID)
		}

		inputs, err := collectInputs(inputFiles, sample, cfg, lang != "")
		if err != nil {
			util.Error(token.Token{}, "%v", err)
		}

		an := analyzer.New(cfg)
		for _, in := range inputs {
			util.SetSourceFile(util.SourceFileRecord{Name: in.name, Content: []rune(in.source)})
			res, err := an.Analyze(in.lang, in.source)
			if err != nil {
				reportFailure(err)
			}
			for _, d := range res.Diagnostics {
				util.Warn(cfg, d.Warning, d.Token, "%s", d.Message)
			}

			if err := printResult(os.Stdout, in.name, res, sections, cfg.Format); err != nil {
				util.Error(token.Token{}, "rendering output: %v", err)
			}

			if explainReq {
				prompt, err := explain.Prompt{}.Explain(ctx, explain.NewRequest(res))
				if err != nil {
					util.Error(token.Token{}, "%v", err)
				}
				fmt.Println(prompt)
			}

			if cfg.UserID != "" {
				rec := history.NewRecord(cfg.UserID, res, time.Now())
				if err := store.Append(ctx, rec); err != nil {
					util.Error(token.Token{}, "saving history: %v", err)
				}
				util.Info("saved analysis %s to %s", rec.ID, store.Path())
			}
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// reportFailure prints a lexical error with its source line and exits.
func reportFailure(err error) {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		tok := token.Token{Line: lexErr.Pos.Line, Column: lexErr.Pos.Column, Len: lexErr.Len}
		util.Error(tok, "%s [%s]", lexErr.Message, lexErr.Kind)
	}
	util.Error(token.Token{}, "%v", err)
}

type input struct {
	name   string
	lang   analyzer.Language
	source string
}

// collectInputs reads every path ("-" is stdin). Unless the language was
// forced on the command line, it is guessed from the file extension.
func collectInputs(paths []string, sample bool, cfg *config.Config, forced bool) ([]input, error) {
	defLang, err := analyzer.ParseLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	var inputs []input
	if sample {
		inputs = append(inputs, input{name: "<sample." + string(defLang) + ">", lang: defLang, source: analyzer.Sample(defLang)})
	}
	for _, path := range paths {
		var content []byte
		var err error
		if path == "-" {
			content, err = io.ReadAll(os.Stdin)
		} else {
			content, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("could not read file '%s': %w", path, err)
		}
		l := defLang
		if guessed, ok := analyzer.LanguageForFile(path); ok && !forced {
			l = guessed
		}
		inputs = append(inputs, input{name: path, lang: l, source: string(content)})
	}
	if len(inputs) == 0 {
		return nil, errors.New("no input files specified (use '-' for stdin or --sample)")
	}
	return inputs, nil
}

func selectSections(emit []string) (map[string]bool, error) {
	if len(emit) == 0 {
		emit = allSections
	}
	out := make(map[string]bool)
	for _, s := range emit {
		found := false
		for _, known := range allSections {
			if s == known {
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown section '%s'. Supported: %s", s, strings.Join(allSections, ", "))
		}
		out[s] = true
	}
	return out, nil
}

func printResult(w io.Writer, name string, res *analyzer.Result, sections map[string]bool, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "%s (%s)\n", name, res.Language.DisplayName())
	type section struct {
		key, title string
		table      func() (string, error)
		text       func() string
	}
	all := []section{
		{"tokens", "Tokens", func() (string, error) { return report.Tokens(res.Tokens) }, func() string { return formatTokens(res.Tokens) }},
		{"tac", "Three-Address Code", func() (string, error) { return report.TAC(res.ThreeAddressCode) }, func() string { return ir.FormatTAC(res.ThreeAddressCode) }},
		{"quads", "Quadruples", func() (string, error) { return report.Quadruples(res.Quadruples) }, func() string { return ir.FormatQuads(res.Quadruples) }},
		{"symbols", "Symbol Table", func() (string, error) { return report.Symbols(res.SymbolTable) }, func() string { return formatSymbols(res) }},
	}
	for _, s := range all {
		if !sections[s.key] {
			continue
		}
		if format == "text" {
			fmt.Fprintf(w, "\n== %s ==\n%s\n", s.title, s.text())
			continue
		}
		out, err := s.table()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n%s\n", report.Title(s.title), out)
	}
	return nil
}

func formatTokens(tokens []token.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%d:%d\t%-12s %q\n", tok.Line, tok.Column, tok.Type, tok.Value)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatSymbols(res *analyzer.Result) string {
	if len(res.SymbolTable) == 0 {
		return "(empty)"
	}
	var lines []string
	for _, name := range res.SymbolTable.Names() {
		e := res.SymbolTable[name]
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", e.Name, e.Type, e.Scope))
	}
	return strings.Join(lines, "\n")
}

func printHistory(ctx context.Context, store history.Store, userID string) error {
	if userID == "" {
		util.Error(token.Token{}, "--list-history needs --user")
	}
	recs, err := store.List(ctx, userID)
	if err != nil {
		util.Error(token.Token{}, "reading history: %v", err)
	}
	if len(recs) == 0 {
		fmt.Printf("No history for '%s'.\n", userID)
		return nil
	}
	for _, r := range recs {
		firstLine, _, _ := strings.Cut(strings.TrimSpace(r.SourceCode), "\n")
		fmt.Printf("%s  %s  %-4s  %d tokens, %d TAC, %d symbols  %s\n",
			r.ID, r.Timestamp.Local().Format(time.DateTime), r.Language,
			len(r.Tokens), len(r.ThreeAddressCode), len(r.SymbolTable), firstLine)
	}
	return nil
}
