package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xplshn/tacgen/pkg/analyzer"
	"github.com/xplshn/tacgen/pkg/config"
)

func TestSelectSections(t *testing.T) {
	all, err := selectSections(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]bool{"tokens": true, "tac": true, "quads": true, "symbols": true}, all); diff != "" {
		t.Errorf("default sections mismatch (-want +got):\n%s", diff)
	}
	if _, err := selectSections([]string{"tac", "assembly"}); err == nil {
		t.Error("unknown section should fail")
	}
}

func TestCollectInputs(t *testing.T) {
	cfg := config.NewConfig()
	java := filepath.Join("..", "..", "testdata", "Main.java")

	inputs, err := collectInputs([]string{java}, true, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(inputs))
	}
	if inputs[0].lang != analyzer.C || inputs[0].source != analyzer.Sample(analyzer.C) {
		t.Errorf("sample input = %+v", inputs[0])
	}
	if inputs[1].lang != analyzer.Java || !strings.Contains(inputs[1].source, "class Main") {
		t.Errorf("file input language = %q", inputs[1].lang)
	}

	inputs, err = collectInputs([]string{java}, false, cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if inputs[0].lang != analyzer.C {
		t.Errorf("forced language ignored: %q", inputs[0].lang)
	}

	if _, err := collectInputs(nil, false, cfg, false); err == nil {
		t.Error("no inputs should fail")
	}
	if _, err := collectInputs([]string{"does-not-exist.c"}, false, cfg, false); err == nil {
		t.Error("missing file should fail")
	}
}

func TestPrintResult(t *testing.T) {
	res, err := analyzer.New(config.NewConfig()).Analyze(analyzer.C, "int x = a + b;")
	if err != nil {
		t.Fatal(err)
	}

	var text bytes.Buffer
	if err := printResult(&text, "x.c", res, map[string]bool{"tac": true, "symbols": true}, "text"); err != nil {
		t.Fatal(err)
	}
	want := "x.c (C)\n\n== Three-Address Code ==\n1: +\ta\tb\t=> t0\n2: =\tt0\t \t=> x\n\n== Symbol Table ==\nx\tint\tglobal\n"
	if diff := cmp.Diff(want, text.String()); diff != "" {
		t.Errorf("text output mismatch (-want +got):\n%s", diff)
	}

	var js bytes.Buffer
	if err := printResult(&js, "x.c", res, nil, "json"); err != nil {
		t.Fatal(err)
	}
	var decoded analyzer.Result
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.ThreeAddressCode) != 2 || decoded.SymbolTable["x"].Type != "int" {
		t.Errorf("decoded JSON = %+v", decoded)
	}
}
