package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type opts struct {
	lang    string
	emit    []string
	verbose bool
}

func newFlagSet(o *opts) *FlagSet {
	fs := NewFlagSet("test")
	fs.String(&o.lang, "lang", "l", "c", "Input language", "lang")
	fs.List(&o.emit, "emit", "e", nil, "Sections", "section")
	fs.Bool(&o.verbose, "verbose", "v", false, "Verbose")
	return fs
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want opts
		rest []string
	}{
		{"defaults", []string{"a.c"}, opts{lang: "c"}, []string{"a.c"}},
		{"long with equals", []string{"--lang=java", "Main.java"}, opts{lang: "java"}, []string{"Main.java"}},
		{"long with space", []string{"--lang", "cpp"}, opts{lang: "cpp"}, []string{}},
		{"single dash long", []string{"-lang", "cpp"}, opts{lang: "cpp"}, []string{}},
		{"shorthand attached", []string{"-ljava"}, opts{lang: "java"}, []string{}},
		{"shorthand equals", []string{"-l=cpp"}, opts{lang: "cpp"}, []string{}},
		{"list values", []string{"-e", "tokens,tac", "--emit", "quads"}, opts{lang: "c", emit: []string{"tokens", "tac", "quads"}}, []string{}},
		{"bool", []string{"-v", "x.c"}, opts{lang: "c", verbose: true}, []string{"x.c"}},
		{"bool explicit", []string{"--verbose=false"}, opts{lang: "c"}, []string{}},
		{"stdin and terminator", []string{"-", "--", "-v"}, opts{lang: "c"}, []string{"-", "-v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o opts
			fs := newFlagSet(&o)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, o, cmp.AllowUnexported(opts{})); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.rest, fs.Args()); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--nope"},
		{"-q"},
		{"--lang"},
		{"--verbose=maybe"},
	} {
		var o opts
		if err := newFlagSet(&o).Parse(args); err == nil {
			t.Errorf("Parse(%q) should fail", args)
		}
	}
}

func TestFlagGroup(t *testing.T) {
	fs := NewFlagSet("test")
	entries := []FlagGroupEntry{
		{Name: "complex-cond", Usage: "Warn on complex conditions", Enabled: new(bool), Disabled: new(bool)},
		{Name: "unknown-directive", Usage: "Warn on unknown directives", Enabled: new(bool), Disabled: new(bool)},
	}
	fs.AddFlagGroup("Warning Flags", "W", "warning", entries)
	if err := fs.Parse([]string{"-Wcomplex-cond", "-Wno-unknown-directive"}); err != nil {
		t.Fatal(err)
	}
	if !*entries[0].Enabled || *entries[0].Disabled {
		t.Error("-Wcomplex-cond not recorded")
	}
	if *entries[1].Enabled || !*entries[1].Disabled {
		t.Error("-Wno-unknown-directive not recorded")
	}
}

func TestHelpPage(t *testing.T) {
	app := NewApp("tacgen")
	app.Synopsis = "[options] <input>"
	app.Description = "Generates three-address code."
	var o opts
	app.FlagSet = newFlagSet(&o)
	app.FlagSet.AddFlagGroup("Feature Flags", "F", "feature", []FlagGroupEntry{
		{Name: "scope-stack", Usage: "Track nested scopes", Enabled: new(bool), Disabled: new(bool)},
	})

	page := app.HelpPage(100)
	for _, want := range []string{
		"Synopsis\n        tacgen [options] <input>",
		"-l, --lang <lang>",
		"|c|",
		"-e, --emit <section>",
		"-v, --verbose",
		"Feature Flags",
		"-Fno-<feature>",
		"scope-stack",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("help page does not contain %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, "--Fscope-stack") {
		t.Errorf("group switches should not be listed as options:\n%s", page)
	}
}

func TestRun(t *testing.T) {
	app := NewApp("tacgen")
	var stdout, stderr bytes.Buffer
	app.Stdout, app.Stderr = &stdout, &stderr
	var got []string
	app.Action = func(args []string) error {
		got = args
		return nil
	}

	if err := app.Run([]string{"a.c", "b.c"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.c", "b.c"}, got); diff != "" {
		t.Errorf("action args mismatch (-want +got):\n%s", diff)
	}

	app = NewApp("tacgen")
	app.Stdout, app.Stderr = &stdout, &stderr
	if err := app.Run([]string{"--bogus"}); err == nil {
		t.Error("Run should fail on an unknown flag")
	}
	if !strings.Contains(stderr.String(), "unknown flag: --bogus") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 9)
	want := []string{"one two", "three", "four five"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrapText mismatch (-want +got):\n%s", diff)
	}
}
