package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type Value interface {
	String() string
	Set(string) error
	Get() any
}

type stringValue struct{ p *string }

func (v *stringValue) Set(s string) error { *v.p = s; return nil }
func (v *stringValue) String() string     { return *v.p }
func (v *stringValue) Get() any           { return *v.p }

type boolValue struct{ p *bool }

// Set treats an empty string as "flag present".
func (v *boolValue) Set(s string) error {
	if s == "" {
		*v.p = true
		return nil
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean value '%s': %w", s, err)
	}
	*v.p = val
	return nil
}
func (v *boolValue) String() string { return strconv.FormatBool(*v.p) }
func (v *boolValue) Get() any       { return *v.p }

// listValue accepts repeated flags and comma separated values alike.
type listValue struct{ p *[]string }

func (v *listValue) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*v.p = append(*v.p, part)
		}
	}
	return nil
}
func (v *listValue) String() string { return strings.Join(*v.p, ",") }
func (v *listValue) Get() any       { return *v.p }

type Flag struct {
	Name         string
	Shorthand    string
	Usage        string
	Value        Value
	DefValue     string
	ExpectedType string
}

// FlagGroup is a family of on/off switches sharing a prefix, such as the
// -W<warning> and -F<feature> flags.
type FlagGroup struct {
	Name    string
	Prefix  string
	Kind    string
	Entries []FlagGroupEntry
}

type FlagGroupEntry struct {
	Name     string
	Usage    string
	Enabled  *bool
	Disabled *bool
}

type FlagSet struct {
	name       string
	flags      map[string]*Flag
	shorthands map[string]*Flag
	groups     []FlagGroup
	args       []string
}

func NewFlagSet(name string) *FlagSet {
	return &FlagSet{name: name, flags: make(map[string]*Flag), shorthands: make(map[string]*Flag)}
}

func (f *FlagSet) Args() []string { return f.args }

func (f *FlagSet) Lookup(name string) *Flag { return f.flags[name] }

func (f *FlagSet) String(p *string, name, shorthand, value, usage, expectedType string) {
	*p = value
	f.Var(&stringValue{p}, name, shorthand, usage, value, expectedType)
}

func (f *FlagSet) Bool(p *bool, name, shorthand string, value bool, usage string) {
	*p = value
	f.Var(&boolValue{p}, name, shorthand, usage, strconv.FormatBool(value), "")
}

func (f *FlagSet) List(p *[]string, name, shorthand string, value []string, usage, expectedType string) {
	*p = value
	f.Var(&listValue{p}, name, shorthand, usage, strings.Join(value, ","), expectedType)
}

func (f *FlagSet) Var(value Value, name, shorthand, usage, defValue, expectedType string) {
	if name == "" {
		panic("flag name cannot be empty")
	}
	if _, ok := f.flags[name]; ok {
		panic(fmt.Sprintf("flag redefined: %s", name))
	}
	flag := &Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: value, DefValue: defValue, ExpectedType: expectedType}
	f.flags[name] = flag
	if shorthand != "" {
		if _, ok := f.shorthands[shorthand]; ok {
			panic(fmt.Sprintf("shorthand flag redefined: %s", shorthand))
		}
		f.shorthands[shorthand] = flag
	}
}

// AddFlagGroup defines <prefix><name> and <prefix>no-<name> for each entry.
func (f *FlagSet) AddFlagGroup(name, prefix, kind string, entries []FlagGroupEntry) {
	for _, e := range entries {
		f.Bool(e.Enabled, prefix+e.Name, "", *e.Enabled, e.Usage)
		f.Bool(e.Disabled, prefix+"no-"+e.Name, "", *e.Disabled, "Disable '"+e.Name+"'")
	}
	f.groups = append(f.groups, FlagGroup{Name: name, Prefix: prefix, Kind: kind, Entries: entries})
}

func isBool(flag *Flag) bool {
	_, ok := flag.Value.(*boolValue)
	return ok
}

// Parse accepts --long, --long=value, -long (single dash long names, as in
// -Wall), -s value, -svalue and -- to end flag parsing.
func (f *FlagSet) Parse(arguments []string) error {
	f.args = []string{}
	for i := 0; i < len(arguments); i++ {
		arg := arguments[i]
		if len(arg) < 2 || arg[0] != '-' {
			f.args = append(f.args, arg)
			continue
		}
		if arg == "--" {
			f.args = append(f.args, arguments[i+1:]...)
			break
		}

		body := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		name, value, hasValue := strings.Cut(body, "=")
		flag, ok := f.flags[name]
		if !ok && !strings.HasPrefix(arg, "--") {
			flag, ok = f.shorthands[body[:1]]
			name, value, hasValue = body[:1], strings.TrimPrefix(body[1:], "="), len(body) > 1
		}
		if !ok {
			return fmt.Errorf("unknown flag: %s", arg)
		}

		switch {
		case hasValue:
			if err := flag.Value.Set(value); err != nil {
				return fmt.Errorf("flag %s: %w", arg, err)
			}
		case isBool(flag):
			flag.Value.Set("")
		default:
			if i+1 >= len(arguments) {
				return fmt.Errorf("flag needs an argument: -%s", name)
			}
			i++
			if err := flag.Value.Set(arguments[i]); err != nil {
				return fmt.Errorf("flag %s: %w", arg, err)
			}
		}
	}
	return nil
}

type App struct {
	Name        string
	Synopsis    string
	Description string
	Authors     []string
	Repository  string
	FlagSet     *FlagSet
	Action      func(args []string) error
	Stdout      io.Writer
	Stderr      io.Writer
}

func NewApp(name string) *App {
	return &App{Name: name, FlagSet: NewFlagSet(name), Stdout: os.Stdout, Stderr: os.Stderr}
}

func (a *App) Run(arguments []string) error {
	help := false
	a.FlagSet.Bool(&help, "help", "h", false, "Display this information")

	if err := a.FlagSet.Parse(arguments); err != nil {
		fmt.Fprintln(a.Stderr, err)
		fmt.Fprintf(a.Stderr, "Run '%s --help' for all available options and flags.\n", a.Name)
		return err
	}
	if help {
		fmt.Fprint(a.Stdout, a.HelpPage(getTerminalWidth()))
		return nil
	}
	if a.Action != nil {
		return a.Action(a.FlagSet.Args())
	}
	return nil
}

func (a *App) optionFlags() []*Flag {
	grouped := make(map[string]bool)
	for _, g := range a.FlagSet.groups {
		for _, e := range g.Entries {
			grouped[g.Prefix+e.Name] = true
			grouped[g.Prefix+"no-"+e.Name] = true
		}
	}
	var out []*Flag
	for name, flag := range a.FlagSet.flags {
		if !grouped[name] {
			out = append(out, flag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func formatFlagString(flag *Flag) string {
	var sb strings.Builder
	if flag.Shorthand != "" {
		fmt.Fprintf(&sb, "-%s, ", flag.Shorthand)
	}
	fmt.Fprintf(&sb, "--%s", flag.Name)
	if !isBool(flag) && flag.ExpectedType != "" {
		fmt.Fprintf(&sb, " <%s>", flag.ExpectedType)
	}
	return sb.String()
}

// HelpPage renders the full help text wrapped to width columns.
func (a *App) HelpPage(width int) string {
	var sb strings.Builder
	const indent1, indent2 = "    ", "        "

	options := a.optionFlags()
	left := 0
	for _, flag := range options {
		left = max(left, len(formatFlagString(flag)))
	}
	for _, g := range a.FlagSet.groups {
		left = max(left, len(fmt.Sprintf("-%sno-<%s>", g.Prefix, g.Kind)))
		for _, e := range g.Entries {
			left = max(left, len(e.Name))
		}
	}

	entry := func(l, usage, right string) {
		avail := max(width-len(indent2)-left-1-len(right)-2, 10)
		lines := wrapText(usage, avail)
		if len(lines) == 0 {
			lines = []string{""}
		}
		if right != "" {
			fmt.Fprintf(&sb, "%s%-*s %-*s  %s\n", indent2, left, l, avail, lines[0], right)
		} else {
			fmt.Fprintf(&sb, "%s%-*s %s\n", indent2, left, l, lines[0])
		}
		for _, line := range lines[1:] {
			fmt.Fprintf(&sb, "%s%s %s\n", indent2, strings.Repeat(" ", left), line)
		}
	}

	if len(a.Authors) > 0 {
		fmt.Fprintf(&sb, "\n%sCopyright (c): %s and contributors\n", indent1, strings.Join(a.Authors, ", "))
	}
	if a.Repository != "" {
		fmt.Fprintf(&sb, "%sFor more details refer to %s\n", indent1, a.Repository)
	}
	if a.Synopsis != "" {
		fmt.Fprintf(&sb, "\n%sSynopsis\n%s%s %s\n", indent1, indent2, a.Name, a.Synopsis)
	}
	if a.Description != "" {
		fmt.Fprintf(&sb, "\n%sDescription\n", indent1)
		for _, line := range wrapText(a.Description, width-len(indent2)) {
			fmt.Fprintf(&sb, "%s%s\n", indent2, line)
		}
	}

	if len(options) > 0 {
		fmt.Fprintf(&sb, "\n%sOptions\n", indent1)
		for _, flag := range options {
			right := ""
			if !isBool(flag) && flag.DefValue != "" {
				right = fmt.Sprintf("|%s|", flag.DefValue)
			}
			entry(formatFlagString(flag), flag.Usage, right)
		}
	}

	for _, g := range a.FlagSet.groups {
		fmt.Fprintf(&sb, "\n%s%s\n", indent1, g.Name)
		entry(fmt.Sprintf("-%s<%s>", g.Prefix, g.Kind), "Enable a specific "+g.Kind, "")
		entry(fmt.Sprintf("-%sno-<%s>", g.Prefix, g.Kind), "Disable a specific "+g.Kind, "")
		entries := append([]FlagGroupEntry(nil), g.Entries...)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		for _, e := range entries {
			state := "|-|"
			if *e.Enabled && !*e.Disabled {
				state = "|x|"
			}
			entry(e.Name, e.Usage, state)
		}
	}
	return sb.String()
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return max(width, 20)
}

func wrapText(text string, maxWidth int) []string {
	words := strings.Fields(text)
	if maxWidth <= 0 || len(words) == 0 {
		return words
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		if line.Len() > 0 && line.Len()+1+len(word) > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
