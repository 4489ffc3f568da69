package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

type Feature int

const (
	FeatLexRecovery Feature = iota
	FeatScopeStack
	FeatCallTemps
	FeatCount
)

type Warning int

const (
	WarnUnsupportedExpr Warning = iota
	WarnComplexCond
	WarnUnknownDirective
	WarnLexRecovered
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features    map[Feature]Info
	Warnings    map[Warning]Info
	FeatureMap  map[string]Feature
	WarningMap  map[string]Warning
	Language    string
	Format      string
	UserID      string
	HistoryPath string
}

func NewConfig() *Config {
	cfg := &Config{
		Features:   make(map[Feature]Info),
		Warnings:   make(map[Warning]Info),
		FeatureMap: make(map[string]Feature),
		WarningMap: make(map[string]Warning),
		Language:   "c",
		Format:     "table",
	}

	features := map[Feature]Info{
		FeatLexRecovery: {"lex-recovery", false, "Record lexical errors as UNKNOWN tokens and keep scanning."},
		FeatScopeStack:  {"scope-stack", false, "Track nested scopes in the symbol table instead of a single flat label."},
		FeatCallTemps:   {"call-temps", true, "Store the result of a statement-level call in a fresh temporary."},
	}

	warnings := map[Warning]Info{
		WarnUnsupportedExpr:  {"unsupported-expr", true, "Warn when an expression is replaced by the 'expr(...)' placeholder."},
		WarnComplexCond:      {"complex-cond", true, "Warn when a condition is not a single comparison."},
		WarnUnknownDirective: {"unknown-directive", false, "Warn on '#' words that are not known preprocessor directives."},
		WarnLexRecovered:     {"lex-recovered", true, "Warn for every lexical error skipped by -Flex-recovery."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}

	return cfg
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

// SetAllWarnings switches every warning on or off, as -Wall and -Wno-all do.
func (c *Config) SetAllWarnings(enabled bool) {
	for i := Warning(0); i < WarnCount; i++ {
		c.SetWarning(i, enabled)
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

var formats = []string{"table", "text", "json"}

// SetFormat selects how the CLI prints results.
func (c *Config) SetFormat(format string) error {
	for _, f := range formats {
		if f == format {
			c.Format = format
			return nil
		}
	}
	return fmt.Errorf("unsupported format '%s'. Supported: %s", format, strings.Join(formats, ", "))
}

// ApplyFlag handles a single -W/-F style switch, e.g. "-Wno-complex-cond"
// or "Fscope-stack". Unknown names are reported back to the caller.
func (c *Config) ApplyFlag(flag string) error {
	trimmed := strings.TrimPrefix(flag, "-")
	isNo := strings.HasPrefix(trimmed, "Wno-") || strings.HasPrefix(trimmed, "Fno-")
	enable := !isNo

	var name string
	var isWarning bool

	switch {
	case strings.HasPrefix(trimmed, "W"):
		name = strings.TrimPrefix(trimmed, "W")
		isWarning = true
	case strings.HasPrefix(trimmed, "F"):
		name = strings.TrimPrefix(trimmed, "F")
	default:
		name = trimmed
		isWarning = true
	}
	if isNo {
		name = strings.TrimPrefix(name, "no-")
	}

	if name == "all" && isWarning {
		c.SetAllWarnings(enable)
		return nil
	}

	if isWarning {
		w, ok := c.WarningMap[name]
		if !ok {
			return fmt.Errorf("unknown warning '%s'", name)
		}
		c.SetWarning(w, enable)
		return nil
	}
	f, ok := c.FeatureMap[name]
	if !ok {
		return fmt.Errorf("unknown feature '%s'", name)
	}
	c.SetFeature(f, enable)
	return nil
}

type tomlFile struct {
	Analyzer *tomlAnalyzer `toml:"analyzer"`
	History  *tomlHistory  `toml:"history"`
}

type tomlAnalyzer struct {
	Language string   `toml:"language"`
	Format   string   `toml:"format"`
	Features []string `toml:"features"`
	Warnings []string `toml:"warnings"`
}

type tomlHistory struct {
	User string `toml:"user"`
	Path string `toml:"path"`
}

// LoadFile reads a TOML config file and applies it on top of the current
// settings. Feature entries are names, optionally prefixed with "no-".
func (c *Config) LoadFile(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return c.Load(buf)
}

func (c *Config) Load(buf []byte) error {
	tf := &tomlFile{}
	if err := toml.Unmarshal(buf, tf); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if a := tf.Analyzer; a != nil {
		if a.Language != "" {
			c.Language = strings.ToLower(a.Language)
		}
		if a.Format != "" {
			if err := c.SetFormat(a.Format); err != nil {
				return err
			}
		}
		for _, f := range a.Features {
			if err := c.ApplyFlag("F" + f); err != nil {
				return err
			}
		}
		for _, w := range a.Warnings {
			if err := c.ApplyFlag("W" + w); err != nil {
				return err
			}
		}
	}

	if h := tf.History; h != nil {
		if h.User != "" {
			c.UserID = h.User
		}
		if h.Path != "" {
			c.HistoryPath = expandHome(h.Path)
		}
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DefaultHistoryPath is used when neither the config file nor the command
// line names a history file.
func DefaultHistoryPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tacgen", "history.jsonl")
	}
	return ".tacgen_history.jsonl"
}
