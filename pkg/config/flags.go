package config

import "github.com/xplshn/tacgen/pkg/cli"

// SetupFlagGroups registers -W<warning> and -F<feature> switches on fs. The
// returned entries are indexed by Warning and Feature respectively; call
// ApplyFlagGroups after parsing.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) (warnings, features []cli.FlagGroupEntry) {
	warnings = make([]cli.FlagGroupEntry, WarnCount)
	for i := Warning(0); i < WarnCount; i++ {
		info := c.Warnings[i]
		warnings[i] = cli.FlagGroupEntry{Name: info.Name, Usage: info.Description, Enabled: new(bool), Disabled: new(bool)}
	}
	features = make([]cli.FlagGroupEntry, FeatCount)
	for i := Feature(0); i < FeatCount; i++ {
		info := c.Features[i]
		features[i] = cli.FlagGroupEntry{Name: info.Name, Usage: info.Description, Enabled: new(bool), Disabled: new(bool)}
	}
	fs.AddFlagGroup("Warning Flags", "W", "warning", warnings)
	fs.AddFlagGroup("Feature Flags", "F", "feature", features)
	return warnings, features
}

// ApplyFlagGroups copies the switches set on the command line into c;
// switches left untouched keep the configured value.
func (c *Config) ApplyFlagGroups(warnings, features []cli.FlagGroupEntry) {
	for i, entry := range warnings {
		if *entry.Enabled {
			c.SetWarning(Warning(i), true)
		}
		if *entry.Disabled {
			c.SetWarning(Warning(i), false)
		}
	}
	for i, entry := range features {
		if *entry.Enabled {
			c.SetFeature(Feature(i), true)
		}
		if *entry.Disabled {
			c.SetFeature(Feature(i), false)
		}
	}
}
