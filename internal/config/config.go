// internal/config/config.go

// Package config loads the optional TOML run profile. A profile carries
// default settings for repeated runs; flags the user passes explicitly
// always win over profile values.
package config

import (
	"github.com/BurntSushi/toml"

	"postoga/internal/cli"
)

// Profile mirrors the postoga.toml layout.
type Profile struct {
	Filters struct {
		OrthologyClasses string   `toml:"orthology_classes"`
		LossStatuses     string   `toml:"loss_statuses"`
		MinScore         *float64 `toml:"min_orthology_score"`
		ParalogScore     *float64 `toml:"min_paralog_score"`
	} `toml:"filters"`
	Output struct {
		To   string `toml:"to"`
		Dir  string `toml:"dir"`
		NoDB bool   `toml:"no_db"`
	} `toml:"output"`
	Logging struct {
		Level string `toml:"level"`
	} `toml:"logging"`
}

// Load decodes a profile file.
func Load(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Apply fills options the user left at their defaults from the profile.
func (p Profile) Apply(o *cli.Options) {
	if o.ByOrthologyClass == "" {
		o.ByOrthologyClass = p.Filters.OrthologyClasses
	}
	if o.ByLossStatus == "" {
		o.ByLossStatus = p.Filters.LossStatuses
	}
	if o.ByScore == cli.Unset && p.Filters.MinScore != nil {
		o.ByScore = *p.Filters.MinScore
	}
	if o.ByParalogScore == cli.Unset && p.Filters.ParalogScore != nil {
		o.ByParalogScore = *p.Filters.ParalogScore
	}
	if o.To == "gtf" && p.Output.To != "" {
		o.To = p.Output.To
	}
	if o.OutDir == "" {
		o.OutDir = p.Output.Dir
	}
	if p.Output.NoDB {
		o.NoDB = true
	}
	if o.LogLevel == "info" && p.Logging.Level != "" {
		o.LogLevel = p.Logging.Level
	}
}
