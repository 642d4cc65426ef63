package brand

import (
	"fmt"
	"sort"
)

// Field names as they appear in configuration and locale templates
const (
	FieldFullName        = "brandFullName"
	FieldShortName       = "brandShortName"
	FieldShorterName     = "brandShorterName"
	FieldGenericName     = "brandingGenericName"
	FieldVendor          = "brandingVendor"
	FieldBackgroundColor = "backgroundColor"
	FieldRelease         = "release"
)

// RequiredFiles must exist in every brand directory
var RequiredFiles = []string{"logo.png", "logo-mac.png", "firefox.ico", "firefox64.ico"}

// GitHubRelease points at the repository releases are published from
type GitHubRelease struct {
	Repo string `mapstructure:"repo" yaml:"repo"`
}

// Release describes how a brand is versioned and published
type Release struct {
	DisplayVersion string         `mapstructure:"displayVersion" yaml:"displayVersion,omitempty"`
	Channel        string         `mapstructure:"channel" yaml:"channel,omitempty"`
	GitHub         *GitHubRelease `mapstructure:"github" yaml:"github,omitempty"`
}

// Definition is a fully resolved brand
type Definition struct {
	// Key names the brand directory and doubles as the update channel
	Key string `mapstructure:"-" yaml:"key"`
	// Dir is the brand's artwork directory
	Dir string `mapstructure:"-" yaml:"dir"`

	FullName        string  `mapstructure:"brandFullName" yaml:"brandFullName" validate:"required"`
	ShortName       string  `mapstructure:"brandShortName" yaml:"brandShortName"`
	ShorterName     string  `mapstructure:"brandShorterName" yaml:"brandShorterName"`
	GenericName     string  `mapstructure:"brandingGenericName" yaml:"brandingGenericName"`
	Vendor          string  `mapstructure:"brandingVendor" yaml:"brandingVendor" validate:"required"`
	BackgroundColor string  `mapstructure:"backgroundColor" yaml:"backgroundColor" validate:"required"`
	Release         Release `mapstructure:"release" yaml:"release"`

	// Extra carries every brand key surfer does not interpret. String values
	// are still available to locale templates.
	Extra map[string]interface{} `mapstructure:",remain" yaml:",inline"`
}

// Channel returns the update channel, which defaults to the brand key
func (d *Definition) Channel() string {
	if d.Release.Channel != "" {
		return d.Release.Channel
	}
	return d.Key
}

// Tokens returns the values substituted into locale templates, keyed by
// field name. Known fields win over Extra keys of the same name.
func (d *Definition) Tokens() map[string]string {
	tokens := make(map[string]string, len(d.Extra)+6)
	for k, v := range d.Extra {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		tokens[k] = fmt.Sprint(v)
	}
	tokens[FieldFullName] = d.FullName
	tokens[FieldShortName] = d.ShortName
	tokens[FieldShorterName] = d.ShorterName
	tokens[FieldGenericName] = d.GenericName
	tokens[FieldVendor] = d.Vendor
	tokens[FieldBackgroundColor] = d.BackgroundColor
	return tokens
}

// ExtraKeys lists Extra keys in sorted order
func (d *Definition) ExtraKeys() []string {
	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
