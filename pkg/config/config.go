package config

// Config is the fully resolved surfer configuration
type Config struct {
	Name           string `koanf:"name" yaml:"name"`
	Vendor         string `koanf:"vendor" yaml:"vendor"`
	AppID          string `koanf:"app_id" yaml:"appId"`
	BinaryName     string `koanf:"binary_name" yaml:"binaryName"`
	UpdateHostname string `koanf:"update_hostname" yaml:"updateHostname"`

	// Platform overrides host detection when set
	Platform  string `koanf:"platform" yaml:"platform" validate:"omitempty,oneof=darwin win32 linux"`
	Compat    bool   `koanf:"compat" yaml:"compat"`
	BuildMode string `koanf:"build_mode" yaml:"buildMode" validate:"oneof=dev debug release"`

	BuildOptions BuildOptions `koanf:"build_options" yaml:"buildOptions"`
	Overlay      Overlay      `koanf:"overlay" yaml:"overlay"`
	Assets       Assets       `koanf:"assets" yaml:"assets"`

	// BrandDefaults are the documented fields every brand inherits
	BrandDefaults map[string]interface{} `koanf:"brand_defaults" yaml:"brandDefaults"`

	// Brands holds one free-form table per brand key. Keys are kept exactly
	// as written since they double as locale template tokens.
	Brands map[string]map[string]interface{} `koanf:"brands" yaml:"brands"`
}

// BuildOptions holds switches that change how files land in the engine
type BuildOptions struct {
	WindowsUseSymbolicLinks bool `koanf:"windows_use_symbolic_links" yaml:"windowsUseSymbolicLinks"`
}

// Overlay configures the overlay scanner and materializer
type Overlay struct {
	Roots   []OverlayRoot `koanf:"roots" yaml:"roots" validate:"min=1,dive"`
	Exclude []string      `koanf:"exclude" yaml:"exclude"`
	Workers int           `koanf:"workers" yaml:"workers" validate:"min=1"`
}

// OverlayRoot maps a project directory onto a subdirectory of the engine
type OverlayRoot struct {
	// Source is relative to the project root
	Source string `koanf:"source" yaml:"source" validate:"required"`
	// Destination is relative to the engine root; empty means the engine root
	Destination string `koanf:"destination" yaml:"destination"`
	// Optional roots are skipped when the source directory is absent
	Optional bool `koanf:"optional" yaml:"optional"`
}

// Assets configures the brand asset pipeline
type Assets struct {
	Workers     int    `koanf:"workers" yaml:"workers" validate:"min=1"`
	TemplateDir string `koanf:"template_dir" yaml:"templateDir"`
	HashCache   bool   `koanf:"hash_cache" yaml:"hashCache"`
}

// Brand returns the raw table for a brand key, or nil
func (c *Config) Brand(key string) map[string]interface{} {
	if c.Brands == nil {
		return nil
	}
	return c.Brands[key]
}
