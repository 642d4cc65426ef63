package assets

import "sort"

// ArtifactKind classifies generated outputs
type ArtifactKind string

const (
	RasterIcon            ArtifactKind = "raster-icon"
	PlatformIconContainer ArtifactKind = "platform-icon-container"
	AboutLogo             ArtifactKind = "about-logo"
	ThemedCSS             ArtifactKind = "themed-css"
	LocalizedTemplate     ArtifactKind = "localized-template"
	InstallerDefine       ArtifactKind = "installer-define"
	ProfilePref           ArtifactKind = "profile-pref"
	InheritedFile         ArtifactKind = "inherited-file"
	OptionalIcon          ArtifactKind = "optional-icon"
)

// Artifact is one file written into the brand output directory. Path is
// slash-separated and relative to that directory.
type Artifact struct {
	Kind ArtifactKind `yaml:"kind"`
	Path string       `yaml:"path"`
	Size int          `yaml:"size"`
}

// Result describes a completed apply
type Result struct {
	Key       string     `yaml:"key"`
	OutputDir string     `yaml:"outputDir"`
	Artifacts []Artifact `yaml:"artifacts"`

	// LogoHash is the content hash recorded for logo.png
	LogoHash string `yaml:"logoHash"`
	// LogoHashNew is false when the same artwork was already processed
	LogoHashNew bool `yaml:"logoHashNew"`

	// AppIni is the patched descriptor template, empty when absent
	AppIni           string `yaml:"appIni,omitempty"`
	UpdateURLMatches int    `yaml:"updateUrlMatches"`

	Mozconfig string `yaml:"mozconfig,omitempty"`
}

func (r *Result) add(kind ArtifactKind, path string, size int) {
	r.Artifacts = append(r.Artifacts, Artifact{Kind: kind, Path: path, Size: size})
}

// Count returns the number of artifacts of kind
func (r *Result) Count(kind ArtifactKind) int {
	n := 0
	for _, a := range r.Artifacts {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the last artifact written at path. Later steps may
// overwrite earlier outputs.
func (r *Result) Find(path string) (Artifact, bool) {
	for i := len(r.Artifacts) - 1; i >= 0; i-- {
		if r.Artifacts[i].Path == path {
			return r.Artifacts[i], true
		}
	}
	return Artifact{}, false
}

// Paths returns the distinct output paths in sorted order
func (r *Result) Paths() []string {
	seen := make(map[string]bool, len(r.Artifacts))
	out := make([]string, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		if seen[a.Path] {
			continue
		}
		seen[a.Path] = true
		out = append(out, a.Path)
	}
	sort.Strings(out)
	return out
}
