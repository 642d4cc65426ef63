package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zen-browser/surfer/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectRoot overrides project root discovery
	EnvProjectRoot = "SURFER_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files. These mirror the layout the vendored build
// expects and are not user-configurable.
const (
	EngineDirName   = "engine"
	SourceDirName   = "src"
	ConfigsDirName  = "configs"
	StateDirName    = ".surfer"
	BrandingDirName = "branding"

	// BaseBrandName is the vendored branding every brand inherits from
	BaseBrandName = "unofficial"

	ConfigFileName        = "surfer.toml"
	IgnoreManifestName    = ".gitignore"
	OwnershipManifestName = "managed.toml"
	HashCacheName         = "cache.db"
	MozconfigName         = "mozconfig"
)

// Paths provides centralized path management for surfer
type Paths interface {
	Root() string
	UsedFallback() bool
	ConfigFile() string
	EngineDir() string
	SourceDir() string
	ConfigsDir() string
	BrandingDir() string
	BrandSourceDir(key string) string
	BrandingStore() string
	BrandOutputDir(key string) string
	BaseBrandingDir() string
	AppIniPath() string
	IgnoreManifestPath() string
	StateDir() string
	ScratchDir() string
	OwnershipManifestPath() string
	HashCachePath() string
	MozconfigPath() string
	Resolve(rel string) string
}

type paths struct {
	root string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given project root.
// If root is empty, it will be determined from SURFER_ROOT, the enclosing
// git repository or the current directory, in that order.
func New(root string) (Paths, error) {
	p := &paths{}

	if root == "" {
		found, usedFallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		p.root = found
		p.usedFallback = usedFallback
	} else {
		p.root = expandHome(root)
	}

	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project root")
	}
	p.root = absRoot

	return p, nil
}

// findProjectRoot determines the project root using the following priority:
// 1. SURFER_ROOT environment variable (if set)
// 2. Git repository root
// 3. Current working directory (fallback)
func findProjectRoot() (string, bool, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return expandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

func (p *paths) Root() string       { return p.root }
func (p *paths) UsedFallback() bool { return p.usedFallback }

// ConfigFile returns the project configuration file
func (p *paths) ConfigFile() string {
	return filepath.Join(p.root, ConfigFileName)
}

// EngineDir returns the vendored source tree
func (p *paths) EngineDir() string {
	return filepath.Join(p.root, EngineDirName)
}

// SourceDir returns the maintainer-owned overlay tree
func (p *paths) SourceDir() string {
	return filepath.Join(p.root, SourceDirName)
}

func (p *paths) ConfigsDir() string {
	return filepath.Join(p.root, ConfigsDirName)
}

// BrandingDir returns the directory holding one subdirectory per brand
func (p *paths) BrandingDir() string {
	return filepath.Join(p.ConfigsDir(), BrandingDirName)
}

func (p *paths) BrandSourceDir(key string) string {
	return filepath.Join(p.BrandingDir(), key)
}

// BrandingStore returns the vendored tree's branding directory
func (p *paths) BrandingStore() string {
	return filepath.Join(p.EngineDir(), "browser", "branding")
}

// BrandOutputDir returns where the pipeline materializes a brand
func (p *paths) BrandOutputDir(key string) string {
	return filepath.Join(p.BrandingStore(), key)
}

func (p *paths) BaseBrandingDir() string {
	return filepath.Join(p.BrandingStore(), BaseBrandName)
}

// AppIniPath returns the vendored application descriptor template
func (p *paths) AppIniPath() string {
	return filepath.Join(p.EngineDir(), "build", "application.ini.in")
}

func (p *paths) IgnoreManifestPath() string {
	return filepath.Join(p.EngineDir(), IgnoreManifestName)
}

// StateDir returns the per-project directory surfer owns
func (p *paths) StateDir() string {
	return filepath.Join(p.root, StateDirName)
}

// ScratchDir returns the directory for intermediate files
func (p *paths) ScratchDir() string {
	return filepath.Join(p.StateDir(), "tmp")
}

func (p *paths) OwnershipManifestPath() string {
	return filepath.Join(p.StateDir(), OwnershipManifestName)
}

func (p *paths) HashCachePath() string {
	return filepath.Join(p.StateDir(), HashCacheName)
}

func (p *paths) MozconfigPath() string {
	return filepath.Join(p.StateDir(), MozconfigName)
}

// Resolve joins a project-relative path onto the root. Absolute paths are
// returned cleaned but otherwise untouched.
func (p *paths) Resolve(rel string) string {
	rel = expandHome(rel)
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.root, filepath.FromSlash(rel))
}
