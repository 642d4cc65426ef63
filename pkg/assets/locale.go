package assets

import (
	"embed"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/zen-browser/surfer/pkg/filesystem"
	"github.com/zen-browser/surfer/pkg/types"
)

// LocaleTemplateDirName is the template directory under the project configs
const LocaleTemplateDirName = "branding.optional"

//go:embed templates/branding.optional
var defaultTemplates embed.FS

const defaultTemplateRoot = "templates/branding.optional"

// LocaleTemplate is one file to expand into the output directory
type LocaleTemplate struct {
	// Path is slash-separated and relative to the template directory
	Path    string
	Content []byte
}

var tokenPattern = regexp.MustCompile(`\$\{([^${}]+)\}`)

// Expand replaces every ${name} with tokens[name]. Unknown tokens are
// left as written. Substituted values are not expanded again.
func Expand(content []byte, tokens map[string]string) []byte {
	return tokenPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		name := string(match[2 : len(match)-1])
		if v, ok := tokens[name]; ok {
			return []byte(v)
		}
		return match
	})
}

// loadTemplates reads every file under dir. An empty dir selects the
// built-in templates.
func loadTemplates(fsys types.FS, dir string) ([]LocaleTemplate, error) {
	if dir == "" {
		return loadDefaultTemplates()
	}

	files, err := filesystem.ListFiles(fsys, dir)
	if err != nil {
		return nil, err
	}
	templates := make([]LocaleTemplate, 0, len(files))
	for _, rel := range files {
		content, err := fsys.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		templates = append(templates, LocaleTemplate{Path: rel, Content: content})
	}
	return templates, nil
}

func loadDefaultTemplates() ([]LocaleTemplate, error) {
	sub, err := fs.Sub(defaultTemplates, defaultTemplateRoot)
	if err != nil {
		return nil, err
	}

	var templates []LocaleTemplate
	err = fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := fs.ReadFile(sub, path)
		if err != nil {
			return err
		}
		templates = append(templates, LocaleTemplate{Path: path, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Path < templates[j].Path })
	return templates, nil
}
