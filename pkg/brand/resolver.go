package brand

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/zen-browser/surfer/pkg/config"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/types"
)

// Partial is one layer of brand fields
type Partial map[string]interface{}

// Merge combines layers left to right. Later layers replace whole values;
// nested tables are not merged.
func Merge(layers ...Partial) Partial {
	out := Partial{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

var validate = validator.New()

// Resolver turns brand keys into definitions
type Resolver struct {
	fs          types.FS
	brandingDir string
	global      Partial
	defaults    Partial
	brands      map[string]map[string]interface{}
}

// NewResolver creates a resolver over the brand directories in brandingDir
// using the project name and vendor, brand defaults and brand tables from
// cfg.
func NewResolver(fs types.FS, brandingDir string, cfg *config.Config) *Resolver {
	return &Resolver{
		fs:          fs,
		brandingDir: brandingDir,
		global: Partial{
			FieldGenericName: cfg.Name,
			FieldVendor:      cfg.Vendor,
		},
		defaults: Partial(cfg.BrandDefaults),
		brands:   cfg.Brands,
	}
}

// Layers returns the ordered partial records for key
func (r *Resolver) Layers(key string) []Partial {
	return []Partial{r.global, r.defaults, Partial(r.brands[key])}
}

// Resolve checks the brand directory and builds its definition
func (r *Resolver) Resolve(key string) (*Definition, error) {
	logger := logging.GetLogger("brand.resolver")
	dir := filepath.Join(r.brandingDir, key)

	info, err := r.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.MissingBrandError(key, dir)
	}

	var missing []string
	for _, name := range RequiredFiles {
		if _, err := r.fs.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.IncompleteBrandError(key, missing)
	}

	merged := Merge(r.Layers(key)...)
	def := &Definition{Key: key, Dir: dir}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           def,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to build brand decoder")
	}
	if err := decoder.Decode(map[string]interface{}(merged)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBrandInvalid, "brand %s has malformed fields", key).
			WithDetail(errors.DetailBrand, key)
	}

	if err := validate.Struct(def); err != nil {
		return nil, errors.Wrapf(err, errors.ErrBrandInvalid, "brand %s is incomplete", key).
			WithDetail(errors.DetailBrand, key)
	}

	logger.Debug().
		Str("brand", key).
		Str("fullName", def.FullName).
		Strs("extra", def.ExtraKeys()).
		Msg("Resolved brand")
	return def, nil
}

// List returns the brand keys that have a directory, sorted. A missing
// branding directory yields no brands.
func (r *Resolver) List() ([]string, error) {
	entries, err := r.fs.ReadDir(r.brandingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", r.brandingDir)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			keys = append(keys, e.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}
