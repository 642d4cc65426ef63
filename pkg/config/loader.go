package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/logging"
	"github.com/zen-browser/surfer/pkg/paths"
)

const (
	// EnvPrefix marks environment variables that override configuration.
	// A double underscore separates nesting levels:
	// SURFER_OVERLAY__WORKERS=8 sets overlay.workers.
	EnvPrefix = "SURFER_"

	// DotEnvFile is loaded from the project root before the environment is read
	DotEnvFile = ".env"
)

var validate = validator.New()

// Default returns the configuration built only from the embedded defaults
func Default() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return unmarshal(k)
}

// Load resolves configuration for the project at projectRoot. Overrides are
// dotted keys applied last, typically from command-line flags.
func Load(projectRoot string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config.loader")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Project config if it exists
	configPath := filepath.Join(projectRoot, paths.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load project config from %s", configPath).
				WithDetail(errors.DetailPath, configPath)
		}
		logger.Debug().Str("path", configPath).Msg("Loaded project config")
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", configPath)
	}

	// 3. .env then SURFER_* environment
	if err := loadDotEnv(projectRoot); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	return unmarshal(k)
}

// envKey maps SURFER_OVERLAY__WORKERS to overlay.workers. Variables that are
// not configuration keys return "" so koanf skips them.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == strings.ToLower(strings.TrimPrefix(paths.EnvProjectRoot, EnvPrefix)) {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

func loadDotEnv(projectRoot string) error {
	path := filepath.Join(projectRoot, DotEnvFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	// godotenv.Load never overrides variables that are already set
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to read %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				stringifyMapHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := postProcessConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// stringifyMapHookFunc normalizes map[interface{}]interface{} values coming
// from some providers into map[string]interface{} so brand tables decode.
func stringifyMapHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.Map || t.Kind() != reflect.Map {
			return data, nil
		}
		m, ok := data.(map[interface{}]interface{})
		if !ok {
			return data, nil
		}
		out := make(map[string]interface{}, len(m))
		for key, v := range m {
			if s, ok := key.(string); ok {
				out[s] = v
			}
		}
		return out, nil
	}
}

func postProcessConfig(cfg *Config) error {
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	cfg.BuildMode = strings.ToLower(strings.TrimSpace(cfg.BuildMode))
	if cfg.BrandDefaults == nil {
		cfg.BrandDefaults = map[string]interface{}{}
	}
	if cfg.Brands == nil {
		cfg.Brands = map[string]map[string]interface{}{}
	}

	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}
	return nil
}
