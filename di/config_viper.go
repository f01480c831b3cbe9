package di

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type configConfig struct {
	configType   string
	envPrefix    string
	keyReplacer  *strings.Replacer
	automaticEnv bool
	optional     bool
	defaults     map[string]any
	hooks        []func(*viper.Viper) error
	err          error
}

// ConfigOption configures how a config file is read.
type ConfigOption interface {
	applyConfig(*configConfig)
}

type configOptionFunc func(*configConfig)

func (f configOptionFunc) applyConfig(cfg *configConfig) { f(cfg) }

// ConfigType sets the config type (e.g. "toml", "yaml") when the file
// extension does not tell.
func ConfigType(kind string) ConfigOption {
	return configOptionFunc(func(cfg *configConfig) {
		if cfg.err != nil {
			return
		}
		if kind == "" {
			cfg.err = fmt.Errorf("config type must not be empty")
			return
		}
		cfg.configType = kind
	})
}

// ConfigOptional treats a missing file as empty config.
func ConfigOptional() ConfigOption {
	return configOptionFunc(func(cfg *configConfig) {
		cfg.optional = true
	})
}

// ConfigEnvPrefix sets the environment variable prefix.
func ConfigEnvPrefix(prefix string) ConfigOption {
	return configOptionFunc(func(cfg *configConfig) {
		if cfg.err != nil {
			return
		}
		cfg.envPrefix = prefix
	})
}

// ConfigEnvOverride enables env overrides with optional prefix and
// the "." / "-" to "_" key replacer.
func ConfigEnvOverride(prefix ...string) ConfigOption {
	return configOptionFunc(func(cfg *configConfig) {
		if len(prefix) > 0 {
			cfg.envPrefix = prefix[0]
		}
		cfg.automaticEnv = true
		if cfg.keyReplacer == nil {
			cfg.keyReplacer = strings.NewReplacer(".", "_", "-", "_")
		}
	})
}

// ConfigDefault sets a default value for key.
func ConfigDefault(key string, value any) ConfigOption {
	return configOptionFunc(func(cfg *configConfig) {
		if cfg.err != nil {
			return
		}
		if cfg.defaults == nil {
			cfg.defaults = make(map[string]any)
		}
		cfg.defaults[key] = value
	})
}

// ConfigWithViper runs fn against the viper instance before reading.
func ConfigWithViper(fn func(*viper.Viper) error) ConfigOption {
	return configOptionFunc(func(cfg *configConfig) {
		if fn != nil {
			cfg.hooks = append(cfg.hooks, fn)
		}
	})
}

func parseConfigOptions(opts []ConfigOption) (configConfig, error) {
	var cfg configConfig
	for _, opt := range opts {
		if opt != nil {
			opt.applyConfig(&cfg)
		}
	}
	return cfg, cfg.err
}

// LoadConfig reads path and decodes the section under key (the whole file
// when key is empty) into T. Struct results are validated.
//
//	cfg, err := di.LoadConfig[di.Config]("config.toml", "di", di.ConfigEnvOverride("APP"))
func LoadConfig[T any](path string, key string, opts ...ConfigOption) (T, error) {
	var out T
	cfg, err := parseConfigOptions(opts)
	if err != nil {
		return out, err
	}
	v, err := loadViper(cfg, path)
	if err != nil {
		return out, err
	}
	if err := decodeConfig(v, key, &out); err != nil {
		return out, err
	}
	if reflect.TypeOf(out) != nil && reflect.TypeOf(out).Kind() == reflect.Struct {
		if err := validateConfig(out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// LoadDefinitions reads the raw definitions stored under key. Records in
// the shape Reference.Export produces ({id: ...}, nothing else) come back
// as References; everything else is left for a Normalizer.
func LoadDefinitions(path string, key string, opts ...ConfigOption) (map[string]any, error) {
	cfg, err := parseConfigOptions(opts)
	if err != nil {
		return nil, err
	}
	v, err := loadViper(cfg, path)
	if err != nil {
		return nil, err
	}
	var section map[string]any
	if key == "" {
		section = v.AllSettings()
	} else {
		section = v.GetStringMap(key)
	}
	out := make(map[string]any, len(section))
	for id, raw := range section {
		restored, err := restoreRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("definition %q: %w", id, err)
		}
		out[id] = restored
	}
	return out, nil
}

func restoreRecords(raw any) (any, error) {
	switch v := raw.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			r, err := restoreRecords(item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any, map[any]any:
		m, ok := stringKeyedMap(v)
		if !ok {
			return raw, nil
		}
		if isReferenceRecord(m) {
			return ReferenceFromState(m)
		}
		out := make(map[string]any, len(m))
		for k, item := range m {
			r, err := restoreRecords(item)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	}
	return raw, nil
}

func isReferenceRecord(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	_, ok := m["id"]
	return ok
}

func loadViper(cfg configConfig, path string) (*viper.Viper, error) {
	v := viper.New()
	if cfg.envPrefix != "" {
		v.SetEnvPrefix(cfg.envPrefix)
	}
	if cfg.keyReplacer != nil {
		v.SetEnvKeyReplacer(cfg.keyReplacer)
	}
	if cfg.automaticEnv {
		v.AutomaticEnv()
	}
	if path != "" {
		v.SetConfigFile(path)
	}
	if cfg.configType != "" {
		v.SetConfigType(cfg.configType)
	}
	for k, val := range cfg.defaults {
		v.SetDefault(k, val)
	}
	for _, hook := range cfg.hooks {
		if err := hook(v); err != nil {
			return nil, err
		}
	}
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if cfg.optional && (errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)) {
				return v, nil
			}
			return nil, err
		}
	}
	return v, nil
}

func decodeConfig(v *viper.Viper, key string, out any) error {
	t := reflect.TypeOf(out)
	if t == nil || t.Kind() != reflect.Pointer {
		return fmt.Errorf("config target must be a pointer")
	}
	var data any
	if t.Elem().Kind() == reflect.Struct {
		// Per-key lookups so env overrides reach nested fields.
		data = buildConfigMap(v, key, t.Elem())
	} else if key == "" {
		data = v.AllSettings()
	} else {
		data = v.Get(key)
	}
	if data == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			ReferenceDecodeHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(data)
}

func buildConfigMap(v *viper.Viper, prefix string, t reflect.Type) map[string]any {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]any)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, opts := parseMapstructureTag(field.Tag.Get("mapstructure"))
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		fullKey := name
		if prefix != "" {
			fullKey = prefix + "." + name
		}
		fieldType := field.Type
		if fieldType.Kind() == reflect.Pointer {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct && hasTagOption(opts, "squash") {
			// Squashed fields live at the parent's level.
			for k, val := range buildConfigMap(v, prefix, fieldType) {
				out[k] = val
			}
			continue
		}
		if fieldType.Kind() == reflect.Struct && fieldType != referenceType && !isTimeType(fieldType) {
			nested := buildConfigMap(v, fullKey, fieldType)
			if len(nested) > 0 {
				out[name] = nested
			}
			continue
		}
		if val := v.Get(fullKey); val != nil {
			out[name] = val
		}
	}
	return out
}

func parseMapstructureTag(tag string) (string, []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func hasTagOption(opts []string, target string) bool {
	for _, opt := range opts {
		if opt == target {
			return true
		}
	}
	return false
}

func isTimeType(t reflect.Type) bool {
	return t.PkgPath() == "time" && t.Name() == "Time"
}
