package di

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	classKey     = "__class"
	constructKey = "__construct()"
	callSuffix   = "()"
)

// DefinitionNormalizer turns a raw definition into a Definition.
type DefinitionNormalizer interface {
	Normalize(raw any) (Definition, error)
}

// Normalizer dispatches raw definitions by shape:
//   - a Definition is returned as is
//   - a string is a type name looked up in the TypeRegistry
//   - a reflect.Type builds that type
//   - a map[string]any is an array definition and must carry __class
//   - a func is a callable definition
//
// Anything else fails with an *InvalidConfigError.
type Normalizer struct {
	types  *TypeRegistry
	logger *zap.Logger
	config Config
}

type NormalizerOption func(*Normalizer)

// WithTypes sets the registry type names are looked up in.
func WithTypes(types *TypeRegistry) NormalizerOption {
	return func(n *Normalizer) {
		if types != nil {
			n.types = types
		}
	}
}

func WithLogger(logger *zap.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

func WithConfig(cfg Config) NormalizerOption {
	return func(n *Normalizer) {
		n.config = cfg.withDefaults()
	}
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		types:  DefaultTypes(),
		logger: zap.NewNop(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Dynamic normalizes raw into a DynamicReference.
func (n *Normalizer) Dynamic(raw any) (DynamicReference, error) {
	return DynamicWith(n, raw)
}

func (n *Normalizer) Normalize(raw any) (Definition, error) {
	def, kind, err := n.normalize(raw)
	if err != nil {
		n.logger.Debug("definition rejected", zap.String("type", fmt.Sprintf("%T", raw)), zap.Error(err))
		return nil, err
	}
	fields := []zap.Field{zap.String("kind", kind)}
	if named, ok := def.(interface{ Class() string }); ok {
		fields = append(fields, zap.String("class", named.Class()))
	}
	n.logger.Debug("definition normalized", fields...)
	return def, nil
}

func (n *Normalizer) normalize(raw any) (Definition, string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, "", newInvalidConfigError(errNilDefinition, nil)
	case Definition:
		if isNilValue(v) {
			return nil, "", newInvalidConfigError(errNilDefinition, fmt.Errorf("nil %T", v))
		}
		return v, "definition", nil
	case string:
		entry, err := n.lookup(v)
		if err != nil {
			return nil, "", err
		}
		return &ClassDefinition{entry: entry, writer: n.writer()}, "class", nil
	case reflect.Type:
		return &ClassDefinition{entry: entryForType(v), writer: n.writer()}, "class", nil
	case map[string]any:
		def, err := n.normalizeArray(v)
		if err != nil {
			return nil, "", err
		}
		return def, "array", nil
	case map[any]any:
		m, ok := stringKeyedMap(v)
		if !ok {
			return nil, "", newInvalidConfigError(errUnsupportedDefinition, fmt.Errorf("non-string key in %T", raw))
		}
		def, err := n.normalizeArray(m)
		if err != nil {
			return nil, "", err
		}
		return def, "array", nil
	}
	if reflect.TypeOf(raw).Kind() == reflect.Func {
		def, err := Callable(raw)
		if err != nil {
			return nil, "", err
		}
		return def, "callable", nil
	}
	return nil, "", newInvalidConfigError(errUnsupportedDefinition, fmt.Errorf("got %T", raw))
}

func (n *Normalizer) writer() propertyWriter {
	return propertyWriter{
		tag:    n.config.PropertyTag,
		strict: n.config.StrictProperties,
		logger: n.logger,
	}
}

func (n *Normalizer) lookup(name string) (typeEntry, error) {
	entry, ok := n.types.lookup(name)
	if !ok {
		return typeEntry{}, newInvalidConfigError(errUnknownType, fmt.Errorf("%q", name))
	}
	return entry, nil
}

func (n *Normalizer) classEntry(raw any) (typeEntry, error) {
	switch v := raw.(type) {
	case string:
		return n.lookup(v)
	case reflect.Type:
		return entryForType(v), nil
	}
	return typeEntry{}, newInvalidConfigError(errInvalidClass, fmt.Errorf("got %T", raw))
}

// normalizeArray validates every directive up front so a broken mapping
// fails here with all of its problems, not one at a time during Resolve.
// Keys are processed in sorted order; Go maps carry none of their own.
func (n *Normalizer) normalizeArray(raw map[string]any) (*ArrayDefinition, error) {
	classRaw, ok := raw[classKey]
	if !ok {
		return nil, newInvalidConfigError(errMissingClass, nil)
	}
	entry, err := n.classEntry(classRaw)
	if err != nil {
		return nil, err
	}
	def := &ArrayDefinition{entry: entry, writer: n.writer()}
	instance := entry.instanceType()

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs error
	for _, key := range keys {
		value := raw[key]
		switch {
		case key == classKey:
		case key == constructKey:
			args, err := constructParams(value)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			def.construct = args
		case strings.HasSuffix(key, callSuffix):
			method := strings.TrimSuffix(key, callSuffix)
			args, err := callArgs(value)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			if _, ok := findMethod(instance, method); !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s: %s on %s", key, errUnknownMethod, instance))
				continue
			}
			def.calls = append(def.calls, methodCall{method: method, args: args})
		default:
			if n.config.StrictProperties && !def.writer.hasField(instance, key) {
				errs = multierr.Append(errs, fmt.Errorf("%s: %s on %s", key, errUnknownProperty, instance))
				continue
			}
			def.properties = append(def.properties, Param{Name: key, Value: value})
		}
	}
	if errs != nil {
		return nil, newInvalidConfigError(errInvalidArrayDefinition, errs)
	}
	return def, nil
}

func constructParams(value any) (Params, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case Params:
		return v, nil
	case []any:
		return positionalParams(v), nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make(Params, 0, len(v))
		for _, name := range names {
			out = append(out, Param{Name: name, Value: v[name]})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: got %T", errInvalidConstructArgs, value)
}

func callArgs(value any) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	}
	return nil, fmt.Errorf("%s: got %T", errInvalidCallArgs, value)
}
