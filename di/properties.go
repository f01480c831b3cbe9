package di

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// propertyWriter assigns property directives and method-call arguments.
// Values already assignable to the target keep their identity; anything
// else goes through mapstructure with weak typing.
type propertyWriter struct {
	tag    string
	strict bool
	logger *zap.Logger
}

func (w propertyWriter) apply(obj any, props Params) error {
	if len(props) == 0 {
		return nil
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return newInvalidConfigError(errPropertyTargetNotStruct, fmt.Errorf("got %T", obj))
	}
	target := rv.Elem()
	for _, prop := range props {
		field, ok := w.field(target.Type(), prop.Name)
		if !ok {
			if w.strict {
				return newInvalidConfigError(errUnknownProperty, fmt.Errorf("%s.%s", target.Type(), prop.Name))
			}
			w.logger.Warn("skipping unknown property",
				zap.String("type", target.Type().String()),
				zap.String("property", prop.Name),
			)
			continue
		}
		val, err := w.convert(prop.Value, field.Type)
		if err != nil {
			return fmt.Errorf("property %s.%s: %w", target.Type(), prop.Name, err)
		}
		fv, err := target.FieldByIndexErr(field.Index)
		if err != nil {
			return fmt.Errorf("property %s.%s: %w", target.Type(), prop.Name, err)
		}
		fv.Set(val)
	}
	return nil
}

// field finds an exported field by tag, then by case-insensitive name.
func (w propertyWriter) field(t reflect.Type, name string) (reflect.StructField, bool) {
	var byName reflect.StructField
	found := false
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tagName, _, _ := strings.Cut(f.Tag.Get(w.tag), ","); tagName != "" {
			if tagName == name {
				return f, true
			}
			continue
		}
		if !found && strings.EqualFold(f.Name, name) {
			byName = f
			found = true
		}
	}
	return byName, found
}

func (w propertyWriter) convert(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	out := reflect.New(t)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          w.tag,
		WeaklyTypedInput: true,
		ErrorUnused:      w.strict,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			ReferenceDecodeHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: out.Interface(),
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := decoder.Decode(value); err != nil {
		return reflect.Value{}, err
	}
	return out.Elem(), nil
}

// hasField reports whether t (or *t) has a settable field for name.
func (w propertyWriter) hasField(t reflect.Type, name string) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	_, ok := w.field(t, name)
	return ok
}

// call invokes the method named name (case-insensitive, viper lowercases
// keys) with args converted to the parameter types. A variadic method
// takes its variadic part as a single list argument.
func (w propertyWriter) call(obj any, name string, args []any) error {
	rv := reflect.ValueOf(obj)
	method, ok := findMethod(rv.Type(), name)
	if !ok {
		return newInvalidConfigError(errUnknownMethod, fmt.Errorf("%T.%s", obj, name))
	}
	mt := method.Type
	// method.Type includes the receiver as its first input.
	if mt.NumIn()-1 != len(args) {
		return newInvalidConfigError(errInvalidCallArgs,
			fmt.Errorf("%T.%s takes %d arguments, got %d", obj, method.Name, mt.NumIn()-1, len(args)))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		val, err := w.convert(arg, mt.In(i+1))
		if err != nil {
			return fmt.Errorf("%T.%s argument %d: %w", obj, method.Name, i, err)
		}
		in[i] = val
	}
	fn := rv.MethodByName(method.Name)
	var out []reflect.Value
	if mt.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	if n := len(out); n > 0 && mt.Out(n-1) == errorType && !out[n-1].IsNil() {
		return out[n-1].Interface().(error)
	}
	return nil
}

func findMethod(t reflect.Type, name string) (reflect.Method, bool) {
	if m, ok := t.MethodByName(name); ok {
		return m, true
	}
	for i := 0; i < t.NumMethod(); i++ {
		if m := t.Method(i); strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return reflect.Method{}, false
}

// resolveValue resolves definitions nested in v, copying slices and maps
// on the way. Other values are returned as they are.
func resolveValue(c Container, v any) (any, error) {
	switch val := v.(type) {
	case Definition:
		return val.Resolve(c, nil)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			r, err := resolveValue(c, item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			r, err := resolveValue(c, item)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	}
	return v, nil
}

func resolveParams(c Container, params Params) (Params, error) {
	if len(params) == 0 {
		return params, nil
	}
	out := make(Params, len(params))
	for i, p := range params {
		v, err := resolveValue(c, p.Value)
		if err != nil {
			return nil, err
		}
		out[i] = Param{Name: p.Name, Value: v}
	}
	return out, nil
}

func resolveArgs(c Container, args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := resolveValue(c, arg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
