package di

import "fmt"

// ClassDefinition builds a new instance of a registered type on every Resolve.
// Resolution params go to the type's factory, or become properties when
// the type was registered without one.
type ClassDefinition struct {
	entry  typeEntry
	writer propertyWriter
}

// Class returns the type name the definition builds.
func (d *ClassDefinition) Class() string {
	return d.entry.name
}

func (d *ClassDefinition) Resolve(c Container, params Params) (any, error) {
	args, err := resolveParams(c, params)
	if err != nil {
		return nil, err
	}
	obj, props, err := d.entry.instantiate(c, args)
	if err != nil {
		return nil, err
	}
	if err := d.writer.apply(obj, props); err != nil {
		return nil, err
	}
	return obj, nil
}

type methodCall struct {
	method string
	args   []any
}

// ArrayDefinition is the mapping form: a class, constructor arguments,
// properties and method calls applied in that order.
//
//	map[string]any{
//	    "__class":       "Mailer",
//	    "__construct()": map[string]any{"transport": di.To("smtp")},
//	    "from":          "noreply@example.com",
//	    "useTLS()":      []any{true},
//	}
type ArrayDefinition struct {
	entry      typeEntry
	construct  Params
	properties Params
	calls      []methodCall
	writer     propertyWriter
}

// Class returns the type name the definition builds.
func (d *ArrayDefinition) Class() string {
	return d.entry.name
}

// Resolve builds a new instance. params override __construct() arguments
// with the same name.
func (d *ArrayDefinition) Resolve(c Container, params Params) (any, error) {
	args, err := resolveParams(c, d.construct.Merge(params))
	if err != nil {
		return nil, err
	}
	obj, props, err := d.entry.instantiate(c, args)
	if err != nil {
		return nil, err
	}
	own, err := resolveParams(c, d.properties)
	if err != nil {
		return nil, err
	}
	if err := d.writer.apply(obj, props.Merge(own)); err != nil {
		return nil, err
	}
	for _, call := range d.calls {
		callArgs, err := resolveArgs(c, call.args)
		if err != nil {
			return nil, err
		}
		if err := d.writer.call(obj, call.method, callArgs); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// CallableDefinition invokes a func on every Resolve.
type CallableDefinition struct {
	fn *callable
}

// Callable wraps fn. fn takes any of Container and Params and returns
// (T) or (T, error).
func Callable(fn any) (*CallableDefinition, error) {
	c, err := newCallable(fn)
	if err != nil {
		return nil, err
	}
	return &CallableDefinition{fn: c}, nil
}

func (d *CallableDefinition) Resolve(c Container, params Params) (any, error) {
	args, err := resolveParams(c, params)
	if err != nil {
		return nil, err
	}
	return d.fn.call(c, args)
}

// ValueDefinition resolves to a fixed value.
type ValueDefinition struct {
	value any
}

// Value wraps v so it is never read as a type name or a callable.
func Value(v any) ValueDefinition {
	return ValueDefinition{value: v}
}

func (d ValueDefinition) Resolve(Container, Params) (any, error) {
	return d.value, nil
}

func (d ValueDefinition) String() string {
	return fmt.Sprintf("di.Value(%v)", d.value)
}

var (
	_ Definition = Reference{}
	_ Definition = DynamicReference{}
	_ Definition = &ClassDefinition{}
	_ Definition = &ArrayDefinition{}
	_ Definition = &CallableDefinition{}
	_ Definition = ValueDefinition{}
)
