package di

import "fmt"

// Definition produces a value for a container and a set of parameters.
// Resolution may be impure: calling Resolve twice can yield different values.
type Definition interface {
	Resolve(c Container, params Params) (any, error)
}

// Container is the lookup primitive a Definition resolves against.
// Implementations return their own error kind for unknown ids and
// construction failures; definitions pass those errors through untouched.
type Container interface {
	Get(id string, params Params) (any, error)
}

// ContainerFunc adapts a plain function to Container.
type ContainerFunc func(id string, params Params) (any, error)

func (f ContainerFunc) Get(id string, params Params) (any, error) {
	return f(id, params)
}

// Resolve resolves d against c and asserts the result to T.
func Resolve[T any](c Container, d Definition, params Params) (T, error) {
	var zero T
	if d == nil {
		return zero, newInvalidConfigError(errNilDefinition, nil)
	}
	v, err := d.Resolve(c, params)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s: resolved %T, want %s", errResolvedTypeMismatch, v, typeName[T]())
	}
	return typed, nil
}
