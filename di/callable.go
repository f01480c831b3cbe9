package di

import (
	"fmt"
	"reflect"
)

var (
	containerType = reflect.TypeOf((*Container)(nil)).Elem()
	paramsType    = reflect.TypeOf(Params(nil))
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

type callableArg int

const (
	argContainer callableArg = iota
	argParams
)

// callable is a func checked once against the accepted shape:
// inputs drawn from {Container, Params}, outputs (T) or (T, error).
type callable struct {
	fn     reflect.Value
	in     []callableArg
	out    reflect.Type
	hasErr bool
}

func newCallable(fn any) (*callable, error) {
	if fn == nil {
		return nil, newInvalidConfigError(errCallableShape, nil)
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("got %T", fn))
	}
	v := reflect.ValueOf(fn)
	if v.IsNil() {
		return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("nil %s", t))
	}
	if t.IsVariadic() {
		return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("variadic %s", t))
	}
	c := &callable{fn: v}
	seen := map[callableArg]bool{}
	for i := 0; i < t.NumIn(); i++ {
		var arg callableArg
		switch t.In(i) {
		case containerType:
			arg = argContainer
		case paramsType:
			arg = argParams
		default:
			return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("parameter %d of %s", i, t))
		}
		if seen[arg] {
			return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("repeated parameter %d of %s", i, t))
		}
		seen[arg] = true
		c.in = append(c.in, arg)
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("second result of %s", t))
		}
		c.hasErr = true
	default:
		return nil, newInvalidConfigError(errCallableShape, fmt.Errorf("results of %s", t))
	}
	c.out = t.Out(0)
	return c, nil
}

func (c *callable) call(container Container, params Params) (any, error) {
	args := make([]reflect.Value, len(c.in))
	for i, arg := range c.in {
		switch arg {
		case argContainer:
			if container == nil {
				args[i] = reflect.Zero(containerType)
			} else {
				args[i] = reflect.ValueOf(container)
			}
		case argParams:
			args[i] = reflect.ValueOf(params)
		}
	}
	results := c.fn.Call(args)
	if c.hasErr && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func (c *callable) String() string {
	return c.fn.Type().String()
}
