package di

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	errNilDefinition           = "definition must not be nil"
	errUnsupportedDefinition   = "unsupported definition shape"
	errUnknownType             = "unknown type name"
	errMissingClass            = "array definition requires __class"
	errInvalidClass            = "__class must be a type name or reflect.Type"
	errInvalidConstructArgs    = "__construct() must be a list or a map of arguments"
	errInvalidCallArgs         = "method call arguments must be a list"
	errUnknownMethod           = "method not found"
	errMissingStateID          = "state is missing the id field"
	errInvalidStateID          = "state id must be a string"
	errResolvedTypeMismatch    = "resolved value has unexpected type"
	errCallableShape           = "callable must accept only Container and Params and return (T) or (T, error)"
	errFactoryReturnedNil      = "factory returned nil"
	errPropertyTargetNotStruct = "properties can only be set on structs"
	errUnknownProperty         = "unknown property"
	errInvalidArrayDefinition  = "invalid array definition"
)

// ErrInvalidConfig matches every *InvalidConfigError through errors.Is.
var ErrInvalidConfig = errors.New("invalid config")

// InvalidConfigError reports a definition that cannot be normalized or
// a record that cannot be restored.
type InvalidConfigError struct {
	Reason string
	Err    error
}

func newInvalidConfigError(reason string, err error) *InvalidConfigError {
	return &InvalidConfigError{Reason: reason, Err: err}
}

func (e *InvalidConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("di: %s: %v", e.Reason, e.Err)
	}
	return "di: " + e.Reason
}

func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
