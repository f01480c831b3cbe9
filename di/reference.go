package di

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Reference points at an entry the container knows by id.
//
// It is resolved lazily: every Resolve asks the container again, so a
// non-singleton entry yields a fresh value each time.
//
//	raw := map[string]any{
//	    "__class":       "Mailer",
//	    "__construct()": []any{di.To("smtp.transport")},
//	}
type Reference struct {
	id string
}

var referenceType = reflect.TypeOf(Reference{})

// To creates a Reference to id. It never fails; whether id exists is
// decided by the container at resolution time.
func To(id string) Reference {
	return Reference{id: id}
}

// ID returns the referenced identifier.
func (r Reference) ID() string {
	return r.id
}

// Resolve returns c.Get(id, params) unchanged, error included.
func (r Reference) Resolve(c Container, params Params) (any, error) {
	return c.Get(r.id, params)
}

func (r Reference) String() string {
	return "di.Reference(" + r.id + ")"
}

// Export returns the flat record ReferenceFromState restores.
func (r Reference) Export() map[string]any {
	return map[string]any{"id": r.id}
}

type referenceState struct {
	ID string `mapstructure:"id"`
}

// ReferenceFromState restores a Reference from a record produced by Export
// or by any generic exporter that writes the id field.
func ReferenceFromState(state map[string]any) (Reference, error) {
	if id, ok := state["id"]; !ok || id == nil {
		return Reference{}, newInvalidConfigError(errMissingStateID, nil)
	}
	var rec referenceState
	if err := mapstructure.Decode(state, &rec); err != nil {
		return Reference{}, newInvalidConfigError(errInvalidStateID, err)
	}
	return To(rec.ID), nil
}

// ReferenceDecodeHook restores Reference values while decoding with
// mapstructure, so exported records reload as references.
func ReferenceDecodeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != referenceType {
			return data, nil
		}
		switch v := data.(type) {
		case Reference:
			return v, nil
		case string:
			return To(v), nil
		}
		if from.Kind() != reflect.Map {
			return data, nil
		}
		state, ok := stringKeyedMap(data)
		if !ok {
			return nil, newInvalidConfigError(errMissingStateID, nil)
		}
		return ReferenceFromState(state)
	}
}

// stringKeyedMap converts map[string]any and map[any]any (yaml v2 style)
// into map[string]any.
func stringKeyedMap(data any) (map[string]any, bool) {
	switch m := data.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = v
		}
		return out, true
	}
	return nil, false
}
