package di

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// TypeRegistry maps type names used in raw definitions to the Go types or
// factories that build them.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]typeEntry
}

type typeEntry struct {
	name    string
	typ     reflect.Type
	factory *callable
}

var defaultTypes = NewTypeRegistry()

// DefaultTypes returns the registry used by normalizers built without WithTypes.
func DefaultTypes() *TypeRegistry {
	return defaultTypes
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]typeEntry)}
}

// RegisterType registers the type of prototype under name. Pointer
// prototypes register their element type; instances are built with
// reflect.New and handed out as pointers.
//
//	types.RegisterType("Widget", Widget{})
func (r *TypeRegistry) RegisterType(name string, prototype any) error {
	if prototype == nil {
		return fmt.Errorf("type %q: prototype must not be nil", name)
	}
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.put(typeEntry{name: name, typ: t})
}

// RegisterFactory registers fn as the constructor for name. fn follows the
// callable shape: parameters drawn from Container and Params, results
// (T) or (T, error).
//
//	types.RegisterFactory("Mailer", func(p di.Params) (*Mailer, error) { ... })
func (r *TypeRegistry) RegisterFactory(name string, fn any) error {
	c, err := newCallable(fn)
	if err != nil {
		return fmt.Errorf("type %q: %w", name, err)
	}
	return r.put(typeEntry{name: name, typ: c.out, factory: c})
}

// Register registers T under name.
func Register[T any](r *TypeRegistry, name string) error {
	var zero T
	entry := entryForType(reflect.TypeOf(&zero).Elem())
	entry.name = name
	return r.put(entry)
}

func (r *TypeRegistry) put(entry typeEntry) error {
	if entry.name == "" {
		return fmt.Errorf("type name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[entry.name] = entry
	return nil
}

func (r *TypeRegistry) lookup(name string) (typeEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.types[name]
	return entry, ok
}

// Has reports whether name is registered.
func (r *TypeRegistry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Names returns the registered names, sorted.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func entryForType(t reflect.Type) typeEntry {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return typeEntry{name: t.String(), typ: t}
}

// instanceType is the type of the value the entry produces.
func (e typeEntry) instanceType() reflect.Type {
	if e.factory != nil {
		return e.factory.out
	}
	return reflect.PointerTo(e.typ)
}

// instantiate builds a new value. Plain types have no constructor, so
// named args come back as properties to assign; positional args are rejected.
func (e typeEntry) instantiate(c Container, args Params) (any, Params, error) {
	if e.factory != nil {
		obj, err := e.factory.call(c, args)
		if err != nil {
			return nil, nil, err
		}
		if isNilValue(obj) {
			return nil, nil, fmt.Errorf("%s: %s", e.name, errFactoryReturnedNil)
		}
		return obj, nil, nil
	}
	for _, arg := range args {
		if isPositional(arg.Name) {
			return nil, nil, newInvalidConfigError(errInvalidConstructArgs,
				fmt.Errorf("%s has no constructor for positional argument %s", e.name, arg.Name))
		}
	}
	return reflect.New(e.typ).Interface(), args, nil
}

func isPositional(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
