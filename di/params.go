package di

import "strconv"

// Param is a single named resolution parameter.
type Param struct {
	Name  string
	Value any
}

// P builds a Param.
func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// Params is an ordered mapping of parameter names to values.
// A nil Params is the empty mapping.
type Params []Param

// NewParams builds Params from ps. A later entry with a repeated name
// replaces the earlier one but keeps its position.
func NewParams(ps ...Param) Params {
	var out Params
	for _, p := range ps {
		out = out.With(p.Name, p.Value)
	}
	return out
}

// positionalParams names args "0", "1", ... in order.
func positionalParams(args []any) Params {
	out := make(Params, 0, len(args))
	for i, arg := range args {
		out = append(out, Param{Name: strconv.Itoa(i), Value: arg})
	}
	return out
}

func (p Params) Len() int { return len(p) }

// Get returns the value stored under name.
func (p Params) Get(name string) (any, bool) {
	for _, item := range p {
		if item.Name == name {
			return item.Value, true
		}
	}
	return nil, false
}

// Names returns the parameter names in order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, item := range p {
		names[i] = item.Name
	}
	return names
}

// With returns a copy of p with name set to value.
func (p Params) With(name string, value any) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Param{Name: name, Value: value})
}

// Merge returns p overlaid with other; names present in both take other's value.
func (p Params) Merge(other Params) Params {
	out := p
	if len(other) == 0 {
		return out
	}
	for _, item := range other {
		out = out.With(item.Name, item.Value)
	}
	return out
}

// Map copies p into a plain map; order is lost.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p))
	for _, item := range p {
		out[item.Name] = item.Value
	}
	return out
}
