package di

// DynamicReference wraps a definition that is not registered in the
// container. The raw definition is normalized once, when the reference
// is created, so malformed input fails there and not at resolution.
//
//	widget, err := di.DynamicTo(map[string]any{
//	    "__class": "Widget",
//	    "size":    15,
//	})
type DynamicReference struct {
	definition Definition
}

// DynamicTo normalizes raw with a Normalizer built from opts.
func DynamicTo(raw any, opts ...NormalizerOption) (DynamicReference, error) {
	return DynamicWith(NewNormalizer(opts...), raw)
}

// DynamicWith normalizes raw with n.
func DynamicWith(n DefinitionNormalizer, raw any) (DynamicReference, error) {
	def, err := n.Normalize(raw)
	if err != nil {
		return DynamicReference{}, err
	}
	return DynamicReference{definition: def}, nil
}

// Definition returns the normalized definition.
func (r DynamicReference) Definition() Definition {
	return r.definition
}

// Resolve delegates to the normalized definition. Nothing is cached.
func (r DynamicReference) Resolve(c Container, params Params) (any, error) {
	if r.definition == nil {
		return nil, newInvalidConfigError(errNilDefinition, nil)
	}
	return r.definition.Resolve(c, params)
}
