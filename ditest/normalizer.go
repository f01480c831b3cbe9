package ditest

import (
	"sync/atomic"

	"github.com/bronystylecrazy/diref/di"
)

// NormalizerFunc adapts a func to di.DefinitionNormalizer.
type NormalizerFunc func(raw any) (di.Definition, error)

func (f NormalizerFunc) Normalize(raw any) (di.Definition, error) {
	return f(raw)
}

// Normalizer is a stub di.DefinitionNormalizer that counts calls.
type Normalizer struct {
	fn    NormalizerFunc
	calls atomic.Int64
}

var _ di.DefinitionNormalizer = (*Normalizer)(nil)

func NewNormalizer(fn NormalizerFunc) *Normalizer {
	return &Normalizer{fn: fn}
}

func (n *Normalizer) Normalize(raw any) (di.Definition, error) {
	n.calls.Add(1)
	return n.fn(raw)
}

// Calls returns how many times Normalize ran.
func (n *Normalizer) Calls() int {
	return int(n.calls.Load())
}

// DefinitionFunc adapts a func to di.Definition.
type DefinitionFunc func(c di.Container, params di.Params) (any, error)

func (f DefinitionFunc) Resolve(c di.Container, params di.Params) (any, error) {
	return f(c, params)
}
