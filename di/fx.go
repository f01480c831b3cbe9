package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ModuleName is the fx module name used by Module.
const ModuleName = "di/reference"

type normalizerIn struct {
	fx.In

	Logger *zap.Logger   `optional:"true"`
	Config *Config       `optional:"true"`
	Types  *TypeRegistry `optional:"true"`
}

// Module provides a *Normalizer to an fx graph, picking up a *zap.Logger,
// *Config and *TypeRegistry when the graph has them. opts apply last.
func Module(opts ...NormalizerOption) fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(func(in normalizerIn) *Normalizer {
			base := make([]NormalizerOption, 0, 3+len(opts))
			if in.Logger != nil {
				base = append(base, WithLogger(in.Logger.Named("di")))
			}
			if in.Config != nil {
				base = append(base, WithConfig(*in.Config))
			}
			if in.Types != nil {
				base = append(base, WithTypes(in.Types))
			}
			return NewNormalizer(append(base, opts...)...)
		}),
	)
}

// ProvideResolved provides T built from raw. raw is normalized with the
// graph's *Normalizer and resolved against the graph's Container when fx
// first needs T. annotations go to fx.Annotate (fx.ResultTags, fx.As, ...).
//
//	fx.Provide(func() di.Container { return myContainer }),
//	di.Module(),
//	di.ProvideResolved[*Mailer](map[string]any{"__class": "Mailer"}, fx.ResultTags(`name:"mailer"`)),
func ProvideResolved[T any](raw any, annotations ...fx.Annotation) fx.Option {
	constructor := func(c Container, n *Normalizer) (T, error) {
		var zero T
		ref, err := n.Dynamic(raw)
		if err != nil {
			return zero, err
		}
		return Resolve[T](c, ref, nil)
	}
	if len(annotations) == 0 {
		return fx.Provide(constructor)
	}
	return fx.Provide(fx.Annotate(constructor, annotations...))
}
