package di_test

import (
	"errors"
	"testing"

	"github.com/bronystylecrazy/diref/di"
	"github.com/stretchr/testify/require"
)

var errWidgetBroken = errors.New("widget broken")

type testLogger struct {
	name string
}

type Widget struct {
	Size   int `di:"size"`
	Label  string
	Logger *testLogger
	Tags   []string
}

func (w *Widget) SetLabel(label string) {
	w.Label = label
}

func (w *Widget) AddTag(tag string) error {
	if tag == "" {
		return errWidgetBroken
	}
	w.Tags = append(w.Tags, tag)
	return nil
}

func (w *Widget) SetTags(tags ...string) {
	w.Tags = tags
}

type Transport struct {
	Host string
}

type Mailer struct {
	Transport *Transport
	From      string
	Retries   int
}

func newTestTypes(t *testing.T) *di.TypeRegistry {
	t.Helper()
	types := di.NewTypeRegistry()
	require.NoError(t, types.RegisterType("Widget", Widget{}))
	require.NoError(t, types.RegisterFactory("Mailer", func(p di.Params) (*Mailer, error) {
		m := &Mailer{}
		if v, ok := p.Get("transport"); ok {
			tr, ok := v.(*Transport)
			if !ok {
				return nil, errors.New("transport must be *Transport")
			}
			m.Transport = tr
		}
		return m, nil
	}))
	return types
}
