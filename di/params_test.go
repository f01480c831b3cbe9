package di_test

import (
	"testing"

	"github.com/bronystylecrazy/diref/di"
	"github.com/stretchr/testify/assert"
)

func TestParamsKeepOrder(t *testing.T) {
	p := di.NewParams(di.P("b", 1), di.P("a", 2), di.P("b", 3))
	assert.Equal(t, []string{"b", "a"}, p.Names())
	v, ok := p.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, p.Len())
}

func TestParamsWithCopies(t *testing.T) {
	base := di.NewParams(di.P("host", "a"))
	next := base.With("host", "b").With("port", 25)

	v, _ := base.Get("host")
	assert.Equal(t, "a", v)
	assert.Equal(t, []string{"host", "port"}, next.Names())
	assert.Equal(t, map[string]any{"host": "b", "port": 25}, next.Map())
}

func TestParamsMerge(t *testing.T) {
	base := di.NewParams(di.P("host", "a"), di.P("port", 25))
	merged := base.Merge(di.NewParams(di.P("port", 587), di.P("tls", true)))

	assert.Equal(t, []string{"host", "port", "tls"}, merged.Names())
	v, _ := merged.Get("port")
	assert.Equal(t, 587, v)
	v, _ = base.Get("port")
	assert.Equal(t, 25, v)
}

func TestNilParams(t *testing.T) {
	var p di.Params
	_, ok := p.Get("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Names())
	assert.Empty(t, p.Map())
	assert.Equal(t, []string{"x"}, p.With("x", 1).Names())
}
