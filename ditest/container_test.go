package ditest

import (
	"errors"
	"testing"

	"github.com/bronystylecrazy/diref/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerGet(t *testing.T) {
	c := NewContainer().Set("answer", 42)

	v, err := c.Get("answer", nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = c.Get("question", di.NewParams(di.P("k", "v")))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"question"`)

	calls := c.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "question", calls[1].ID)
	assert.Equal(t, []string{"k"}, calls[1].Params.Names())
	assert.Equal(t, 1, c.CallCount("answer"))
}

func TestContainerFail(t *testing.T) {
	boom := errors.New("boom")
	c := NewContainer().Fail("broken", boom)
	_, err := c.Get("broken", nil)
	assert.Equal(t, boom, err)
}

func TestNormalizerCountsCalls(t *testing.T) {
	def := DefinitionFunc(func(di.Container, di.Params) (any, error) { return "ok", nil })
	n := NewNormalizer(func(any) (di.Definition, error) { return def, nil })

	_, err := n.Normalize("anything")
	require.NoError(t, err)
	_, err = n.Normalize(1)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Calls())

	out, err := def.Resolve(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
