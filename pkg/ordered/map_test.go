package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapKeepsDocumentOrder(t *testing.T) {
	var m Map[int]
	require.NoError(t, json.Unmarshal([]byte(`{"zeta":1,"alpha":2,"mid.dle":3}`), &m))

	assert.Equal(t, []string{"zeta", "alpha", "mid.dle"}, m.Keys())

	out, err := json.Marshal(&m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":2,"mid.dle":3}`, string(out))
}

func TestMapSetDelete(t *testing.T) {
	m := New[string]()
	m.Set("b", "1")
	m.Set("a", "2")
	m.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	m.Delete("b")
	m.Delete("missing")
	assert.Equal(t, []string{"a"}, m.Keys())
	assert.False(t, m.Has("b"))
}

func TestMapNested(t *testing.T) {
	var m Map[*Map[bool]]
	require.NoError(t, json.Unmarshal([]byte(`{"x":{"q":true,"p":false},"y":null}`), &m))

	inner, ok := m.Get("x")
	require.True(t, ok)
	assert.Equal(t, []string{"q", "p"}, inner.Keys())
}

func TestMapRejectsNonObject(t *testing.T) {
	var m Map[int]
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
}

func TestFields(t *testing.T) {
	var keys []string
	err := Fields([]byte(`{"b":{},"a":[1]}`), func(key string, raw []byte) error {
		keys = append(keys, key+"="+string(raw))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b={}", "a=[1]"}, keys)
}
