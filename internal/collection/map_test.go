package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	m := NewSyncMap[string, int]()
	m.Put("a", 1)
	assert.True(t, m.PutIfAbsent("b", 2))
	assert.False(t, m.PutIfAbsent("a", 3))
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, m.Len())

	visited := 0
	m.Range(func(key string, value int) bool {
		visited++
		m.Delete(key)
		return true
	})
	assert.Equal(t, 2, visited)
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Delete("a"))
}
