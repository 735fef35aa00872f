package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testKey struct{}

type otherKey struct{}

func Test_RegisterFunc(t *testing.T) {
	var order []string
	RegisterFunc(testKey{}, func(s *[]string) { *s = append(*s, "first") })
	RegisterFunc(testKey{}, func(s *[]string) { *s = append(*s, "second") })
	RegisterFunc(testKey{}, func(n int) {})

	assert.Equal(t, 3, Count(testKey{}))

	handlers := ResolveFuncHandlers[*[]string](testKey{})
	assert.Len(t, handlers, 2)
	for _, h := range handlers {
		h(&order)
	}
	assert.Equal(t, []string{"first", "second"}, order)

	assert.Len(t, ResolveFuncHandlers[int](testKey{}), 1)
	assert.Empty(t, ResolveFuncHandlers[*[]string](otherKey{}))
}
