package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUniqueAndSorted(t *testing.T) {
	t.Parallel()

	prev := ""
	for i := 0; i < 1000; i++ {
		cur := New()
		assert.Len(t, cur, 26)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}
