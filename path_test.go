package keyshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", joinPath("", "a"))
	assert.Equal(t, "a.b", joinPath("a", "b"))
	assert.Equal(t, "a.b.c", joinPath("a.b", "c"))
}

func TestIndexPath(t *testing.T) {
	assert.Equal(t, "a[0]", indexPath("a", 0))
	assert.Equal(t, "a.b[12]", indexPath("a.b", 12))
	assert.Equal(t, "[3]", indexPath("", 3))
	assert.Equal(t, "a[1][2]", indexPath(indexPath("a", 1), 2))
}
