package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Basic(t *testing.T) {
	assert := assert.New(t)

	set := NewSet[string]()
	assert.Equal(0, set.Len(), "New set should be empty")

	set.Add("apple")
	set.Add("banana")
	set.Add("apple") // duplicate

	assert.Equal(2, set.Len(), "Set should have 2 elements")
	assert.True(set.Contains("apple"))
	assert.True(set.Contains("banana"))
	assert.False(set.Contains("orange"))

	set.Remove("apple")
	assert.Equal(1, set.Len(), "Set should have 1 element after removal")
	assert.False(set.Contains("apple"))

	set.Clear()
	assert.Equal(0, set.Len(), "Set should be empty after clearing")
}
