package selection

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubIgnorer map[string]bool

func (s stubIgnorer) Match(path string, isDir bool) bool { return s[path] }

func TestRules_Excluded(t *testing.T) {
	assert := assert.New(t)

	root := filepath.FromSlash("/work/project")
	rules, err := NewRules(root, []string{"*.tmp", "", "=build"}, stubIgnorer{
		filepath.Join(root, "vendor"): true,
	})
	assert.NoError(err)

	assert.True(rules.Excluded(filepath.Join(root, "a", "b.tmp"), false))
	assert.True(rules.Excluded(filepath.Join(root, "build"), true))
	assert.True(rules.Excluded(filepath.Join(root, "vendor"), true))
	assert.False(rules.Excluded(filepath.Join(root, "src", "main.go"), false))
	assert.False(rules.Excluded(root, true), "the root itself is never excluded")
	assert.False(rules.Excluded(filepath.FromSlash("/elsewhere/x.tmp"), false))
}

func TestRules_Empty(t *testing.T) {
	var nilRules *Rules
	assert.True(t, nilRules.Empty())
	assert.False(t, nilRules.Excluded("/x", false))

	rules, err := NewRules("/r", nil, nil)
	assert.NoError(t, err)
	assert.True(t, rules.Empty())
}

func TestNewRules_BadPattern(t *testing.T) {
	_, err := NewRules("/r", []string{"/[oops"}, nil)
	assert.ErrorContains(t, err, "/[oops")
}

func TestRelPath(t *testing.T) {
	root := filepath.FromSlash("/r")
	rel, ok := RelPath(root, filepath.FromSlash("/r/a/b.txt"))
	assert.True(t, ok)
	assert.Equal(t, "a/b.txt", rel)

	_, ok = RelPath(root, root)
	assert.False(t, ok)
	_, ok = RelPath(root, filepath.FromSlash("/other"))
	assert.False(t, ok)
}

func TestRules_FuzzyStaysInsideSegment(t *testing.T) {
	assert := assert.New(t)

	root := filepath.FromSlash("/r")
	rules, err := NewRules(root, []string{"node"}, nil)
	assert.NoError(err)

	assert.True(rules.Excluded(filepath.Join(root, "node_modules"), true))
	assert.True(rules.Excluded(filepath.Join(root, "web", "node_modules", "x.js"), false))
	assert.False(rules.Excluded(filepath.Join(root, "src", "nested", "orders.txt"), false))
	assert.False(rules.Excluded(filepath.Join(root, "notes", "design.md"), false))
}
