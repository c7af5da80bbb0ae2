package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hayeah/foldermap"
	"github.com/hayeah/foldermap/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCLISession(t *testing.T, flags RuleFlags) *foldermap.Session {
	t.Helper()
	cfg := foldermap.DefaultConfig()
	flags.apply(&cfg)
	session, err := foldermap.BuildSession(cfg, zap.NewNop())
	require.NoError(t, err)
	return session
}

var projectFiles = map[string]string{
	"docs/a.txt": "A",
	"docs/b.txt": "B",
	"readme.md":  "# readme",
	"app.log":    "",
}

func TestTreeRunner(t *testing.T) {
	root := createTestDirectory(t, projectFiles)
	var out bytes.Buffer

	r := NewTreeRunner(TreeCmd{Root: root}, newCLISession(t, RuleFlags{Exclude: []string{"*.log"}}), &out)
	require.NoError(t, r.Run())
	assert.Equal(t, "├── 📁 docs\n│   ├── 📄 a.txt\n│   └── 📄 b.txt\n└── 📄 readme.md\n", out.String())
}

func TestTreeRunner_Copy(t *testing.T) {
	root := createTestDirectory(t, projectFiles)
	var out bytes.Buffer
	var copied string

	r := NewTreeRunner(TreeCmd{Root: root, Copy: true}, newCLISession(t, RuleFlags{}), &out)
	r.copy = func(s string) error { copied = s; return nil }
	require.NoError(t, r.Run())

	assert.Empty(t, out.String())
	assert.True(t, strings.HasPrefix(copied, "├── 📁 docs\n"), copied)
	assert.Contains(t, copied, "├── 📄 app.log\n")
}

func TestTreeRunner_Stats(t *testing.T) {
	root := createTestDirectory(t, projectFiles)
	var out bytes.Buffer

	r := NewTreeRunner(TreeCmd{Root: root, Stats: true}, newCLISession(t, RuleFlags{}), &out)
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "TOTAL")
	assert.Contains(t, out.String(), "Summary: 1 directories, 4 files, 0 errors, 5 lines")
}

func TestTreeRunner_StatsJSON(t *testing.T) {
	root := createTestDirectory(t, projectFiles)
	var out bytes.Buffer

	r := NewTreeRunner(TreeCmd{Root: root, Copy: true, JSON: true}, newCLISession(t, RuleFlags{}), &out)
	r.copy = func(string) error { return nil }
	require.NoError(t, r.Run())

	var blocks map[string]metrics.MetricItem
	require.NoError(t, json.Unmarshal(out.Bytes(), &blocks))
	assert.ElementsMatch(t, []string{"docs", "app.log", "readme.md"}, keysOf(blocks))
	assert.Equal(t, 3, blocks["docs"].Lines)
}

func keysOf(m map[string]metrics.MetricItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestTreeRunner_MissingRoot(t *testing.T) {
	var out bytes.Buffer
	r := NewTreeRunner(TreeCmd{Root: filepath.Join(t.TempDir(), "missing")}, newCLISession(t, RuleFlags{}), &out)
	assert.ErrorContains(t, r.Run(), "error accessing")
}

func TestExportRunner(t *testing.T) {
	root := createTestDirectory(t, projectFiles)
	var out bytes.Buffer
	var opened string

	r := NewExportRunner(ExportCmd{Root: root, Open: true}, newCLISession(t, RuleFlags{Exclude: []string{"docs"}}), &out)
	r.open = func(p string) error { opened = p; return nil }
	require.NoError(t, r.Run())

	dest := foldermap.DefaultDestination(root)
	assert.Equal(t, "Archivo generado: "+dest+"\n", out.String())
	assert.Equal(t, dest, opened)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n\n├── 📄 app.log\n└── 📄 readme.md"), string(data))
}

func TestExportRunner_Output(t *testing.T) {
	root := createTestDirectory(t, projectFiles)
	dest := filepath.Join(t.TempDir(), "report.txt")
	var out bytes.Buffer

	r := NewExportRunner(ExportCmd{Root: root, Output: dest}, newCLISession(t, RuleFlags{}), &out)
	require.NoError(t, r.Run())
	_, err := os.Stat(dest)
	require.NoError(t, err)

	r = NewExportRunner(ExportCmd{Root: root, Output: filepath.Join(root, "nope", "r.txt")}, newCLISession(t, RuleFlags{}), &out)
	var exportErr *foldermap.ExportError
	assert.ErrorAs(t, r.Run(), &exportErr)
}

func TestPrintBlockBreakdown(t *testing.T) {
	c := metrics.NewCollector(&metrics.SimpleCounter{}, 2)
	c.Add("big", strings.Repeat("x", 40))
	c.Add("small", strings.Repeat("x", 20))
	c.Wait()

	var out bytes.Buffer
	PrintBlockBreakdown(&out, c, metrics.Summary{Dirs: 1, Files: 1}, 40, 10, '#')

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "##########   66.7%      10  big", lines[0])
	assert.Equal(t, "#####        33.3%       5  small", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], strings.Repeat("─", 10)+"  100.0%      15  TOTAL"))
	assert.Equal(t, "Summary: 1 directories, 1 files, 0 errors, 0 lines, 0 tokens", lines[len(lines)-1])
}

func TestPrintBlockBreakdown_Empty(t *testing.T) {
	c := metrics.NewCollector(&metrics.SimpleCounter{}, 1)
	c.Wait()

	var out bytes.Buffer
	PrintBlockBreakdown(&out, c, metrics.Summary{}, 80, 0, '#')
	assert.True(t, strings.HasPrefix(out.String(), "No tokens recorded\n"))
}

func TestTrimPrefix(t *testing.T) {
	assert.Equal(t, "short", trimPrefix("short", 10))
	assert.Equal(t, "…/b/c.txt", trimPrefix("a/long/b/c.txt", 9))
}

func TestRuleFlags_Apply(t *testing.T) {
	cfg := foldermap.DefaultConfig()
	cfg.Tree.Exclude = []string{"node_modules"}
	RuleFlags{Exclude: []string{"*.log"}, ExcludeFrom: []string{".foldermapignore"}, Gitignore: true}.apply(&cfg)
	assert.Equal(t, []string{"node_modules", "*.log"}, cfg.Tree.Exclude)
	assert.Equal(t, []string{".foldermapignore"}, cfg.Tree.ExcludeFrom)
	assert.True(t, cfg.Tree.Gitignore)
}
