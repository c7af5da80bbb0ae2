package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hayeah/foldermap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTestDirectory(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for relPath, content := range files {
		path := filepath.Join(tempDir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return tempDir
}

func newTestModel(t *testing.T) (model, string) {
	t.Helper()
	root := createTestDirectory(t, map[string]string{
		"docs/a.txt": "A",
		"docs/b.txt": "B",
		"readme.md":  "# readme",
	})
	session, err := foldermap.BuildSession(foldermap.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	m := newModel(session)
	m.selectRoot(root)
	return m, root
}

func key(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, key(k))
	}
	return m
}

func visibleNames(m model) []string {
	var names []string
	for _, r := range m.visible {
		names = append(names, strings.Repeat("  ", r.depth)+r.node.Name)
	}
	return names
}

func TestModel_ExpandAndCollapse(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, []string{"docs", "readme.md"}, visibleNames(m))

	m = press(t, m, "right")
	assert.Equal(t, []string{"docs", "  a.txt", "  b.txt", "readme.md"}, visibleNames(m))

	m = press(t, m, "down", "down", "left")
	assert.Equal(t, 0, m.cursor, "left on a file moves to its folder")

	m = press(t, m, "left")
	assert.Equal(t, []string{"docs", "readme.md"}, visibleNames(m))

	m = press(t, m, "E")
	assert.Len(t, m.visible, 4, "E reopens every loaded folder")
	m = press(t, m, "C")
	assert.Len(t, m.visible, 2)
}

func TestModel_ToggleUpdatesPreview(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, key(" "))
	require.NotNil(t, cmd)
	assert.False(t, m.visible[0].node.Included)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "└── 📄 readme.md", m.previewText)
	assert.Equal(t, 1, m.summary.Files)
}

func TestModel_StalePreviewDropped(t *testing.T) {
	m, _ := newTestModel(t)

	m, first := update(t, m, key(" "))
	m, second := update(t, m, key(" "))

	m, _ = update(t, m, second())
	m, _ = update(t, m, first())
	assert.Equal(t, "├── 📁 docs\n│   ├── 📄 a.txt\n│   └── 📄 b.txt\n└── 📄 readme.md", m.previewText)
}

func TestModel_SelectAndDeselectAll(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "right")

	m, cmd := update(t, m, key("ctrl+q"))
	for _, r := range m.visible {
		assert.False(t, r.node.Included, r.node.Name)
	}
	m, _ = update(t, m, cmd())
	assert.Equal(t, "", m.previewText)

	m = press(t, m, "ctrl+a")
	for _, r := range m.visible {
		assert.True(t, r.node.Included, r.node.Name)
	}
}

func TestModel_ExcludeSubtree(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "right", "x")
	for _, r := range m.visible[:3] {
		assert.False(t, r.node.Included, r.node.Name)
	}
	m = press(t, m, "a")
	assert.True(t, m.visible[1].node.Included)
}

func TestModel_Filter(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "/", "r", "e", "a", "d")
	assert.Equal(t, []string{"readme.md"}, visibleNames(m))

	m = press(t, m, "esc")
	assert.Equal(t, inputNone, m.mode)
	assert.Equal(t, []string{"docs", "readme.md"}, visibleNames(m))
}

func TestModel_StatusResets(t *testing.T) {
	m, _ := newTestModel(t)
	var copied string
	m.copy = func(s string) error { copied = s; return nil }
	m.previewText = "└── 📄 readme.md"

	m = press(t, m, "c")
	assert.Equal(t, "└── 📄 readme.md", copied)
	assert.Equal(t, "Vista previa copiada al portapapeles", m.status)
	firstGen := m.statusGen

	m.copy = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, "c")
	assert.Equal(t, "Error: no clipboard", m.status)

	m, _ = update(t, m, statusResetMsg{gen: firstGen})
	assert.Equal(t, "Error: no clipboard", m.status, "an older timer does not clear a newer status")

	m, _ = update(t, m, statusResetMsg{gen: m.statusGen})
	assert.Equal(t, statusReady, m.status)
}

func TestModel_Export(t *testing.T) {
	m, root := newTestModel(t)

	m, _ = update(t, m, m.exportCmd()())
	dest := foldermap.DefaultDestination(root)
	assert.Equal(t, dest, m.lastExport)
	assert.Equal(t, "Archivo generado: "+dest, m.status)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ESTRUCTURA DE CARPETAS\n"))
	assert.True(t, strings.HasSuffix(string(data), "└── 📄 readme.md"))

	m.exporting = true
	m = press(t, m, "g")
	assert.Equal(t, "Ya hay una exportación en curso", m.status)

	var opened string
	m.open = func(p string) error { opened = p; return nil }
	m, cmd := update(t, m, key("O"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, dest, opened)
}

func TestModel_ExportStatusSurvivesOlderTimer(t *testing.T) {
	m, root := newTestModel(t)
	m.copy = func(string) error { return nil }
	m = press(t, m, "c")
	copyGen := m.statusGen

	m, cmd := update(t, m, key("g"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Generando archivo...", m.status)

	m, _ = update(t, m, statusResetMsg{gen: copyGen})
	assert.Equal(t, "Generando archivo...", m.status)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if done, ok := c().(exportDoneMsg); ok {
			m, _ = update(t, m, done)
		}
	}
	assert.Equal(t, "Archivo generado: "+foldermap.DefaultDestination(root), m.status)
}

func TestModel_OpenWithoutExport(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "O")
	assert.Equal(t, "Todavía no se ha generado ningún archivo", m.status)
}

func TestModel_ChangeRoot(t *testing.T) {
	m, _ := newTestModel(t)
	other := createTestDirectory(t, map[string]string{"only.txt": ""})

	m = press(t, m, "o")
	assert.Equal(t, inputRoot, m.mode)
	m.rootInput.SetValue(other)
	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)

	assert.Equal(t, other, m.session.Root())
	assert.Equal(t, []string{"only.txt"}, visibleNames(m))
	assert.Equal(t, "Carpeta seleccionada: "+other, m.status)
}

func TestModel_UnreadableRoot(t *testing.T) {
	m, root := newTestModel(t)
	m.selectRoot(filepath.Join(root, "missing"))
	assert.True(t, strings.HasPrefix(m.status, "Error: "), m.status)
	assert.Empty(t, m.visible)

	m = press(t, m, "g")
	assert.Equal(t, "¡Seleccione una carpeta primero!", m.status)
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, "Initializing...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Estado: Listo")
	assert.Contains(t, view, "readme.md")

	m = press(t, m, "?")
	assert.Contains(t, m.View(), "generate report")
	m = press(t, m, "down")
	assert.False(t, m.showHelp)
	assert.Equal(t, 0, m.cursor, "the key that closes help is not applied")
}
