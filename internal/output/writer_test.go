package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesDirectories(t *testing.T) {
	w := NewHTMLWriter()
	path := filepath.Join(t.TempDir(), "nested", "out", "inv-001.html")

	require.NoError(t, w.Write(path, "<html>one</html>"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>one</html>", string(content))
}

func TestWriteOverwritesExisting(t *testing.T) {
	w := NewHTMLWriter()
	path := filepath.Join(t.TempDir(), "inv-001.html")

	require.NoError(t, w.Write(path, "first"))
	require.NoError(t, w.Write(path, "second"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	w := NewHTMLWriter()
	dir := t.TempDir()

	require.NoError(t, w.Write(filepath.Join(dir, "inv-001.html"), "content"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inv-001.html", entries[0].Name())
}

func TestFileNameIsDeterministicAndSafe(t *testing.T) {
	assert.Equal(t, "inv-001.html", FileName("INV-001", ".html"))
	assert.Equal(t, "inv-2024-001.pdf", FileName("INV 2024/001", ".pdf"))
	assert.Equal(t, FileName("INV-001", ".html"), FileName("INV-001", ".html"))
}
