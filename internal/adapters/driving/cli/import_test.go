package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestImportCmd_ImportsTextFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "karar.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("hüküm ", 500)), 0o600))

	out, err := execute(t, "import", path,
		"--title", "Karar", "--area", "ceza", "--type", "case-law",
		"--court", "Yargıtay", "--year", "2020")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported:")
	assert.Contains(t, out, "Chunks:   2")
	assert.Contains(t, out, "Text:     3000 characters")
}

func TestImportCmd_UnsupportedFormat(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "tablo.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	out, err := execute(t, "import", path, "--title", "T", "--area", "civil", "--type", "statute")
	require.Error(t, err)
	assert.Contains(t, out, "Import failed at stage validated")
}

func TestImportCmd_ExtractionFailureShowsCompensation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "kisa.txt")
	require.NoError(t, os.WriteFile(path, []byte("too short"), 0o600))

	out, err := execute(t, "import", path, "--title", "T", "--area", "civil", "--type", "statute")
	require.Error(t, err)
	assert.Contains(t, out, "Compensation: deleted_blob:documents/")
}

func TestImportCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "import", filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestRetryEmbedCmd_AlreadyEmbedded(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "retry-embed", "doc-1")
	assert.Error(t, err)
}

func TestRetryEmbedCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "retry-embed", "missing")
	require.Error(t, err)
	assert.Contains(t, out, "not_found")
}
