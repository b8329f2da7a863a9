package convert

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// installFakeConverter writes a shell script that mimics soffice's
// convert-to behavior and puts it on PATH. The script writes
// <outdir>/<basename>.pdf unless told to fail.
func installFakeConverter(t *testing.T, name, script string) {
	t.Helper()
	binDir := t.TempDir()
	path := filepath.Join(binDir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

const fakeConvertScript = `#!/bin/sh
# expects: --headless --convert-to pdf --outdir <dir> <file>
outdir="$5"
input="$6"
base=$(basename "$input")
printf '%%PDF-1.4 fake\n' > "$outdir/${base%.*}.pdf"
`

func stageInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("document body"), 0o644))
	return path
}

func TestConvertUnavailable(t *testing.T) {
	converter := NewSofficeConverter("definitely-not-installed-converter", t.TempDir(), discardLogger())

	assert.False(t, converter.Available())

	_, err := converter.Convert(context.Background(), "whatever.docx")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestConvertProducesPDF(t *testing.T) {
	installFakeConverter(t, "fake-soffice", fakeConvertScript)

	scratch := t.TempDir()
	input := stageInput(t, scratch, "report.docx")

	converter := NewSofficeConverter("fake-soffice", scratch, discardLogger())
	require.True(t, converter.Available())

	converted, err := converter.Convert(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(scratch, "report.pdf"), converted)
	content, err := os.ReadFile(converted)
	require.NoError(t, err)
	assert.Contains(t, string(content), "%PDF", "converted file should be a PDF")
}

func TestConvertCommandFailure(t *testing.T) {
	installFakeConverter(t, "failing-soffice", "#!/bin/sh\necho 'conversion exploded' >&2\nexit 1\n")

	converter := NewSofficeConverter("failing-soffice", t.TempDir(), discardLogger())

	_, err := converter.Convert(context.Background(), "report.docx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConversionFailed)
	assert.Contains(t, err.Error(), "conversion exploded")
}

func TestConvertMissingOutput(t *testing.T) {
	// Succeeds but writes nothing, as soffice does for some unsupported inputs
	installFakeConverter(t, "silent-soffice", "#!/bin/sh\nexit 0\n")

	scratch := t.TempDir()
	input := stageInput(t, scratch, "report.docx")

	converter := NewSofficeConverter("silent-soffice", scratch, discardLogger())

	_, err := converter.Convert(context.Background(), input)
	assert.ErrorIs(t, err, ErrConversionFailed)
}
