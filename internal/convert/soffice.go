package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SofficeConverter converts documents to PDF through the LibreOffice CLI
// (soffice --headless --convert-to pdf). The converted file is written into
// outDir, which is expected to be the request scratch directory so the
// derivative is cleaned up with the original upload.
type SofficeConverter struct {
	command string
	outDir  string
	logger  *slog.Logger
}

// NewSofficeConverter creates a converter that shells out to command and
// writes converted files into outDir.
func NewSofficeConverter(command, outDir string, logger *slog.Logger) *SofficeConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SofficeConverter{
		command: command,
		outDir:  outDir,
		logger:  logger.With("component", "soffice_converter"),
	}
}

// Available reports whether the converter binary can be found on PATH.
func (c *SofficeConverter) Available() bool {
	_, err := exec.LookPath(c.command)
	return err == nil
}

// Convert runs the converter on the document at path and returns the path of
// the produced PDF. Returns ErrUnavailable when the binary is missing and
// ErrConversionFailed when the conversion runs but does not produce a PDF.
func (c *SofficeConverter) Convert(ctx context.Context, path string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: cannot create output directory: %v", ErrConversionFailed, err)
	}

	cmd := exec.CommandContext(ctx, c.command,
		"--headless", "--convert-to", "pdf", "--outdir", c.outDir, path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrConversionFailed, err, strings.TrimSpace(string(output)))
	}

	// soffice names the output after the input's basename
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	converted := filepath.Join(c.outDir, base+".pdf")
	if _, err := os.Stat(converted); err != nil {
		return "", fmt.Errorf("%w: converter reported success but %s is missing", ErrConversionFailed, converted)
	}

	c.logger.Debug("converted document to pdf",
		"source", path,
		"converted", converted)

	return converted, nil
}
