package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/coolbeans/restatute/pkg/layout"
)

// DefaultTool is the external converter invoked to render a PDF to the
// XML this package decodes.
const DefaultTool = "pdftohtml"

// Converter shells out to pdftohtml for PDF rendering. The zero value
// uses DefaultTool from PATH.
type Converter struct {
	// Tool overrides the pdftohtml binary path.
	Tool string
}

// Convert renders one PDF and returns its visual-line fragment groups.
func (c Converter) Convert(ctx context.Context, pdfPath string) ([][]layout.Fragment, error) {
	tool := c.Tool
	if tool == "" {
		tool = DefaultTool
	}

	cmd := exec.CommandContext(ctx, tool, "-xml", "-stdout", "-i", "-q", pdfPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s on %s: %w (%s)", tool, pdfPath, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return Decode(&stdout)
}
