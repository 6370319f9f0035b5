package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/coolbeans/restatute/pkg/layout"
	"github.com/coolbeans/restatute/pkg/markup"
	"github.com/coolbeans/restatute/pkg/statute"
)

// Backend turns one source PDF into the fragment groups the parser
// consumes.
type Backend interface {
	Convert(ctx context.Context, pdfPath string) ([][]layout.Fragment, error)
}

// Runner processes work items one at a time. Items are independent: a
// fatal parse condition marks that item failed and the batch continues.
type Runner struct {
	Backend  Backend
	Format   markup.Format
	OutDir   string
	Manifest *Manifest
	Logger   *slog.Logger
}

// Run processes the items in order, recording each outcome in the
// manifest and the returned report. It stops early only when the
// context is cancelled.
func (runner *Runner) Run(ctx context.Context, items []WorkItem) (*Report, error) {
	logger := runner.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := &Report{RunID: runner.Manifest.RunID}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		identifier := item.Identifier()
		if runner.Manifest.IsDone(identifier) {
			report.add(ReportEntry{Identifier: identifier, Status: StatusSkipped})
			continue
		}
		report.Attempted++

		outputPath, entry := runner.processItem(ctx, item)
		logger.Info("item processed",
			"identifier", identifier,
			"status", string(entry.Status),
			"output", outputPath,
		)
		if entry.Error != "" {
			logger.Warn("item failed", "identifier", identifier, "reason", entry.Error)
		}

		runner.Manifest.Record(&ItemRecord{
			Identifier: identifier,
			Status:     entry.Status,
			OutputPath: outputPath,
			Reason:     entry.Error,
			Anomalies:  entry.Anomalies,
		})
		report.add(entry)
	}
	return report, nil
}

// processItem runs the pipeline for one item and writes either the
// rendered document or a failed-parse marker.
func (runner *Runner) processItem(ctx context.Context, item WorkItem) (string, ReportEntry) {
	identifier := item.Identifier()
	entry := ReportEntry{Identifier: identifier}
	meta := statute.Metadata{Source: item.SubchapterLink}

	outputPath := runner.outputPath(item)

	groups, err := runner.Backend.Convert(ctx, item.PDFPath)
	if err == nil {
		var doc *statute.Document
		doc, err = statute.Parse(groups, meta)
		if err == nil {
			var rendered []byte
			rendered, err = markup.Render(doc, runner.Format)
			if err == nil {
				if err = writeOutput(outputPath, rendered); err == nil {
					entry.Status = StatusParsed
					entry.Anomalies = len(doc.Anomalies)
					if doc.LowConfidence() {
						entry.Status = StatusLowConfidence
					}
					entry.OutputPath = outputPath
					return outputPath, entry
				}
			}
		}
	}

	entry.Status = StatusFailed
	entry.Error = err.Error()

	marker, renderErr := markup.RenderFailed(&statute.FailedParse{Meta: meta, Err: err}, runner.Format)
	if renderErr == nil {
		if writeErr := writeOutput(outputPath, marker); writeErr == nil {
			entry.OutputPath = outputPath
			return outputPath, entry
		}
	}
	return "", entry
}

// outputPath places the item's rendering under its title/chapter
// directory, named by its subchapter index.
func (runner *Runner) outputPath(item WorkItem) string {
	name := strings.TrimPrefix(item.Identifier(), ".")
	name = strings.ReplaceAll(name, "/", "_")
	return filepath.Join(runner.OutDir, item.SavePath(),
		fmt.Sprintf("%s.%s", name, runner.Format.Extension()))
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
