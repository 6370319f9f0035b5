package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coolbeans/restatute/internal/config"
	"github.com/coolbeans/restatute/pkg/corpus"
	"github.com/coolbeans/restatute/pkg/layout"
	"github.com/coolbeans/restatute/pkg/markup"
	"github.com/coolbeans/restatute/pkg/pdftext"
	"github.com/coolbeans/restatute/pkg/statute"
)

var version = "0.1.0"

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "restatute",
		Short: "Statute structure reconstruction",
		Long: `Restatute rebuilds the structure of legal statutes from the flat
styled text of their rendered PDFs.

It recovers:
  - The bold title band and its boundary with the body
  - Nested numbered sections up to five levels deep
  - Typed trailing annotations (history, effective dates, catchlines,
    codification notes, budget references, renumbering notices)`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ./config.yaml, $HOME/.restatute/config.yaml)")

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// loadGroups renders the input into fragment groups: pre-rendered
// pdftohtml XML is decoded directly, PDFs go through the converter.
func loadGroups(cmd *cobra.Command, cfg *config.Config, inputPath string) ([][]layout.Fragment, error) {
	if strings.EqualFold(filepath.Ext(inputPath), ".xml") {
		return pdftext.DecodeFile(inputPath)
	}
	converter := pdftext.Converter{Tool: cfg.Tool}
	return converter.Convert(cmd.Context(), inputPath)
}

func parseCmd() *cobra.Command {
	var outputPath string
	var format string
	var author string
	var source string

	cmd := &cobra.Command{
		Use:   "parse <statute.pdf|statute.xml>",
		Short: "Parse a single statute and emit its markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Format
			}
			outputFormat, err := markup.ParseFormat(format)
			if err != nil {
				return err
			}

			groups, err := loadGroups(cmd, cfg, args[0])
			if err != nil {
				return err
			}

			meta := statute.Metadata{
				Author:    author,
				Source:    source,
				CreatedAt: time.Now(),
			}
			if meta.Source == "" {
				meta.Source = args[0]
			}

			doc, err := statute.Parse(groups, meta)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			if doc.LowConfidence() {
				logger.Warn("numbering anomalies degraded parts of the body to prose",
					"input", args[0], "anomalies", len(doc.Anomalies))
			}

			rendered, err := markup.Render(doc, outputFormat)
			if err != nil {
				return err
			}

			if outputPath == "" {
				fmt.Println(string(rendered))
				return nil
			}
			if err := os.WriteFile(outputPath, rendered, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			logger.Info("statute parsed", "input", args[0], "output", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write markup to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: xml, json, or yaml")
	cmd.Flags().StringVar(&author, "author", "", "author recorded in the document metadata")
	cmd.Flags().StringVar(&source, "source", "", "source identifier recorded in the document metadata")

	return cmd
}

func batchCmd() *cobra.Command {
	var jsonReport bool
	var fetchMissing bool

	cmd := &cobra.Command{
		Use:   "batch <items.json>",
		Short: "Parse a corpus of statutes listed in a work-item file",
		Long: `Batch processes a JSON list of work items, rendering each statute
into the output directory. Items are independent: a document whose
parse hits a fatal condition is written as a failed-parse marker and
the batch continues. Completed items are tracked in a manifest so an
interrupted run can resume.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			outputFormat, err := markup.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			items, err := corpus.LoadItems(args[0])
			if err != nil {
				return err
			}

			manifestPath := filepath.Join(cfg.DataDir, "manifest.json")
			manifest, err := corpus.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			if fetchMissing {
				if err := fetchPDFs(cmd, cfg, logger, items); err != nil {
					return err
				}
			}

			runner := &corpus.Runner{
				Backend:  pdftext.Converter{Tool: cfg.Tool},
				Format:   outputFormat,
				OutDir:   cfg.OutputDir,
				Manifest: manifest,
				Logger:   logger,
			}
			report, runErr := runner.Run(cmd.Context(), items)

			if err := manifest.Save(manifestPath); err != nil {
				return err
			}
			if jsonReport {
				fmt.Println(report.JSON())
			} else {
				fmt.Print(report.Format())
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonReport, "json", false, "print the run report as JSON")
	cmd.Flags().BoolVar(&fetchMissing, "fetch", false, "download PDFs for items without a local file")

	return cmd
}

// fetchPDFs downloads source PDFs for items that have a link but no
// local file yet, filling in path and checksum.
func fetchPDFs(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, items []corpus.WorkItem) error {
	fetcher := corpus.NewFetcher(corpus.FetchConfig{
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.FetchTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	for i := range items {
		item := &items[i]
		if item.PDFPath != "" || item.SubchapterLink == "" {
			continue
		}

		localPath := filepath.Join(cfg.DataDir, "pdfs", item.SavePath(),
			filepath.Base(item.SubchapterLink))
		checksum, skipped, err := fetcher.Fetch(cmd.Context(), item.SubchapterLink, localPath)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", item.SubchapterLink, err)
		}
		item.PDFPath = localPath
		item.PDFMD5 = checksum
		logger.Info("pdf fetched", "url", item.SubchapterLink, "path", localPath, "cached", skipped)
	}
	return nil
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <drop-dir>",
		Short: "Watch a directory and parse statutes as they arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			outputFormat, err := markup.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher := &corpus.Watcher{
				Dir:      args[0],
				Debounce: cfg.WatchDebounce,
				Logger:   logger,
				Handle: func(path string) {
					if err := handleDrop(cmd, cfg, logger, outputFormat, path); err != nil {
						logger.Warn("dropped file failed", "path", path, "error", err)
					}
				},
			}

			err = watcher.Watch(ctx)
			if ctx.Err() != nil {
				logger.Info("watch stopped")
				return nil
			}
			return err
		},
	}
	return cmd
}

// handleDrop parses one dropped file, writing either the rendered
// document or a failed-parse marker next to the configured output.
func handleDrop(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, format markup.Format, path string) error {
	groups, err := loadGroups(cmd, cfg, path)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outputPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s.%s", base, format.Extension()))
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	meta := statute.Metadata{Source: path, CreatedAt: time.Now()}
	doc, parseErr := statute.Parse(groups, meta)
	if parseErr != nil {
		marker, err := markup.RenderFailed(&statute.FailedParse{Meta: meta, Err: parseErr}, format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, marker, 0644); err != nil {
			return err
		}
		logger.Warn("statute failed to parse", "input", path, "reason", parseErr.Error())
		return nil
	}

	rendered, err := markup.Render(doc, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, rendered, 0644); err != nil {
		return err
	}
	logger.Info("statute parsed", "input", path, "output", outputPath,
		"anomalies", len(doc.Anomalies))
	return nil
}
