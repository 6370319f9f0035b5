package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/restatute/pkg/layout"
	"github.com/coolbeans/restatute/pkg/markup"
)

// fakeBackend serves pre-built fragment groups keyed by pdf path.
type fakeBackend struct {
	groups map[string][][]layout.Fragment
}

func (backend *fakeBackend) Convert(_ context.Context, pdfPath string) ([][]layout.Fragment, error) {
	groups, ok := backend.groups[pdfPath]
	if !ok {
		return nil, fmt.Errorf("no rendering for %s", pdfPath)
	}
	return groups, nil
}

func runnerLine(text string, bold bool, size, left float64) []layout.Fragment {
	runes := []rune(text)
	lefts := make([]float64, 0, len(runes))
	for i := range runes {
		lefts = append(lefts, left+float64(i)*10)
	}
	return []layout.Fragment{{
		Text:      text,
		Style:     layout.Style{Bold: bold, Size: size},
		Left:      left,
		CharLefts: lefts,
	}}
}

func parsableGroups() [][]layout.Fragment {
	return [][]layout.Fragment{
		runnerLine("§1.010 Definitions.", true, 12, 100),
		runnerLine("(1) As used in this chapter:", false, 12, 100),
		runnerLine("(2) Nothing herein limits an existing remedy.", false, 12, 100),
		runnerLine("History: 1990 c. 1, § 1.", true, 8, 100),
	}
}

// unparsableGroups is all bold front-matter, which fails with a
// missing body.
func unparsableGroups() [][]layout.Fragment {
	return [][]layout.Fragment{
		runnerLine("§1.020 Repealed.", true, 12, 100),
		runnerLine("History: 1980 c. 2, § 1.", true, 8, 100),
	}
}

func TestRunnerProcessesBatchWithIsolatedFailure(t *testing.T) {
	outDir := t.TempDir()
	runner := &Runner{
		Backend: &fakeBackend{groups: map[string][][]layout.Fragment{
			"good.pdf": parsableGroups(),
			"bad.pdf":  unparsableGroups(),
		}},
		Format:   markup.FormatXML,
		OutDir:   outDir,
		Manifest: NewManifest(),
	}

	items := []WorkItem{
		{TitleName: "TITLE I", ChapterName: "Chapter 1", SubchapterIndex: ".010", PDFPath: "good.pdf"},
		{TitleName: "TITLE I", ChapterName: "Chapter 1", SubchapterIndex: ".020", PDFPath: "bad.pdf"},
		{TitleName: "TITLE I", ChapterName: "Chapter 1", SubchapterIndex: ".030", PDFPath: "good.pdf"},
	}

	report, err := runner.Run(context.Background(), items)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Attempted != 3 || report.Parsed != 2 || report.Failed != 1 {
		t.Fatalf("report = attempted %d, parsed %d, failed %d",
			report.Attempted, report.Parsed, report.Failed)
	}

	// The good document renders as a statute.
	rendered, err := os.ReadFile(filepath.Join(outDir, "TITLE_I", "Chapter_1", "010.xml"))
	if err != nil {
		t.Fatalf("missing rendered output: %v", err)
	}
	if !strings.Contains(string(rendered), "<statute>") {
		t.Errorf("unexpected rendering:\n%s", rendered)
	}

	// The failed one still produces a marker and the batch continued.
	marker, err := os.ReadFile(filepath.Join(outDir, "TITLE_I", "Chapter_1", "020.xml"))
	if err != nil {
		t.Fatalf("missing failed-parse marker: %v", err)
	}
	if !strings.Contains(string(marker), "<failed-parse>") {
		t.Errorf("unexpected marker:\n%s", marker)
	}

	if !runner.Manifest.IsDone(".010") {
		t.Error("parsed item not recorded in manifest")
	}
	if runner.Manifest.IsDone(".020") {
		t.Error("failed item should remain retryable")
	}
}

func TestRunnerSkipsCompletedItems(t *testing.T) {
	manifest := NewManifest()
	manifest.Record(&ItemRecord{Identifier: ".010", Status: StatusParsed})

	runner := &Runner{
		Backend:  &fakeBackend{},
		Format:   markup.FormatJSON,
		OutDir:   t.TempDir(),
		Manifest: manifest,
	}

	report, err := runner.Run(context.Background(), []WorkItem{
		{SubchapterIndex: ".010", PDFPath: "good.pdf"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Attempted != 0 || report.Skipped != 1 {
		t.Errorf("report = attempted %d, skipped %d", report.Attempted, report.Skipped)
	}
}

func TestRunnerMarksLowConfidence(t *testing.T) {
	groups := parsableGroups()
	// A deep token with no open context degrades to prose.
	groups = append(groups[:3], append([][]layout.Fragment{
		runnerLine("a. stray deep token", false, 12, 100),
	}, groups[3:]...)...)

	runner := &Runner{
		Backend:  &fakeBackend{groups: map[string][][]layout.Fragment{"odd.pdf": groups}},
		Format:   markup.FormatJSON,
		OutDir:   t.TempDir(),
		Manifest: NewManifest(),
	}

	report, err := runner.Run(context.Background(), []WorkItem{
		{SubchapterIndex: ".040", PDFPath: "odd.pdf"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.LowConfidence != 1 {
		t.Fatalf("report = %+v", report)
	}
	if record := runner.Manifest.Items[".040"]; record == nil || record.Anomalies != 1 {
		t.Errorf("manifest record = %+v", record)
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{
		Backend:  &fakeBackend{},
		Format:   markup.FormatJSON,
		OutDir:   t.TempDir(),
		Manifest: NewManifest(),
	}
	_, err := runner.Run(ctx, []WorkItem{{SubchapterIndex: ".010"}})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
