package corpus

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRomanToInt(t *testing.T) {
	cases := map[string]int{
		"I":    1,
		"IV":   4,
		"IX":   9,
		"XIV":  14,
		"XL":   40,
		"XCIX": 99,
		"MCM":  1900,
	}
	for roman, want := range cases {
		if got := RomanToInt(roman); got != want {
			t.Errorf("RomanToInt(%q) = %d, want %d", roman, got, want)
		}
	}
}

func TestTitleIndexOf(t *testing.T) {
	index, err := TitleIndexOf("TITLE IX - COUNTIES, CITIES, AND OTHER LOCAL UNITS")
	if err != nil {
		t.Fatalf("TitleIndexOf failed: %v", err)
	}
	if index != 9 {
		t.Errorf("index = %d, want 9", index)
	}

	if _, err := TitleIndexOf("no roman numeral here"); err == nil {
		t.Error("expected error for a title without an index")
	}
}

func TestWorkItemSavePath(t *testing.T) {
	item := WorkItem{
		TitleName:   "TITLE I - SOVEREIGNTY AND JURISDICTION",
		ChapterName: "Chapter 1 Boundaries",
	}
	want := filepath.Join("TITLE_I_-_SOVEREIGNTY_AND_JURISDICTION", "Chapter_1_Boundaries")
	if got := item.SavePath(); got != want {
		t.Errorf("SavePath = %q, want %q", got, want)
	}
}

func TestWorkItemIdentifier(t *testing.T) {
	item := WorkItem{SubchapterIndex: ".010", SubchapterLink: "http://example.com/1-010.pdf"}
	if item.Identifier() != ".010" {
		t.Errorf("identifier = %q", item.Identifier())
	}
	item.SubchapterIndex = ""
	if item.Identifier() != "http://example.com/1-010.pdf" {
		t.Errorf("identifier fallback = %q", item.Identifier())
	}
}

func TestManifestRoundTrip(t *testing.T) {
	manifestPath := filepath.Join(t.TempDir(), "state", "manifest.json")

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if manifest.RunID == "" {
		t.Fatal("fresh manifest has no run ID")
	}

	manifest.Record(&ItemRecord{Identifier: ".010", Status: StatusParsed, OutputPath: "out/010.xml"})
	manifest.Record(&ItemRecord{Identifier: ".020", Status: StatusFailed, Reason: "no body"})
	if err := manifest.Save(manifestPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.RunID != manifest.RunID {
		t.Errorf("run ID changed across reload: %q != %q", reloaded.RunID, manifest.RunID)
	}
	if !reloaded.IsDone(".010") {
		t.Error("parsed item should be done")
	}
	if reloaded.IsDone(".020") {
		t.Error("failed item should be retried")
	}
	if reloaded.IsDone(".030") {
		t.Error("unknown item should not be done")
	}
	if reloaded.CountByStatus(StatusParsed) != 1 || reloaded.CountByStatus(StatusFailed) != 1 {
		t.Errorf("counts = %d parsed, %d failed",
			reloaded.CountByStatus(StatusParsed), reloaded.CountByStatus(StatusFailed))
	}
}

func TestReportFormat(t *testing.T) {
	report := &Report{RunID: "run-1"}
	report.Attempted = 2
	report.add(ReportEntry{Identifier: ".010", Status: StatusParsed})
	report.add(ReportEntry{Identifier: ".020", Status: StatusLowConfidence, Anomalies: 3})
	report.add(ReportEntry{Identifier: ".030", Status: StatusFailed, Error: "document is missing its body"})
	report.add(ReportEntry{Identifier: ".040", Status: StatusSkipped})

	formatted := report.Format()
	for _, want := range []string{
		"Run: run-1",
		"Attempted: 2 | Parsed: 1 | Low-confidence: 1 | Failed: 1 | Skipped: 1",
		"[OK]",
		"[LOW]",
		"(3 anomalies)",
		"[FAIL]",
		"error: document is missing its body",
		"[SKIP]",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("report missing %q:\n%s", want, formatted)
		}
	}

	if !strings.Contains(report.JSON(), `"run_id": "run-1"`) {
		t.Errorf("json report missing run id:\n%s", report.JSON())
	}
}
