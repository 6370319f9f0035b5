package endmatter

import (
	"errors"
	"testing"

	"github.com/coolbeans/restatute/pkg/layout"
)

func annotationLine(text string, bold bool) layout.StyledLine {
	return layout.StyledLine{
		Text:  text,
		Style: layout.Style{Bold: bold, Size: 8},
	}
}

func TestClassifyHeaderKinds(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"History: Created 1990 Ky. Acts ch. 476, sec. 1.", KindHistory},
		{"History and amendments: 1962 c 210, sec. 5.", KindHistory},
		{"History (archived as of 1984): 1974 c 386.", KindArchivedHistory},
		{"History for former KRS 13.010: 1952 c 84.", KindFormerHistory},
		{"Alternate history: 1986 c 331.", KindAlternateHistory},
		{"Effective: July 15, 1998", KindEffective},
		{"Effective date: June 17, 1954", KindEffective},
		{"(Effective July 15, 2020)", KindEffective},
		{"Catchline at repeal: Local option elections.", KindCatchlineAtRepeal},
		{"Catchline at repeal (as enhanced): Local option elections.", KindCatchlineArEnhanced},
		{"Catchline at expiration: Temporary provisions.", KindCatchlineAtExpiration},
		{"Catchline at omission: Omitted matter.", KindCatchlineAtOmission},
		{"Legislative Research Commission Note (7/13/90). See 1990 Ky. Acts ch. 476.", KindLrcNote},
		{"Formerly codified as KRS 13.010.", KindFormerCodification},
		{"Codification: 1942 c 208, sec. 1.", KindFormerCodification},
		{"2020-2022 Budget Reference. See State/Executive Branch Budget.", KindBudgetRef},
		{"Note: This section was amended by two 1998 Acts.", KindNote},
		{"Renumbered as KRS 243.025, effective June 24, 2003.", KindRenumbered},
	}

	for _, testCase := range cases {
		classified, err := ClassifyLine(annotationLine(testCase.text, true))
		if err != nil {
			t.Errorf("%q: unexpected error: %v", testCase.text, err)
			continue
		}
		if classified.IsContinuation() {
			t.Errorf("%q: classified as continuation, want header", testCase.text)
			continue
		}
		if classified.Entry.Kind != testCase.want {
			t.Errorf("%q: got kind %q, want %q", testCase.text, classified.Entry.Kind, testCase.want)
		}
	}
}

func TestClassifyCapturedFields(t *testing.T) {
	archived, _ := ClassifyLine(annotationLine("History (archived as of 1984): 1974 c 386.", true))
	if archived.Entry.AsOfYear != 1984 {
		t.Errorf("expected AsOfYear 1984, got %d", archived.Entry.AsOfYear)
	}

	former, _ := ClassifyLine(annotationLine("History for former KRS 13.010: 1952 c 84.", true))
	if former.Entry.FormerName != "KRS 13.010" {
		t.Errorf("expected FormerName %q, got %q", "KRS 13.010", former.Entry.FormerName)
	}

	renumbered, _ := ClassifyLine(annotationLine("Renumbered as KRS 243.025, effective June 24, 2003.", true))
	if renumbered.Entry.NewSectionNumber != "243.025" {
		t.Errorf("expected NewSectionNumber %q, got %q", "243.025", renumbered.Entry.NewSectionNumber)
	}

	budget, _ := ClassifyLine(annotationLine("2020-2022 Budget Reference. See notes.", true))
	if budget.Entry.StartYear != 2020 || budget.Entry.EndYear != 2022 {
		t.Errorf("expected biennium 2020-2022, got %d-%d", budget.Entry.StartYear, budget.Entry.EndYear)
	}
}

func TestClassifyRenumberedWinsOverHeaderShape(t *testing.T) {
	// A renumbering notice is classified immediately, even when embedded
	// in otherwise header-shaped text.
	classified, err := ClassifyLine(annotationLine(
		"This section was renumbered as KRS 100.3681 by the reviser of statutes.", true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classified.Entry.Kind != KindRenumbered {
		t.Errorf("expected renumbered kind, got %q", classified.Entry.Kind)
	}
	if classified.Entry.NewSectionNumber != "100.3681" {
		t.Errorf("expected new section 100.3681, got %q", classified.Entry.NewSectionNumber)
	}
}

func TestClassifyIneffectiveReclassifiesEmbedded(t *testing.T) {
	classified, err := ClassifyLine(annotationLine(
		"(Ineffective) History: 2006 c 252, sec. 23.", true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := classified.Entry
	if entry.Kind != KindHistory {
		t.Errorf("expected embedded history kind, got %q", entry.Kind)
	}
	if len(entry.Markers) != 1 || entry.Markers[0] != MarkerEffectiveBlank {
		t.Errorf("expected effective-blank marker, got %v", entry.Markers)
	}

	// Embedded text matching nothing degrades to unclassified, still
	// carrying the marker.
	classified, err = ClassifyLine(annotationLine("(Ineffective) some stray remark", true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classified.Entry.Kind != KindUnclassified {
		t.Errorf("expected unclassified kind, got %q", classified.Entry.Kind)
	}
}

func TestClassifyUnrecognizedHeaderFails(t *testing.T) {
	_, err := ClassifyLine(annotationLine("Mystery annotation: who knows.", true))
	if err == nil {
		t.Fatal("expected UnrecognizedHeaderError")
	}
	var headerErr *UnrecognizedHeaderError
	if !errors.As(err, &headerErr) {
		t.Fatalf("expected UnrecognizedHeaderError, got %T", err)
	}
	if headerErr.Text != "Mystery annotation: who knows." {
		t.Errorf("error should carry the line text, got %q", headerErr.Text)
	}
}

func TestClassifyPlainLineIsContinuation(t *testing.T) {
	classified, err := ClassifyLine(annotationLine("History: looks like a header but is plain.", false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !classified.IsContinuation() {
		t.Error("plain line must classify as continuation regardless of text")
	}
}

func TestGatherHeaderWithContinuations(t *testing.T) {
	lines := []layout.StyledLine{
		annotationLine("History: 1990 c. 1, § 1, eff. 7-13-90.", true),
		annotationLine(" continuing clause one,", false),
		annotationLine(" continuing clause two.", false),
	}

	info, err := GatherLines(lines)
	if err != nil {
		t.Fatalf("GatherLines failed: %v", err)
	}

	entries := info[KindHistory]
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	want := "1990 c. 1, § 1, eff. 7-13-90. continuing clause one, continuing clause two."
	if entries[0].Text != want {
		t.Errorf("got %q, want %q", entries[0].Text, want)
	}
}

func TestGatherAssociativeContinuationMerge(t *testing.T) {
	header := annotationLine("Note: part one.", true)
	first := annotationLine("part two.", false)
	second := annotationLine("part three.", false)

	all, err := ClassifyAll([]layout.StyledLine{header, first, second})
	if err != nil {
		t.Fatalf("ClassifyAll failed: %v", err)
	}

	// Folding the whole band must equal folding it line by line.
	whole, err := Gather(all)
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	want := "part one. part two. part three."
	if got := whole[KindNote][0].Text; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGatherMultipleEntriesPreserveOrder(t *testing.T) {
	lines := []layout.StyledLine{
		annotationLine("History: first history.", true),
		annotationLine("Note: a note.", true),
		annotationLine("History: second history.", true),
	}

	info, err := GatherLines(lines)
	if err != nil {
		t.Fatalf("GatherLines failed: %v", err)
	}

	histories := info[KindHistory]
	if len(histories) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(histories))
	}
	if histories[0].Text != "first history." || histories[1].Text != "second history." {
		t.Errorf("entries out of encounter order: %q, %q", histories[0].Text, histories[1].Text)
	}
	if len(info[KindNote]) != 1 {
		t.Errorf("expected 1 note entry, got %d", len(info[KindNote]))
	}
}

func TestGatherOrphanedContinuationFails(t *testing.T) {
	lines := []layout.StyledLine{
		annotationLine("a continuation with nothing open", false),
	}

	_, err := GatherLines(lines)
	if err == nil {
		t.Fatal("expected OrphanedContinuationError")
	}
	var orphanErr *OrphanedContinuationError
	if !errors.As(err, &orphanErr) {
		t.Fatalf("expected OrphanedContinuationError, got %T", err)
	}
	if orphanErr.Text != "a continuation with nothing open" {
		t.Errorf("error should carry the line text, got %q", orphanErr.Text)
	}
}

func TestGatherEmptyBand(t *testing.T) {
	info, err := GatherLines(nil)
	if err != nil {
		t.Fatalf("GatherLines failed: %v", err)
	}
	if info.Count() != 0 {
		t.Errorf("expected empty info, got %d entries", info.Count())
	}
}
