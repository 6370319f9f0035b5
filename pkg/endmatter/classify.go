package endmatter

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/coolbeans/restatute/pkg/layout"
)

// UnrecognizedHeaderError reports a bold end-matter line matching none of
// the known header patterns. Headers carry structural meaning, so an
// unknown one aborts the document's parse.
type UnrecognizedHeaderError struct {
	Text string
}

func (err *UnrecognizedHeaderError) Error() string {
	return fmt.Sprintf("unrecognized end-matter header %q", err.Text)
}

// Classified is one end-matter line after classification: a typed entry
// for header lines, or a bare continuation (Entry nil) for plain lines.
type Classified struct {
	Entry *Entry
	Text  string
}

// IsContinuation reports whether the line attaches to the open entry.
func (classified Classified) IsContinuation() bool {
	return classified.Entry == nil
}

// headerRule pairs a header pattern with its entry constructor. Rules are
// evaluated in catalogue order; the first match wins.
type headerRule struct {
	pattern *regexp.Regexp
	build   func(match []string) *Entry
}

// renumberedPattern matches a bold line that only carries a renumbering
// notice. It is applied before the header/continuation distinction.
var renumberedPattern = regexp.MustCompile(`^(?:.*\s)?[Rr]enumbered as KRS ([0-9]+[A-Za-z]?\.[0-9]+(?:-[0-9]+)?)\b.*$`)

// ineffectivePattern matches the irregular "(Ineffective)" line whose
// trailing text embeds another classifiable header.
var ineffectivePattern = regexp.MustCompile(`^\(Ineffective\)\s*(.*)$`)

// headerRules is the ordered classification catalogue. More specific
// variants of a header precede the generic form.
var headerRules = []headerRule{
	{regexp.MustCompile(`^History \(archived as of (\d{4})\):\s*(.*)$`), func(match []string) *Entry {
		year, _ := strconv.Atoi(match[1])
		return &Entry{Kind: KindArchivedHistory, AsOfYear: year, Text: match[2]}
	}},
	{regexp.MustCompile(`^History for former (.+?):\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindFormerHistory, FormerName: match[1], Text: match[2]}
	}},
	{regexp.MustCompile(`^Alternate [Hh]istory:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindAlternateHistory, Text: match[1]}
	}},
	{regexp.MustCompile(`^History and amendments:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindHistory, Text: match[1]}
	}},
	{regexp.MustCompile(`^History:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindHistory, Text: match[1]}
	}},
	{regexp.MustCompile(`^Effective date:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindEffective, Text: match[1]}
	}},
	{regexp.MustCompile(`^Effective:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindEffective, Text: match[1]}
	}},
	{EffectiveStampPattern, func(match []string) *Entry {
		return &Entry{Kind: KindEffective, Text: match[1]}
	}},
	{regexp.MustCompile(`^Catchline at repeal \(as enhanced\):\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindCatchlineArEnhanced, Text: match[1]}
	}},
	{regexp.MustCompile(`^Catchline at repeal:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindCatchlineAtRepeal, Text: match[1]}
	}},
	{regexp.MustCompile(`^Catchline at expiration:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindCatchlineAtExpiration, Text: match[1]}
	}},
	{regexp.MustCompile(`^Catchline at omission:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindCatchlineAtOmission, Text: match[1]}
	}},
	{regexp.MustCompile(`^Legislative Research Commission Note\s*(?:\([0-9/]+\))?[.:]?\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindLrcNote, Text: match[1]}
	}},
	{regexp.MustCompile(`^Formerly codified as\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindFormerCodification, Text: match[1]}
	}},
	{regexp.MustCompile(`^Codification:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindFormerCodification, Text: match[1]}
	}},
	{regexp.MustCompile(`^(\d{4})-(\d{4}) Budget Reference\.?\s*(.*)$`), func(match []string) *Entry {
		startYear, _ := strconv.Atoi(match[1])
		endYear, _ := strconv.Atoi(match[2])
		return &Entry{Kind: KindBudgetRef, StartYear: startYear, EndYear: endYear, Text: match[3]}
	}},
	{regexp.MustCompile(`^Budget Reference\.?\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindBudgetRef, Text: match[1]}
	}},
	{regexp.MustCompile(`^Note:\s*(.*)$`), func(match []string) *Entry {
		return &Entry{Kind: KindNote, Text: match[1]}
	}},
}

// EffectiveStampPattern matches the isolated "(Effective Month Day, Year)"
// parenthetical that occasionally strays into the body band.
var EffectiveStampPattern = regexp.MustCompile(`^\(Effective ([A-Z][a-z]+ \d{1,2}, \d{4})\)$`)

// ClassifyLine classifies one end-matter line. Bold lines must match a
// header pattern (or the renumbering notice, which wins outright); plain
// lines are continuations of whichever entry is currently open.
func ClassifyLine(line layout.StyledLine) (Classified, error) {
	if line.Bold() {
		if match := renumberedPattern.FindStringSubmatch(line.Text); match != nil {
			return Classified{
				Entry: &Entry{Kind: KindRenumbered, NewSectionNumber: match[1], Text: line.Text},
				Text:  line.Text,
			}, nil
		}
		entry, err := classifyHeaderText(line.Text)
		if err != nil {
			return Classified{}, err
		}
		return Classified{Entry: entry, Text: line.Text}, nil
	}
	return Classified{Text: line.Text}, nil
}

// classifyHeaderText runs the ordered catalogue over a bold header's text.
func classifyHeaderText(text string) (*Entry, error) {
	if match := ineffectivePattern.FindStringSubmatch(text); match != nil {
		return classifyIneffective(match[1]), nil
	}
	for _, rule := range headerRules {
		if match := rule.pattern.FindStringSubmatch(text); match != nil {
			return rule.build(match), nil
		}
	}
	return nil, &UnrecognizedHeaderError{Text: text}
}

// classifyIneffective reclassifies the text embedded in an "(Ineffective)"
// line and tags the result with the effective-blank marker. Embedded text
// matching no pattern becomes an unclassified entry rather than an error.
func classifyIneffective(embedded string) *Entry {
	entry, err := classifyHeaderText(embedded)
	if err != nil {
		entry = &Entry{Kind: KindUnclassified, Text: embedded}
	}
	entry.Markers = append(entry.Markers, MarkerEffectiveBlank)
	return entry
}

// ClassifyAll classifies a whole end-matter band in order.
func ClassifyAll(lines []layout.StyledLine) ([]Classified, error) {
	classified := make([]Classified, 0, len(lines))
	for _, line := range lines {
		item, err := ClassifyLine(line)
		if err != nil {
			return nil, err
		}
		classified = append(classified, item)
	}
	return classified, nil
}
