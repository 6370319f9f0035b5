package endmatter

import (
	"fmt"
	"strings"

	"github.com/coolbeans/restatute/pkg/layout"
)

// OrphanedContinuationError reports a continuation line appearing before
// any header has opened an entry to attach it to.
type OrphanedContinuationError struct {
	Text string
}

func (err *OrphanedContinuationError) Error() string {
	return fmt.Sprintf("end-matter continuation %q has no open entry", err.Text)
}

// Gather folds classified lines into the typed annotation map. At most
// one entry is open at a time: a header line closes the open entry into
// the result and opens its own, a continuation line appends its text to
// the open entry, and the band's final open entry is closed at the end.
// Entries preserve encounter order within each kind.
func Gather(classified []Classified) (Info, error) {
	info := make(Info)
	var open *Entry

	for _, item := range classified {
		switch {
		case item.IsContinuation() && open == nil:
			return nil, &OrphanedContinuationError{Text: item.Text}
		case item.IsContinuation():
			open.Text = joinText(open.Text, item.Text)
		case open == nil:
			open = item.Entry
		default:
			info.Add(open)
			open = item.Entry
		}
	}

	if open != nil {
		info.Add(open)
	}
	return info, nil
}

// GatherLines classifies and gathers an end-matter band in one pass.
func GatherLines(lines []layout.StyledLine) (Info, error) {
	classified, err := ClassifyAll(lines)
	if err != nil {
		return nil, err
	}
	return Gather(classified)
}

// joinText appends a continuation run to accumulated entry text with a
// single separating space.
func joinText(existing, addition string) string {
	addition = strings.TrimSpace(addition)
	existing = strings.TrimRight(existing, " ")
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	return existing + " " + addition
}
