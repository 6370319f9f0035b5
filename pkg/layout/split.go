package layout

import "fmt"

// TooManyFontSizesError reports an input outside the expected two-band
// layout: more than two distinct font sizes appear in the line sequence.
// Parsing must not continue past this condition.
type TooManyFontSizesError struct {
	// Sizes lists the distinct font sizes seen, in encounter order.
	Sizes []float64

	// Text is the first line styled with the third size, for diagnosis.
	Text string
}

func (err *TooManyFontSizesError) Error() string {
	return fmt.Sprintf("expected at most two font sizes, found %d (sizes %v) at line %q",
		len(err.Sizes), err.Sizes, err.Text)
}

// sizeRun is a run of consecutive lines sharing one font size.
type sizeRun struct {
	size  float64
	lines []StyledLine
}

// Split partitions logical lines into the front-matter band (title and
// body, the first and larger font) and the end-matter band (trailing
// annotations). Boldness is ignored; only the font size component of the
// style participates. If no smaller-font band follows, the end-matter
// band is empty.
func Split(lines []StyledLine) (frontMatter, endMatter []StyledLine, err error) {
	runs := groupBySize(lines)

	var sizes []float64
	for _, run := range runs {
		if !containsSize(sizes, run.size) {
			sizes = append(sizes, run.size)
			if len(sizes) > 2 {
				return nil, nil, &TooManyFontSizesError{Sizes: sizes, Text: run.lines[0].Text}
			}
		}
	}

	if len(runs) == 0 {
		return nil, nil, nil
	}

	frontMatter = runs[0].lines
	for _, run := range runs[1:] {
		endMatter = append(endMatter, run.lines...)
	}
	return frontMatter, endMatter, nil
}

// groupBySize run-length groups consecutive lines by font size.
func groupBySize(lines []StyledLine) []sizeRun {
	var runs []sizeRun
	for _, line := range lines {
		if len(runs) > 0 && runs[len(runs)-1].size == line.Style.Size {
			last := &runs[len(runs)-1]
			last.lines = append(last.lines, line)
			continue
		}
		runs = append(runs, sizeRun{size: line.Style.Size, lines: []StyledLine{line}})
	}
	return runs
}

func containsSize(sizes []float64, size float64) bool {
	for _, existing := range sizes {
		if existing == size {
			return true
		}
	}
	return false
}
