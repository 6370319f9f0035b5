// Package layout models the style-tagged text lines produced by the PDF
// text-extraction pass and prepares them for structural parsing: adjacent
// fragments on one visual line are compressed into logical lines, and the
// line sequence is split into the front-matter and end-matter font bands.
package layout

// Style is the typographic signature of a text run: boldness plus the
// font size reported by the extraction pass.
type Style struct {
	Bold bool    `json:"bold"`
	Size float64 `json:"size"`
}

// Fragment is a raw text run from the extraction collaborator. Fragments
// with whitespace-only text are expected to be filtered upstream.
type Fragment struct {
	// Text is the run's character content.
	Text string `json:"text"`

	// Style is the run's typographic signature.
	Style Style `json:"style"`

	// Left is the horizontal offset of the run's first character.
	Left float64 `json:"left"`

	// CharLefts holds the horizontal offset of every character in Text,
	// in rune order.
	CharLefts []float64 `json:"char_lefts"`
}

// StyledLine is a logical line built by compressing the fragments of one
// visual line that share a style. Immutable once built.
type StyledLine struct {
	// Text is the concatenated text of the merged fragments.
	Text string `json:"text"`

	// Left is the horizontal offset of the line's first character.
	Left float64 `json:"left"`

	// Style is the shared typographic signature of the merged fragments.
	Style Style `json:"style"`

	// CharLefts holds per-character horizontal offsets, used for
	// sub-line indentation decisions during section parsing.
	CharLefts []float64 `json:"char_lefts,omitempty"`
}

// Bold reports whether the line carries bold styling.
func (line StyledLine) Bold() bool {
	return line.Style.Bold
}
