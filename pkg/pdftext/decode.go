// Package pdftext adapts the XML emitted by pdftohtml's -xml mode into
// the styled fragment groups the parser consumes: one group per visual
// line, fragments in reading order, whitespace-only runs filtered out.
package pdftext

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/coolbeans/restatute/pkg/layout"
)

// lineTolerance is the maximum vertical distance, in page units,
// between text runs that still count as the same visual line.
const lineTolerance = 2.0

// --- pdftohtml XML structures ---
// pdftohtml -xml produces: <pdf2xml> → <page> → <fontspec>/<text>.

// pdfDocument represents the top-level <pdf2xml> element.
type pdfDocument struct {
	XMLName xml.Name  `xml:"pdf2xml"`
	Pages   []pdfPage `xml:"page"`
}

// pdfPage represents a <page> element.
type pdfPage struct {
	Number    int           `xml:"number,attr"`
	FontSpecs []pdfFontSpec `xml:"fontspec"`
	Texts     []pdfText     `xml:"text"`
}

// pdfFontSpec represents a <fontspec> element. Identifiers are unique
// across the whole document, not per page.
type pdfFontSpec struct {
	ID   int     `xml:"id,attr"`
	Size float64 `xml:"size,attr"`
}

// pdfText represents a <text> run. The inner XML is kept raw because
// boldness arrives as a nested <b> wrapper around the character data.
type pdfText struct {
	Top   float64 `xml:"top,attr"`
	Left  float64 `xml:"left,attr"`
	Width float64 `xml:"width,attr"`
	Font  int     `xml:"font,attr"`
	Inner string  `xml:",innerxml"`
}

var inlineTagPattern = regexp.MustCompile(`</?(?:b|i|a)(?:\s[^>]*)?>`)

// text returns the run's plain text with inline markup stripped and
// entities decoded, plus whether the run was bold.
func (run pdfText) text() (string, bool) {
	bold := strings.Contains(run.Inner, "<b>")
	plain := inlineTagPattern.ReplaceAllString(run.Inner, "")
	return html.UnescapeString(plain), bold
}

// Decode reads a whole pdftohtml -xml document and returns its visual
// lines as fragment groups, pages in order.
func Decode(reader io.Reader) ([][]layout.Fragment, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = false

	document := &pdfDocument{}
	if err := decoder.Decode(document); err != nil {
		return nil, fmt.Errorf("decoding pdftohtml xml: %w", err)
	}

	sizes := map[int]float64{}
	for _, page := range document.Pages {
		for _, spec := range page.FontSpecs {
			sizes[spec.ID] = spec.Size
		}
	}

	var groups [][]layout.Fragment
	for _, page := range document.Pages {
		groups = append(groups, pageGroups(page, sizes)...)
	}
	return groups, nil
}

// DecodeFile decodes a pdftohtml -xml file from disk.
func DecodeFile(path string) ([][]layout.Fragment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file)
}

// pageGroups folds one page's text runs into visual-line groups,
// starting a new group whenever the vertical position moves beyond the
// line tolerance.
func pageGroups(page pdfPage, sizes map[int]float64) [][]layout.Fragment {
	var groups [][]layout.Fragment
	var current []layout.Fragment
	currentTop := 0.0

	for _, run := range page.Texts {
		text, bold := run.text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fragment := layout.Fragment{
			Text:      text,
			Style:     layout.Style{Bold: bold, Size: sizes[run.Font]},
			Left:      run.Left,
			CharLefts: charLefts(text, run.Left, run.Width),
		}

		if current != nil && run.Top-currentTop <= lineTolerance && currentTop-run.Top <= lineTolerance {
			current = append(current, fragment)
			continue
		}
		if current != nil {
			groups = append(groups, current)
		}
		current = []layout.Fragment{fragment}
		currentTop = run.Top
	}
	if current != nil {
		groups = append(groups, current)
	}
	return groups
}

// charLefts interpolates a per-character left offset across the run's
// rendered width. pdftohtml reports run geometry only, so uniform
// spacing is the best available estimate.
func charLefts(text string, left, width float64) []float64 {
	runes := []rune(text)
	lefts := make([]float64, len(runes))
	step := 0.0
	if len(runes) > 0 {
		step = width / float64(len(runes))
	}
	for i := range runes {
		lefts[i] = left + float64(i)*step
	}
	return lefts
}
