// Package statute assembles parsed statute documents from the styled
// lines of a rendered page: it splits title from body, repairs
// misplaced end-matter fragments, and hands the body to the section
// builder.
package statute

import (
	"time"

	"github.com/coolbeans/restatute/pkg/endmatter"
	"github.com/coolbeans/restatute/pkg/layout"
	"github.com/coolbeans/restatute/pkg/section"
)

// Metadata carries document-level fields that pass through parsing
// unchanged.
type Metadata struct {
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
}

// Document is a fully reconstructed statute.
type Document struct {
	Title     string               `json:"title" yaml:"title"`
	Body      *section.SectionNode `json:"body" yaml:"body"`
	EndMatter endmatter.Info       `json:"end_matter" yaml:"end_matter"`
	Anomalies []section.Anomaly    `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
	Meta      Metadata             `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// LowConfidence reports whether any numbering anomaly degraded part of
// the body to plain prose.
func (d *Document) LowConfidence() bool {
	return len(d.Anomalies) > 0
}

// FailedParse records a document that could not be parsed, keeping its
// metadata and the fatal error so a batch run can report it.
type FailedParse struct {
	Meta Metadata `json:"meta,omitempty" yaml:"meta,omitempty"`
	Err  error    `json:"-" yaml:"-"`
}

// Reason returns the fatal error's message, or an empty string.
func (f *FailedParse) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// Parse reconstructs a statute document from the visual-line fragment
// groups of a rendered page. Each inner slice holds the fragments of
// one visual line, in reading order.
func Parse(groups [][]layout.Fragment, meta Metadata) (*Document, error) {
	lines := layout.Compress(groups)

	frontMatter, endMatterLines, err := layout.Split(lines)
	if err != nil {
		return nil, err
	}

	info, err := endmatter.GatherLines(endMatterLines)
	if err != nil {
		return nil, err
	}

	title, body, err := splitTitleBody(frontMatter)
	if err != nil {
		return nil, err
	}

	body = liftEffectiveStamp(body, info)
	body = repairCatchline(body, info)

	if err := verifyComponents(title, body, info); err != nil {
		return nil, err
	}

	root, anomalies, err := section.Build(body)
	if err != nil {
		return nil, err
	}

	return &Document{
		Title:     title,
		Body:      root,
		EndMatter: info,
		Anomalies: anomalies,
		Meta:      meta,
	}, nil
}
