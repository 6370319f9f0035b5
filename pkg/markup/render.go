// Package markup renders parsed statute documents into XML, JSON, or
// YAML, and emits failed-parse markers for documents whose parse
// aborted.
package markup

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/restatute/pkg/endmatter"
	"github.com/coolbeans/restatute/pkg/section"
	"github.com/coolbeans/restatute/pkg/statute"
)

// Format selects an output encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name from flags or config.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatXML, FormatJSON, FormatYAML:
		return Format(name), nil
	}
	return "", fmt.Errorf("unsupported output format %q", name)
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Render encodes a document in the requested format.
func Render(doc *statute.Document, format Format) ([]byte, error) {
	switch format {
	case FormatXML:
		return renderXML(documentXML(doc))
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// RenderFailed encodes a failed-parse marker carrying the document's
// identifying metadata and the fatal error.
func RenderFailed(failed *statute.FailedParse, format Format) ([]byte, error) {
	marker := struct {
		FailedParse bool             `json:"failed_parse" yaml:"failed_parse"`
		Reason      string           `json:"reason" yaml:"reason"`
		Meta        statute.Metadata `json:"meta,omitempty" yaml:"meta,omitempty"`
	}{
		FailedParse: true,
		Reason:      failed.Reason(),
		Meta:        failed.Meta,
	}

	switch format {
	case FormatXML:
		return renderXML(&xmlFailed{
			Reason:   failed.Reason(),
			Metadata: metadataXML(failed.Meta),
		})
	case FormatJSON:
		return json.MarshalIndent(marker, "", "  ")
	case FormatYAML:
		return yaml.Marshal(marker)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

func renderXML(value any) ([]byte, error) {
	encoded, err := xml.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding xml: %w", err)
	}
	return append([]byte(xml.Header), encoded...), nil
}

type xmlDocument struct {
	XMLName   xml.Name      `xml:"statute"`
	Metadata  *xmlMetadata  `xml:"metadata,omitempty"`
	Title     string        `xml:"title"`
	Body      *xmlSection
	EndMatter *xmlEndMatter `xml:"endmatter"`
	Anomalies []xmlAnomaly  `xml:"anomaly,omitempty"`
}

type xmlMetadata struct {
	Author    string `xml:"author,omitempty"`
	CreatedAt string `xml:"created_at,omitempty"`
	Source    string `xml:"source,omitempty"`
}

type xmlSection struct {
	XMLName  xml.Name `xml:"section"`
	Level    int      `xml:"level,attr"`
	Prefix   string   `xml:"prefix,attr,omitempty"`
	Children []any
}

type xmlText struct {
	XMLName xml.Name `xml:"text"`
	Value   string   `xml:",chardata"`
}

type xmlEndMatter struct {
	Entries []xmlEntry `xml:"entry"`
}

type xmlEntry struct {
	Kind       string   `xml:"kind,attr"`
	FormerName string   `xml:"former_name,attr,omitempty"`
	AsOfYear   int      `xml:"as_of_year,attr,omitempty"`
	NewSection string   `xml:"new_section,attr,omitempty"`
	StartYear  int      `xml:"start_year,attr,omitempty"`
	EndYear    int      `xml:"end_year,attr,omitempty"`
	Markers    []string `xml:"marker"`
	Text       string   `xml:"text"`
}

type xmlAnomaly struct {
	Transition string `xml:"transition,attr"`
	Text       string `xml:",chardata"`
}

type xmlFailed struct {
	XMLName  xml.Name     `xml:"failed-parse"`
	Reason   string       `xml:"reason"`
	Metadata *xmlMetadata `xml:"metadata,omitempty"`
}

func documentXML(doc *statute.Document) *xmlDocument {
	out := &xmlDocument{
		Metadata:  metadataXML(doc.Meta),
		Title:     doc.Title,
		Body:      sectionXML(doc.Body),
		EndMatter: endMatterXML(doc.EndMatter),
	}
	for _, anomaly := range doc.Anomalies {
		out.Anomalies = append(out.Anomalies, xmlAnomaly{
			Transition: anomaly.Transition.String(),
			Text:       anomaly.Text,
		})
	}
	return out
}

func metadataXML(meta statute.Metadata) *xmlMetadata {
	if meta == (statute.Metadata{}) {
		return nil
	}
	out := &xmlMetadata{Author: meta.Author, Source: meta.Source}
	if !meta.CreatedAt.IsZero() {
		out.CreatedAt = meta.CreatedAt.Format(time.RFC3339)
	}
	return out
}

func sectionXML(node *section.SectionNode) *xmlSection {
	out := &xmlSection{Level: node.Level, Prefix: node.Prefix}
	for _, child := range node.Children {
		switch typed := child.(type) {
		case *section.TextLeaf:
			out.Children = append(out.Children, &xmlText{Value: typed.Text})
		case *section.SectionNode:
			out.Children = append(out.Children, sectionXML(typed))
		}
	}
	return out
}

// endMatterXML flattens the info map into entry elements, iterating
// kinds in their taxonomy order so output is deterministic.
func endMatterXML(info endmatter.Info) *xmlEndMatter {
	out := &xmlEndMatter{}
	for _, kind := range endmatter.Kinds() {
		for _, entry := range info[kind] {
			out.Entries = append(out.Entries, xmlEntry{
				Kind:       string(entry.Kind),
				FormerName: entry.FormerName,
				AsOfYear:   entry.AsOfYear,
				NewSection: entry.NewSectionNumber,
				StartYear:  entry.StartYear,
				EndYear:    entry.EndYear,
				Markers:    entry.Markers,
				Text:       entry.Text,
			})
		}
	}
	return out
}
