// Package corpus orchestrates statute parsing across a whole corpus:
// fetching source PDFs, tracking progress in a resumable manifest,
// running documents independently so one failure never aborts a batch,
// and watching a drop directory for new material.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// WorkItem identifies one statute document within the corpus, carrying
// the catalog metadata discovered upstream alongside the fetched PDF.
type WorkItem struct {
	TitleName       string `json:"title_name"`
	TitleIndex      int    `json:"title_index"`
	ChapterName     string `json:"chapter_name"`
	SubchapterName  string `json:"subchapter_name"`
	SubchapterIndex string `json:"subchapter_index"`
	SubchapterLink  string `json:"subchapter_link"`
	PDFPath         string `json:"pdf_path,omitempty"`
	PDFMD5          string `json:"pdf_md5,omitempty"`
}

// Identifier returns the stable corpus key for the item.
func (item WorkItem) Identifier() string {
	if item.SubchapterIndex != "" {
		return item.SubchapterIndex
	}
	return item.SubchapterLink
}

// SavePath returns the output subdirectory for the item, derived from
// its title and chapter names with spaces underscored.
func (item WorkItem) SavePath() string {
	underscore := func(name string) string {
		return strings.ReplaceAll(name, " ", "_")
	}
	return filepath.Join(underscore(item.TitleName), underscore(item.ChapterName))
}

// LoadItems reads a JSON work-item list produced by the catalog
// scraper.
func LoadItems(path string) ([]WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item list: %w", err)
	}
	var items []WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item list: %w", err)
	}
	return items, nil
}

var titleIndexPattern = regexp.MustCompile(`([IVXLCDM]+) - `)

// TitleIndexOf extracts the numeric index from a title name of the form
// "TITLE I - SOVEREIGNTY AND JURISDICTION".
func TitleIndexOf(titleName string) (int, error) {
	match := titleIndexPattern.FindStringSubmatch(titleName)
	if match == nil {
		return 0, fmt.Errorf("no roman title index in %q", titleName)
	}
	return RomanToInt(match[1]), nil
}

var romanValues = map[rune]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// RomanToInt converts an uppercase roman numeral to its value.
func RomanToInt(roman string) int {
	total, last := 0, 0
	for _, symbol := range roman {
		value := romanValues[symbol]
		if value > last {
			total -= last
		} else {
			total += last
		}
		last = value
	}
	return total + last
}
