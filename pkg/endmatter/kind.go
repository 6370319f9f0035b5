// Package endmatter classifies the trailing annotation band of a statute
// (history lines, effective dates, catchlines, codification notes) into a
// fixed taxonomy and gathers continuation lines into their typed entries.
package endmatter

// Kind identifies the type of an end-matter annotation entry.
type Kind string

const (
	KindHistory               Kind = "history"
	KindFormerHistory         Kind = "former-history"
	KindArchivedHistory       Kind = "archived-history"
	KindAlternateHistory      Kind = "alternate-history"
	KindEffective             Kind = "effective"
	KindCatchlineAtRepeal     Kind = "catchline-at-repeal"
	KindCatchlineAtExpiration Kind = "catchline-at-expiration"
	KindCatchlineAtOmission   Kind = "catchline-at-omission"
	KindCatchlineArEnhanced   Kind = "catchline-ar-enhanced"
	KindLrcNote               Kind = "lrc-note"
	KindFormerCodification    Kind = "former-codification"
	KindNote                  Kind = "note"
	KindBudgetRef             Kind = "budget-ref"
	KindRenumbered            Kind = "renumbered"
	KindUnclassified          Kind = "unclassified"
)

// Kinds returns the full taxonomy in a fixed order, for renderers that
// need deterministic iteration over an Info map.
func Kinds() []Kind {
	return []Kind{
		KindHistory,
		KindFormerHistory,
		KindArchivedHistory,
		KindAlternateHistory,
		KindEffective,
		KindCatchlineAtRepeal,
		KindCatchlineAtExpiration,
		KindCatchlineAtOmission,
		KindCatchlineArEnhanced,
		KindLrcNote,
		KindFormerCodification,
		KindNote,
		KindBudgetRef,
		KindRenumbered,
		KindUnclassified,
	}
}

// MarkerEffectiveBlank tags entries recovered from an "ineffective" line
// whose embedded text was reclassified.
const MarkerEffectiveBlank = "effective-blank"

// Entry is one typed annotation. Text accumulates the header line's
// captured body plus any continuation lines that followed it.
type Entry struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`

	// FormerName is the prior section name, for former-history entries.
	FormerName string `json:"former_name,omitempty" yaml:"former_name,omitempty"`

	// AsOfYear is the archive year, for archived-history entries.
	AsOfYear int `json:"as_of_year,omitempty" yaml:"as_of_year,omitempty"`

	// NewSectionNumber is the target section, for renumbered entries.
	NewSectionNumber string `json:"new_section_number,omitempty" yaml:"new_section_number,omitempty"`

	// StartYear and EndYear delimit a biennium, for budget references.
	StartYear int `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	EndYear   int `json:"end_year,omitempty" yaml:"end_year,omitempty"`

	// Markers carries auxiliary tags such as MarkerEffectiveBlank.
	Markers []string `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Info maps each kind to its entries in encounter order.
type Info map[Kind][]*Entry

// Add appends an entry under its kind, preserving encounter order.
func (info Info) Add(entry *Entry) {
	info[entry.Kind] = append(info[entry.Kind], entry)
}

// Count returns the total number of entries across all kinds.
func (info Info) Count() int {
	total := 0
	for _, entries := range info {
		total += len(entries)
	}
	return total
}
