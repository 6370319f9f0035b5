package section

import "github.com/coolbeans/restatute/pkg/layout"

// Transition classifies a numbered line's relationship to the running
// nesting state. Only NewSubsection and NextSection are sane; the other
// four are anomalies and the line degrades to prose.
type Transition int

const (
	// NewSubsection opens a nesting depth one deeper than the current
	// deepest, with the level's canonical start token.
	NewSubsection Transition = iota

	// NextSection continues an open level with the exact successor of
	// the last prefix recorded there, closing any deeper nesting.
	NextSection

	// SkipFirstSubsection opens a deeper nesting without the canonical
	// start token; the numbering is not trusted.
	SkipFirstSubsection

	// SectionDive jumps more than one level deeper than the current
	// deepest.
	SectionDive

	// SectionSkip presents a prefix that is not the expected successor
	// at its level.
	SectionSkip

	// UnknownSectionCondition covers every remaining combination.
	UnknownSectionCondition
)

// String returns the transition's anomaly tag name.
func (transition Transition) String() string {
	switch transition {
	case NewSubsection:
		return "new-subsection"
	case NextSection:
		return "next-section"
	case SkipFirstSubsection:
		return "skip-first-subsection"
	case SectionDive:
		return "section-dive"
	case SectionSkip:
		return "section-skip"
	default:
		return "unknown-section-condition"
	}
}

// MarshalText serializes the transition as its tag name.
func (transition Transition) MarshalText() ([]byte, error) {
	return []byte(transition.String()), nil
}

// Sane reports whether the transition updates the cursor and yields a
// true section node.
func (transition Transition) Sane() bool {
	return transition == NewSubsection || transition == NextSection
}

// Anomaly records one non-fatal numbering irregularity: the transition
// tag and the raw text of the line that triggered it.
type Anomaly struct {
	Transition Transition `json:"transition" yaml:"transition"`
	Text       string     `json:"text" yaml:"text"`
}

// parseState threads the fold over body lines: the tree under
// construction, the most recent prefix seen at each level, and the
// append-only anomaly log.
type parseState struct {
	root       *SectionNode
	lastPrefix [MaxLevel + 1]string
	deepest    int
	anomalies  []Anomaly
}

// Build folds body lines into a section tree. Lines with sane numbering
// become section nodes; lines with anomalous numbering are logged and
// merged verbatim as prose at the deepest open node, so a handful of
// irregular lines degrades fidelity without aborting the statute.
func Build(lines []layout.StyledLine) (*SectionNode, []Anomaly, error) {
	state := &parseState{root: NewRoot()}

	for _, line := range lines {
		prefix := ExtractPrefix(line)
		if len(prefix.Tokens) == 0 {
			state.root.appendProse(line.Text, line.Left)
			continue
		}

		deepestToken := prefix.Deepest()
		transition := state.classify(deepestToken.Level, deepestToken.Prefix)
		if !transition.Sane() {
			state.anomalies = append(state.anomalies, Anomaly{
				Transition: transition,
				Text:       line.Text,
			})
			state.root.appendProse(line.Text, line.Left)
			continue
		}

		node := synthesize(prefix)
		if err := state.root.merge(node, line.Text); err != nil {
			return nil, state.anomalies, err
		}
		state.advance(prefix)
	}

	return state.root, state.anomalies, nil
}

// classify compares the line's deepest matched level and prefix against
// the expected continuation of the running cursor.
func (state *parseState) classify(level int, prefix string) Transition {
	switch {
	case level == state.deepest+1 && prefix == CanonicalStart(level):
		return NewSubsection
	case level == state.deepest+1:
		return SkipFirstSubsection
	case level > state.deepest+1:
		return SectionDive
	case level <= state.deepest:
		last := state.lastPrefix[level]
		if last == "" {
			return UnknownSectionCondition
		}
		if prefix == Successor(level, last) {
			return NextSection
		}
		return SectionSkip
	}
	return UnknownSectionCondition
}

// advance moves the cursor past a sane line: every matched level records
// its prefix, levels below the new deepest are closed.
func (state *parseState) advance(prefix Prefix) {
	deepestLevel := prefix.Deepest().Level
	for _, token := range prefix.Tokens {
		state.lastPrefix[token.Level] = token.Prefix
	}
	for level := deepestLevel + 1; level <= MaxLevel; level++ {
		state.lastPrefix[level] = ""
	}
	state.deepest = deepestLevel
}
