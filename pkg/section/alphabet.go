// Package section builds a nested section tree from body lines whose
// numbering prefixes mix numeric, alphabetic, and roman-numeral counters
// across up to five nesting levels. Numbering irregularities are recorded
// as anomalies and the offending lines degrade to prose; they never abort
// the parse.
package section

import "strconv"

// MaxLevel is the deepest supported nesting level.
const MaxLevel = 5

// maxNumericPrefix bounds the numeric counter alphabets at levels 1 and 3.
const maxNumericPrefix = 60

// canonicalStarts holds the first valid prefix at each level, indexed by
// level. A new nesting depth must open with its canonical start token.
var canonicalStarts = [MaxLevel + 1]string{"", "1", "a", "1", "a", "i"}

// romanetteSuccessors is the fixed successor chain for the level-5
// romanette counter.
var romanetteSuccessors = map[string]string{
	"i":   "ii",
	"ii":  "iii",
	"iii": "iv",
	"iv":  "vi",
}

// CanonicalStart returns the first valid prefix token for a level.
func CanonicalStart(level int) string {
	if level < 1 || level > MaxLevel {
		return ""
	}
	return canonicalStarts[level]
}

// Successor returns the next prefix token after previous at the given
// level, or "" when previous has no successor in the level's alphabet.
func Successor(level int, previous string) string {
	switch level {
	case 1, 3:
		return numericSuccessor(previous)
	case 2, 4:
		return letterSuccessor(previous)
	case 5:
		return romanetteSuccessors[previous]
	}
	return ""
}

func numericSuccessor(previous string) string {
	value, err := strconv.Atoi(previous)
	if err != nil || value < 1 || value >= maxNumericPrefix {
		return ""
	}
	return strconv.Itoa(value + 1)
}

func letterSuccessor(previous string) string {
	if len(previous) != 1 || previous[0] < 'a' || previous[0] >= 'z' {
		return ""
	}
	return string(previous[0] + 1)
}
