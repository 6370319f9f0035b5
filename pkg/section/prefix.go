package section

import (
	"regexp"

	"github.com/coolbeans/restatute/pkg/layout"
)

// levelPatterns match each level's numbering token at the start of the
// remaining text. Levels are attempted in strict order; an unmatched level
// yields no token and the next level is tried at the same position.
var levelPatterns = [MaxLevel + 1]*regexp.Regexp{
	nil,
	regexp.MustCompile(`^\((\d{1,2})\)\s*`),
	regexp.MustCompile(`^\(([a-z])\)\s*`),
	regexp.MustCompile(`^(\d{1,2})\.\s*`),
	regexp.MustCompile(`^([a-z])\.\s*`),
	regexp.MustCompile(`^([ivx]+)\.\s*`),
}

// Token is one matched numbering prefix with the indentation of its
// occurrence on the line.
type Token struct {
	Level  int
	Prefix string
	Indent float64
}

// Prefix is the parsed leading numbering of one body line: the matched
// tokens in level order, the trailing prose, and the prose's indentation.
type Prefix struct {
	Tokens     []Token
	Rest       string
	RestIndent float64
}

// Deepest returns the deepest matched token. Only valid when Tokens is
// non-empty.
func (prefix Prefix) Deepest() Token {
	return prefix.Tokens[len(prefix.Tokens)-1]
}

// ExtractPrefix matches a line's leading numbering tokens, up to one per
// level in strict level order. Token indentation is read from the
// per-character offsets; for the two bracketed levels the position one
// character before the token is used, so the opening bracket's offset
// counts.
func ExtractPrefix(line layout.StyledLine) Prefix {
	runes := []rune(line.Text)
	position := 0

	prefix := Prefix{}
	for level := 1; level <= MaxLevel; level++ {
		match := levelPatterns[level].FindStringSubmatchIndex(string(runes[position:]))
		if match == nil {
			continue
		}

		tokenStart := position + runeLen(string(runes[position:])[:match[2]])
		indentIndex := tokenStart
		if level == 1 || level == 2 {
			indentIndex = tokenStart - 1
		}

		prefix.Tokens = append(prefix.Tokens, Token{
			Level:  level,
			Prefix: string(runes[position:])[match[2]:match[3]],
			Indent: charIndent(line, indentIndex),
		})
		position += runeLen(string(runes[position:])[:match[1]])
	}

	prefix.Rest = string(runes[position:])
	prefix.RestIndent = charIndent(line, position)
	return prefix
}

// charIndent returns the left offset of the character at the given rune
// index, falling back to the line's own left offset when per-character
// offsets are unavailable.
func charIndent(line layout.StyledLine, index int) float64 {
	if index >= 0 && index < len(line.CharLefts) {
		return line.CharLefts[index]
	}
	if count := len(line.CharLefts); count > 0 && index >= count {
		return line.CharLefts[count-1]
	}
	return line.Left
}

func runeLen(text string) int {
	return len([]rune(text))
}
