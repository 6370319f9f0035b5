package layout

import "regexp"

// decorationPattern matches lines made entirely of layout punctuation:
// runs of colons, periods, parentheses, commas, spaces, and angle brackets.
// Bold styling on such lines is a rendering artifact, not emphasis.
var decorationPattern = regexp.MustCompile(`^[:.(),<> ]+$`)

// Compress merges each visual line's fragments into logical lines.
//
// Consecutive fragments sharing a style are merged: their text and
// per-character offsets are concatenated and the first fragment's left
// offset is retained. A visual line carrying more than one style (a bold
// label followed by plain prose, say) therefore yields more than one
// logical line. Lines whose whole text is decoration punctuation are
// rewritten from bold to plain so they cannot be mistaken for headers or
// title text downstream.
func Compress(groups [][]Fragment) []StyledLine {
	var lines []StyledLine
	for _, group := range groups {
		lines = append(lines, compressGroup(group)...)
	}
	return lines
}

// compressGroup merges one visual line's fragments by style run.
func compressGroup(group []Fragment) []StyledLine {
	var lines []StyledLine
	for start := 0; start < len(group); {
		end := start + 1
		for end < len(group) && group[end].Style == group[start].Style {
			end++
		}

		line := StyledLine{
			Text:  "",
			Left:  group[start].Left,
			Style: group[start].Style,
		}
		for _, fragment := range group[start:end] {
			line.Text += fragment.Text
			line.CharLefts = append(line.CharLefts, fragment.CharLefts...)
		}
		lines = append(lines, foldDecoration(line))

		start = end
	}
	return lines
}

// foldDecoration downgrades a decoration-only bold line to plain style.
func foldDecoration(line StyledLine) StyledLine {
	if line.Style.Bold && decorationPattern.MatchString(line.Text) {
		line.Style.Bold = false
	}
	return line
}
