package statute

import (
	"fmt"
	"strings"

	"github.com/coolbeans/restatute/pkg/endmatter"
	"github.com/coolbeans/restatute/pkg/layout"
)

// MissingBodyError reports a front-matter band that is bold all the way
// down: the title never ends, so there is no body to parse.
type MissingBodyError struct {
	// Title is the text consumed as title before the band ran out.
	Title string
}

func (err *MissingBodyError) Error() string {
	return fmt.Sprintf("no body lines follow the title %q", err.Title)
}

// ComponentMissingError reports a document lacking one of its three
// required components after the repair passes.
type ComponentMissingError struct {
	Component string
}

func (err *ComponentMissingError) Error() string {
	return fmt.Sprintf("document is missing its %s", err.Component)
}

// UnexpectedBoldInBodyError reports a bold line surviving in the body
// after the repair passes, which means the title boundary was
// mis-detected.
type UnexpectedBoldInBodyError struct {
	Text string
}

func (err *UnexpectedBoldInBodyError) Error() string {
	return fmt.Sprintf("unexpected bold line in body: %q", err.Text)
}

// catchlineRepairHeader is the malformed repeal catchline that sometimes
// lands in the body band instead of the end-matter band.
const catchlineRepairHeader = "Catchline at repeal:"

// splitTitleBody splits the front-matter band at the first non-bold
// line. Everything before is the title, concatenated; everything at and
// after is the body.
func splitTitleBody(frontMatter []layout.StyledLine) (string, []layout.StyledLine, error) {
	boundary := len(frontMatter)
	for i, line := range frontMatter {
		if !line.Bold() {
			boundary = i
			break
		}
	}

	titleFields := make([]string, 0, boundary)
	for _, line := range frontMatter[:boundary] {
		titleFields = append(titleFields, strings.TrimSpace(line.Text))
	}
	title := strings.Join(titleFields, " ")

	body := frontMatter[boundary:]
	if len(body) == 0 {
		return "", nil, &MissingBodyError{Title: title}
	}
	return title, body, nil
}

// liftEffectiveStamp removes a stray bold "(Effective Month Day, Year)"
// parenthetical from the body and reinserts it into end-matter. Absent
// the stamp, the body passes through unchanged.
func liftEffectiveStamp(body []layout.StyledLine, info endmatter.Info) []layout.StyledLine {
	for i, line := range body {
		if !line.Bold() {
			continue
		}
		match := endmatter.EffectiveStampPattern.FindStringSubmatch(line.Text)
		if match == nil {
			continue
		}
		info.Add(&endmatter.Entry{Kind: endmatter.KindEffective, Text: match[1]})
		return append(append([]layout.StyledLine{}, body[:i]...), body[i+1:]...)
	}
	return body
}

// repairCatchline relocates a malformed repeal catchline embedded in the
// body: the bold "Catchline at repeal:" header plus the prose that
// follows it up to the next style change move to end-matter. A body
// without the header passes through unchanged.
func repairCatchline(body []layout.StyledLine, info endmatter.Info) []layout.StyledLine {
	for i, line := range body {
		if !line.Bold() || strings.TrimSpace(line.Text) != catchlineRepairHeader {
			continue
		}

		end := i + 1
		if end < len(body) {
			proseStyle := body[end].Style
			for end < len(body) && body[end].Style == proseStyle {
				end++
			}
		}

		proseFields := make([]string, 0, end-i-1)
		for _, proseLine := range body[i+1 : end] {
			proseFields = append(proseFields, strings.TrimSpace(proseLine.Text))
		}
		info.Add(&endmatter.Entry{
			Kind: endmatter.KindCatchlineAtRepeal,
			Text: strings.Join(proseFields, " "),
		})
		return append(append([]layout.StyledLine{}, body[:i]...), body[end:]...)
	}
	return body
}

// verifyComponents enforces the post-repair contracts: all three
// document components present, and no bold line left in the body.
func verifyComponents(title string, body []layout.StyledLine, info endmatter.Info) error {
	switch {
	case title == "":
		return &ComponentMissingError{Component: "title"}
	case len(body) == 0:
		return &ComponentMissingError{Component: "body"}
	case info.Count() == 0:
		return &ComponentMissingError{Component: "end-matter"}
	}

	for _, line := range body {
		if line.Bold() {
			return &UnexpectedBoldInBodyError{Text: line.Text}
		}
	}
	return nil
}
