package section

import (
	"fmt"
	"strings"
)

// maxMergeDepth bounds the rightmost-descendant walk when attaching a new
// node. Exceeding it means the tree no longer respects the level
// invariant and the document is corrupt beyond repair.
const maxMergeDepth = 16

// Node is a member of the section tree: either a *SectionNode or a
// *TextLeaf.
type Node interface {
	isNode()
}

// TextLeaf is a run of body prose with no further numbering, owned by
// exactly one section node.
type TextLeaf struct {
	Text string `json:"text" yaml:"text"`
}

func (*TextLeaf) isNode() {}

// SectionNode is one numbered section. A child section's level is always
// exactly one greater than its parent's; text leaves carry no level. The
// root of a document body is a synthetic level-0 node.
type SectionNode struct {
	// Level is the nesting depth, 1 through 5; 0 for the root.
	Level int `json:"level" yaml:"level"`

	// Prefix is the numbering token that opened this section ("1", "a",
	// "i"). Empty for the root.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// IndentThreshold is the left-position boundary separating this
	// node's own trailing text from its children's.
	IndentThreshold float64 `json:"indent_threshold,omitempty" yaml:"indent_threshold,omitempty"`

	// Children holds subsections and prose leaves in document order.
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

func (*SectionNode) isNode() {}

// NewRoot creates the synthetic level-0 root of a body tree.
func NewRoot() *SectionNode {
	return &SectionNode{Level: 0}
}

// MalformedNestingError reports a section tree whose nesting no longer
// admits a legal attachment point for a new node.
type MalformedNestingError struct {
	// Text is the line whose section could not be attached.
	Text string
}

func (err *MalformedNestingError) Error() string {
	return fmt.Sprintf("section nesting is malformed at line %q", err.Text)
}

// synthesize builds the nested node chain for one line's matched tokens,
// outermost level first. Each node owns a single child: the next level's
// node, or finally the trailing prose as a text leaf. A node's indent
// threshold is the indentation of its first owned child.
func synthesize(prefix Prefix) *SectionNode {
	var innermost *SectionNode
	for i := len(prefix.Tokens) - 1; i >= 0; i-- {
		token := prefix.Tokens[i]
		node := &SectionNode{
			Level:  token.Level,
			Prefix: token.Prefix,
		}
		if innermost == nil {
			node.IndentThreshold = prefix.RestIndent
			if rest := strings.TrimSpace(prefix.Rest); rest != "" {
				node.Children = []Node{&TextLeaf{Text: rest}}
			}
		} else {
			node.IndentThreshold = innermost.indent(prefix)
			node.Children = []Node{innermost}
		}
		innermost = node
	}
	return innermost
}

// indent returns the token indentation recorded for this node's level.
func (node *SectionNode) indent(prefix Prefix) float64 {
	for _, token := range prefix.Tokens {
		if token.Level == node.Level {
			return token.Indent
		}
	}
	return prefix.RestIndent
}

// merge attaches a synthesized node to the tree by walking down the
// rightmost descendants to the node whose level is one less than the new
// node's, appending it as that node's final child.
func (node *SectionNode) merge(incoming *SectionNode, lineText string) error {
	current := node
	for depth := 0; ; depth++ {
		if depth > maxMergeDepth {
			return &MalformedNestingError{Text: lineText}
		}
		if current.Level == incoming.Level-1 {
			current.Children = append(current.Children, incoming)
			return nil
		}
		next := current.lastSection()
		if next == nil {
			return &MalformedNestingError{Text: lineText}
		}
		current = next
	}
}

// lastSection returns the final child if it is a section node, else nil.
func (node *SectionNode) lastSection() *SectionNode {
	if len(node.Children) == 0 {
		return nil
	}
	if child, ok := node.Children[len(node.Children)-1].(*SectionNode); ok {
		return child
	}
	return nil
}

// appendProse places an un-numbered line's text into the tree. The text
// joins the last child when that child is already a leaf; against a
// section child, the line's indentation decides whether it starts a new
// sibling leaf here (shallower than the child's threshold) or belongs to
// the child's own trailing text (deeper or equal, recursing).
func (node *SectionNode) appendProse(text string, indent float64) {
	if len(node.Children) == 0 {
		node.Children = []Node{&TextLeaf{Text: text}}
		return
	}

	switch last := node.Children[len(node.Children)-1].(type) {
	case *TextLeaf:
		last.Text = joinProse(last.Text, text)
	case *SectionNode:
		if indent < last.IndentThreshold {
			node.Children = append(node.Children, &TextLeaf{Text: text})
		} else {
			last.appendProse(text, indent)
		}
	}
}

// joinProse concatenates two prose runs with a single separating space.
func joinProse(existing, addition string) string {
	existing = strings.TrimRight(existing, " ")
	addition = strings.TrimSpace(addition)
	if existing == "" {
		return addition
	}
	if addition == "" {
		return existing
	}
	return existing + " " + addition
}

// FlattenText returns the text of every leaf in document order.
func (node *SectionNode) FlattenText() []string {
	var texts []string
	for _, child := range node.Children {
		switch typed := child.(type) {
		case *TextLeaf:
			texts = append(texts, typed.Text)
		case *SectionNode:
			texts = append(texts, typed.FlattenText()...)
		}
	}
	return texts
}
