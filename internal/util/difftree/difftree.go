// Package difftree renders change entries as an indented tree grouped
// along their path segments. Nodes start hidden and become visible once
// SetDescription marks them; children keep insertion order, so builders
// must add them in display order.
package difftree

import (
	"fmt"
	"io"
	"strings"
)

type Node struct {
	Title       string
	Description string
	Marker      Marker

	children     []*Node
	childByTitle map[string]*Node
	doDisplay    bool
	parent       *Node
}

func (n *Node) child(title string) *Node {
	if n.childByTitle != nil {
		if v, ok := n.childByTitle[title]; ok {
			return v
		}
	}
	v := &Node{
		Title:  title,
		parent: n,
	}
	if n.childByTitle == nil {
		n.childByTitle = map[string]*Node{}
	}
	n.childByTitle[title] = v
	n.children = append(n.children, v)
	return v
}

// Label descends into the child with the given title, creating it on first
// use.
func (n *Node) Label(title string) *Node {
	return n.child(title)
}

// Value is Label with the title quoted, for titles holding user data.
func (n *Node) Value(value string) *Node {
	return n.child(fmt.Sprintf("%q", value))
}

// SetDescription fills in the node text and marker and makes the node and
// all its ancestors visible.
func (n *Node) SetDescription(marker Marker, msg string, a ...any) {
	for v := n; v != nil && !v.doDisplay; v = v.parent {
		v.doDisplay = true
	}
	n.Description = fmt.Sprintf(msg, a...)
	n.Marker = marker
}

// Prune drops every hidden node so later walks only see visible ones.
func (n *Node) Prune() {
	kept := []*Node{}
	for _, v := range n.children {
		if !v.doDisplay {
			continue
		}
		kept = append(kept, v)
		v.Prune()
	}
	if len(kept) == 0 {
		n.children = nil
		n.childByTitle = nil
		return
	}
	n.children = kept
	n.childByTitle = make(map[string]*Node, len(kept))
	for _, child := range kept {
		n.childByTitle[child.Title] = child
	}
}

func (n *Node) levelPrefix(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("  ", level-1) + "- "
}

type cappedWriter struct {
	// The number of remaining lines before the cap; -1 means no cap.
	remaining int
	out       io.Writer
}

func (c *cappedWriter) incr() {
	if c.remaining > 0 {
		// Never step past 0: -1 must keep meaning "always print".
		c.remaining--
	}
}

func (c *cappedWriter) Write(p []byte) (n int, err error) {
	if c.remaining > 0 || c.remaining == -1 {
		return c.out.Write(p)
	}
	// Pretend the write happened so rendering keeps walking.
	return len(p), nil
}

// Display writes the visible tree, capped at max described lines (-1 for
// no cap), and returns the number of descriptions in the tree regardless
// of the cap.
func (n *Node) Display(out io.Writer, max int) int {
	writer := &cappedWriter{max, out}
	return n.display(writer, 0, true)
}

func (n *Node) display(out *cappedWriter, level int, prefix bool) int {
	write := func(s string) {
		_, _ = out.Write([]byte(s))
	}
	if n == nil || !n.doDisplay {
		return 0
	}

	var displayed int
	var line string
	if n.Title != "" {
		if prefix {
			line = n.levelPrefix(level)
			line += n.marker()
		}
		line += n.Title
		if n.Description != "" {
			displayed++
			line += " " + n.Description
		}

		write(line)
		out.incr()
	}

	if level > 0 && n.Marker == None {
		if s := n.uniqueSuccessor(); s != nil {
			write(": ")
			return s.display(out, level, false) + displayed
		}
	}

	var didEndLine bool
	for _, child := range n.children {
		if child.doDisplay && !didEndLine {
			if level > 0 {
				write(":\n")
			} else {
				write("\n")
			}
			didEndLine = true
		}
		displayed += child.display(out, level+1, true)
	}

	if !didEndLine {
		write("\n")
	}

	return displayed
}

// uniqueSuccessor returns the single visible child of n, or nil when there
// are none or several.
func (n *Node) uniqueSuccessor() *Node {
	var us *Node
	for _, s := range n.children {
		if !s.doDisplay {
			continue
		}
		if us != nil {
			return nil
		}
		us = s
	}
	return us
}

// marker resolves the indicator shown ahead of the title: the node's own
// marker when set, otherwise the marker bubbled up from an inlined chain
// of only children.
func (n *Node) marker() string {
	for n != nil {
		if n.Marker != None {
			return n.Marker.String() + " "
		}
		s := n.uniqueSuccessor()
		if s == nil {
			return ""
		}
		n = s
	}
	return ""
}

// Marker is the change indicator rendered ahead of a node title. Nodes
// with a non-None marker never inline into their children.
type Marker struct{ s string }

var None = Marker{}

// NewMarker wraps a rendered indicator, typically a styled "+", "-", "~"
// or "=".
func NewMarker(s string) Marker { return Marker{s} }

func (m Marker) String() string { return m.s }
