package task

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// OutputLine is one line appended to an output channel.
type OutputLine struct {
	// Content is the line content (without newline).
	Content string

	// Timestamp is when the line was appended.
	Timestamp time.Time

	// LineNumber is the sequential line number (1-based).
	LineNumber int
}

// OutputChannel is a named, append-only text channel for diagnostics.
// Lines are kept for inspection and copied to an optional sink as they arrive.
type OutputChannel struct {
	name string
	sink io.Writer

	lines         []OutputLine
	visible       bool
	preserveFocus bool

	mu sync.RWMutex
}

// NewOutputChannel creates a channel. A nil sink only records lines.
func NewOutputChannel(name string, sink io.Writer) *OutputChannel {
	return &OutputChannel{
		name:  name,
		sink:  sink,
		lines: make([]OutputLine, 0, 16),
	}
}

// Name returns the channel name.
func (c *OutputChannel) Name() string {
	return c.name
}

// AppendLine appends text as one or more lines.
func (c *OutputChannel) AppendLine(text string) {
	parts := strings.Split(strings.TrimRight(text, "\n"), "\n")

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, part := range parts {
		line := OutputLine{
			Content:    part,
			Timestamp:  time.Now(),
			LineNumber: len(c.lines) + 1,
		}
		c.lines = append(c.lines, line)
		if c.sink != nil {
			_, _ = fmt.Fprintf(c.sink, "[%s] %s\n", c.name, part)
		}
	}
}

// Show reveals the channel. With preserveFocus the host keeps focus where it is.
func (c *OutputChannel) Show(preserveFocus bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = true
	c.preserveFocus = preserveFocus
}

// Visible reports whether Show has been called.
func (c *OutputChannel) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// PreserveFocus reports the focus flag of the last Show.
func (c *OutputChannel) PreserveFocus() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preserveFocus
}

// Lines returns a copy of all lines.
func (c *OutputChannel) Lines() []OutputLine {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]OutputLine, len(c.lines))
	copy(result, c.lines)
	return result
}

// LineCount returns the number of lines.
func (c *OutputChannel) LineCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// Content returns all lines joined by newlines.
func (c *OutputChannel) Content() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder
	for i, line := range c.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.Content)
	}
	return b.String()
}
