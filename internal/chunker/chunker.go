// Package chunker splits document text into overlapping fixed-size windows
// for embedding and retrieval.
package chunker

import (
	"fmt"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// DefaultWindow is the default window size in bytes.
const DefaultWindow = 1000

// DefaultOverlap is the default overlap between consecutive windows in bytes.
const DefaultOverlap = 200

// Window is one chunk of text with its start offset in the original input.
type Window struct {
	// Start is the byte offset of the window in the input text.
	Start int

	// Text is the window content.
	Text string
}

// Chunker produces deterministic sliding windows: window i starts at
// i*(window-overlap); the final window may be shorter. Consecutive windows
// overlap by exactly the configured overlap except possibly the last, and
// concatenating windows minus overlaps reconstructs the input.
type Chunker struct {
	window  int
	overlap int
}

// New creates a chunker. It fails with domain.ErrInvalidConfiguration when
// overlap >= window, since the window start could then never advance, or
// when either value is negative or the window is zero.
func New(window, overlap int) (*Chunker, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: chunk window must be positive, got %d", domain.ErrInvalidConfiguration, window)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidConfiguration, overlap)
	}
	if overlap >= window {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than window %d", domain.ErrInvalidConfiguration, overlap, window)
	}
	return &Chunker{window: window, overlap: overlap}, nil
}

// Window returns the configured window size.
func (c *Chunker) Window() int { return c.window }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into ordered windows. Empty text yields no windows.
func (c *Chunker) Chunk(text string) []Window {
	if text == "" {
		return nil
	}

	step := c.window - c.overlap
	windows := make([]Window, 0, len(text)/step+1)

	for start := 0; start < len(text); start += step {
		end := start + c.window
		if end > len(text) {
			end = len(text)
		}
		windows = append(windows, Window{Start: start, Text: text[start:end]})
	}

	return windows
}
