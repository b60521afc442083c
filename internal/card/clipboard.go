package card

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// Clipboard receives copied links.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// WriterClipboard prints copied text on its own line.
type WriterClipboard struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterClipboard(w io.Writer) *WriterClipboard {
	return &WriterClipboard{w: w}
}

func (c *WriterClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, text)
	return err
}

// OSC52Clipboard sets the terminal clipboard with an OSC 52 escape sequence.
// Works over SSH on terminals that honour it.
type OSC52Clipboard struct {
	mu sync.Mutex
	w  io.Writer
}

func NewOSC52Clipboard(w io.Writer) *OSC52Clipboard {
	return &OSC52Clipboard{w: w}
}

func (c *OSC52Clipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	return err
}
