package card

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/notify"
	"github.com/MrSnakeDoc/vrain/internal/session"
)

// NoLinkMessage is the inline error shown for items without a link.
const NoLinkMessage = "No link provided"

var errClosed = errors.New("card is closed")

// Resolver produces a preview for a link. Implementations never fail.
type Resolver interface {
	Resolve(ctx context.Context, link string) domain.PreviewResult
}

// Backend performs the card's remote actions.
type Backend interface {
	ShareContent(ctx context.Context, id string) (domain.ShareResult, error)
	DeleteContent(ctx context.Context, id string) error
}

// Deps are the collaborators shared by every card of a listing.
type Deps struct {
	Resolver    Resolver
	Placeholder string
	Backend     Backend
	Session     *session.Session
	Notifier    notify.Notifier
	Clipboard   Clipboard
	Logger      logger.Logger
}

// Card owns the preview lifecycle of one saved item.
type Card struct {
	deps Deps

	mu     sync.Mutex
	item   domain.SavedItem
	state  domain.PreviewState
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// New returns an Idle card for item.
func New(item domain.SavedItem, deps Deps) *Card {
	if deps.Placeholder == "" {
		deps.Placeholder = domain.DefaultPlaceholderURL
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(deps.Logger)
	}
	return &Card{
		deps:  deps,
		item:  item,
		state: domain.PreviewState{Status: domain.StatusIdle},
	}
}

// Item returns the saved item backing the card.
func (c *Card) Item() domain.SavedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item
}

// State returns a snapshot of the preview state.
func (c *Card) State() domain.PreviewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load starts resolving the current link. An empty link moves the card to
// the error state without calling the resolver and returns domain.ErrEmptyLink.
func (c *Card) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(ctx)
}

// SetLink replaces the link and restarts resolution. Any in-flight
// resolution for the previous link is cancelled and its result discarded.
func (c *Card) SetLink(ctx context.Context, link string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.item.Link = link
	return c.startLocked(ctx)
}

func (c *Card) startLocked(ctx context.Context) error {
	if c.closed {
		return errClosed
	}
	c.stopLocked()
	c.gen++

	link := strings.TrimSpace(c.item.Link)
	if link == "" {
		c.state = domain.PreviewState{Status: domain.StatusError, ErrorMessage: NoLinkMessage}
		return domain.ErrEmptyLink
	}

	rctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.state = domain.PreviewState{Status: domain.StatusLoading}

	go c.resolve(rctx, c.gen, link, done)
	return nil
}

func (c *Card) resolve(ctx context.Context, gen uint64, link string, done chan struct{}) {
	defer close(done)

	p := c.deps.Resolver.Resolve(ctx, link)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || ctx.Err() != nil {
		c.deps.Logger.Debug("discarding stale preview", logger.String("link", link))
		return
	}
	c.state = domain.PreviewState{Status: domain.StatusReady, Content: p}
}

// stopLocked cancels the in-flight resolution, if any.
func (c *Card) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Wait blocks until the current resolution settles or ctx is done.
func (c *Card) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any in-flight resolution and waits for its goroutine.
// Later Load and SetLink calls fail.
func (c *Card) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++
	c.stopLocked()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// ImageFailed swaps a broken thumbnail for the placeholder. It reports
// whether anything changed; once the placeholder is shown it is a no-op.
func (c *Card) ImageFailed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != domain.StatusReady || !c.state.Content.IsImage() {
		return false
	}
	if c.state.Content.Src == c.deps.Placeholder {
		return false
	}

	c.state.Content = domain.PlaceholderPreview(c.state.Content.Category, c.deps.Placeholder)
	return true
}
