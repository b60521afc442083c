package card

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/notify"
)

// User-facing action messages.
const (
	MsgLoginToShare  = "Please login to share content"
	MsgLoginToDelete = "Please login to delete content"
	MsgLoginToCopy   = "Please login to copy links"
	MsgShared        = "Content shared successfully"
	MsgShareFailed   = "Failed to share content"
	MsgDeleted       = "Content deleted successfully!"
	MsgDeleteFailed  = "Failed to delete content"
	MsgCopied        = "Link copied to clipboard"
	MsgCopyFailed    = "Failed to copy link"
)

// authorize reports whether the session holds a credential and notifies
// the user otherwise.
func (c *Card) authorize(ctx context.Context, msg string) error {
	if c.deps.Session.Authenticated() {
		return nil
	}
	notify.Failure(ctx, c.deps.Notifier, msg)
	return domain.ErrNotAuthenticated
}

// Copy writes the item's link to the clipboard.
func (c *Card) Copy(ctx context.Context) error {
	if err := c.authorize(ctx, MsgLoginToCopy); err != nil {
		return err
	}

	item := c.Item()
	if item.Link == "" {
		notify.Failure(ctx, c.deps.Notifier, NoLinkMessage)
		return domain.ErrEmptyLink
	}
	if c.deps.Clipboard == nil {
		notify.Failure(ctx, c.deps.Notifier, MsgCopyFailed)
		return fmt.Errorf("failed to copy link: no clipboard configured")
	}
	if err := c.deps.Clipboard.WriteText(ctx, item.Link); err != nil {
		notify.Failure(ctx, c.deps.Notifier, MsgCopyFailed)
		return fmt.Errorf("failed to copy link: %w", err)
	}

	notify.Success(ctx, c.deps.Notifier, MsgCopied)
	return nil
}

// Share publishes the item through the backend and returns the share hash.
func (c *Card) Share(ctx context.Context) (domain.ShareResult, error) {
	if err := c.authorize(ctx, MsgLoginToShare); err != nil {
		return domain.ShareResult{}, err
	}

	item := c.Item()
	res, err := c.deps.Backend.ShareContent(ctx, item.ID)
	if err != nil {
		c.deps.Logger.Warn("share failed", logger.String("id", item.ID), logger.Error(err))
		notify.Failure(ctx, c.deps.Notifier, MsgShareFailed)
		return domain.ShareResult{}, err
	}

	msg := res.Message
	if msg == "" {
		msg = MsgShared
	}
	notify.Success(ctx, c.deps.Notifier, msg)
	return res, nil
}

// Delete removes the item from the backend.
func (c *Card) Delete(ctx context.Context) error {
	if err := c.authorize(ctx, MsgLoginToDelete); err != nil {
		return err
	}

	item := c.Item()
	if err := c.deps.Backend.DeleteContent(ctx, item.ID); err != nil {
		c.deps.Logger.Warn("delete failed", logger.String("id", item.ID), logger.Error(err))
		notify.Failure(ctx, c.deps.Notifier, MsgDeleteFailed)
		return err
	}

	notify.Success(ctx, c.deps.Notifier, MsgDeleted)
	return nil
}
