package element

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// Ref is a located element reference. It stays valid only while its owning
// session is alive and the page has not navigated away; staleness surfaces
// as pass-through driver errors from the methods below.
type Ref struct {
	sess     Handle
	Selector string
	By       By
	// Index distinguishes siblings returned by FindAll. Only the first
	// match is addressed by the driver calls; callers needing a specific
	// sibling should narrow the selector instead.
	Index int
}

// Context returns the owning session's browser context.
func (r *Ref) Context() context.Context {
	return r.sess.Context()
}

// Session returns the owning session handle.
func (r *Ref) Session() Handle {
	return r.sess
}

func (r *Ref) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx := r.sess.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(ctx, actions...)
}

// Click waits for the element to be visible and clicks it.
func (r *Ref) Click(timeout time.Duration) error {
	log.Debugf("Attempting to find and click element with selector: %s", r.Selector)
	err := r.run(timeout,
		chromedp.WaitVisible(r.Selector, r.By.queryOption()),
		chromedp.Click(r.Selector, r.By.queryOption()),
	)
	if err != nil {
		var currentURL string
		// Best effort to get URL for error context
		_ = chromedp.Run(r.sess.Context(), chromedp.Location(&currentURL))
		return fmt.Errorf("error clicking element '%s' on page %s: %w", r.Selector, currentURL, err)
	}
	log.Debugf("Successfully clicked element '%s'.", r.Selector)
	return nil
}

// Text returns the visible text of the element.
func (r *Ref) Text() (string, error) {
	var out string
	if err := r.run(0, chromedp.Text(r.Selector, &out, r.By.queryOption())); err != nil {
		return "", fmt.Errorf("error reading text of element '%s': %w", r.Selector, err)
	}
	return out, nil
}

// Attribute returns the value of the named attribute and whether it is set.
func (r *Ref) Attribute(name string) (string, bool, error) {
	var value string
	var ok bool
	if err := r.run(0, chromedp.AttributeValue(r.Selector, name, &value, &ok, r.By.queryOption())); err != nil {
		return "", false, fmt.Errorf("error reading attribute '%s' of element '%s': %w", name, r.Selector, err)
	}
	return value, ok, nil
}

// SendKeys dispatches keys to the element without any pacing. Use the human
// package for paced typing.
func (r *Ref) SendKeys(keys string) error {
	if err := r.run(0, chromedp.SendKeys(r.Selector, keys, r.By.queryOption())); err != nil {
		return fmt.Errorf("error sending keys to element '%s': %w", r.Selector, err)
	}
	return nil
}

// ScrollIntoView scrolls the element into the viewport.
func (r *Ref) ScrollIntoView() error {
	if err := r.run(0, chromedp.ScrollIntoView(r.Selector, r.By.queryOption())); err != nil {
		return fmt.Errorf("error scrolling element '%s' into view: %w", r.Selector, err)
	}
	return nil
}
