// Package element locates page elements with bounded polling. Page state is
// asynchronous and only observable by asking, so Find blocks the calling
// flow and re-checks the DOM at a fixed interval until the element shows up
// or the timeout elapses.
package element

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// Handle is the slice of the session the locator needs: the browser context
// driver calls run against. Handle satisfies it.
type Handle interface {
	Context() context.Context
}

// By selects the selector dialect.
type By int

const (
	// ByQuery treats the selector as a CSS query. This is the default.
	ByQuery By = iota
	// ByXPath treats the selector as an XPath expression.
	ByXPath
)

func (b By) String() string {
	if b == ByXPath {
		return "xpath"
	}
	return "css"
}

func (b By) queryOption() chromedp.QueryOption {
	if b == ByXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQueryAll
}

// TextSelector builds an XPath expression matching a tag by its text, for
// use with ByXPath. With anywhereInclChildren the text may appear anywhere
// inside the element, otherwise only in its direct text nodes.
func TextSelector(tag, text string, anywhereInclChildren bool) string {
	if anywhereInclChildren {
		return fmt.Sprintf("//%s[contains(., '%s')]", tag, text)
	}
	return fmt.Sprintf("//%s[contains(text(), '%s')]", tag, text)
}

// Options bounds the polling loop.
type Options struct {
	// Timeout is the maximum total wait. Zero means DefaultTimeout.
	Timeout time.Duration
	// Interval is the polling interval. Zero means DefaultInterval.
	Interval time.Duration
}

const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 250 * time.Millisecond
)

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

func (o Options) interval() time.Duration {
	if o.Interval > 0 {
		return o.Interval
	}
	return DefaultInterval
}

// NotFoundError reports that the polling loop exhausted its timeout without
// a match. The helper never retries past this point; retry policy belongs to
// the caller.
type NotFoundError struct {
	Selector string
	By       By
	Timeout  time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element '%s' (%s) not found within %s", e.Selector, e.By, e.Timeout)
}

// Hooks for the driver boundary, swapped out by tests.
var (
	countNodes = func(ctx context.Context, selector string, by By) (int, error) {
		var nodes []*cdp.Node
		err := chromedp.Run(ctx, chromedp.Nodes(selector, &nodes, by.queryOption(), chromedp.AtLeast(0)))
		return len(nodes), err
	}
	sleep = time.Sleep
)

// Find polls for the first element matching selector and returns a reference
// to it. It returns as soon as the element is present, and fails with a
// *NotFoundError only once at least the configured timeout has elapsed.
// Driver failures during a poll are passed through untranslated.
func Find(s Handle, selector string, by By, opts Options) (*Ref, error) {
	timeout := opts.timeout()
	interval := opts.interval()
	deadline := time.Now().Add(timeout)

	log.Debugf("Waiting for element '%s' (%s), timeout %s, interval %s", selector, by, timeout, interval)
	for {
		n, err := countNodes(s.Context(), selector, by)
		if err != nil {
			return nil, fmt.Errorf("error polling for element '%s': %w", selector, err)
		}
		if n > 0 {
			log.Debugf("Element '%s' present (%d match(es)).", selector, n)
			return &Ref{sess: s, Selector: selector, By: by}, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &NotFoundError{Selector: selector, By: by, Timeout: timeout}
		}
		if remaining < interval {
			sleep(remaining)
		} else {
			sleep(interval)
		}
	}
}

// FindAll waits like Find and then returns one reference per match, indexed
// into the matching node list at the time of the poll.
func FindAll(s Handle, selector string, by By, opts Options) ([]*Ref, error) {
	first, err := Find(s, selector, by, opts)
	if err != nil {
		return nil, err
	}
	n, err := countNodes(s.Context(), selector, by)
	if err != nil {
		return nil, fmt.Errorf("error counting elements with selector '%s': %w", selector, err)
	}
	refs := make([]*Ref, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, &Ref{sess: first.sess, Selector: selector, By: by, Index: i})
	}
	return refs, nil
}

// UntilNone yields a fresh reference for xpath until a lookup times out,
// mirroring the "click it until it disappears" pattern. The terminating
// miss is logged, not returned.
func UntilNone(s Handle, xpath string, opts Options) func(yield func(*Ref) bool) {
	return func(yield func(*Ref) bool) {
		for {
			ref, err := Find(s, xpath, ByXPath, opts)
			if err != nil {
				log.Warnf("No longer able to find element with xpath '%s': %v", xpath, err)
				return
			}
			if !yield(ref) {
				return
			}
		}
	}
}
