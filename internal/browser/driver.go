package browser

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout reports that a bounded DOM wait expired. Callers use it to
// tell "page never reached the expected state" from other failures.
var ErrWaitTimeout = errors.New("wait timed out")

// Driver is the page-automation surface the pipeline consumes. Elements are
// addressed as (selector, index) into the document's query order, which is
// also the display order the schedule preserves.
type Driver interface {
	// Navigate loads a URL and waits for the navigation to commit.
	Navigate(ctx context.Context, url string) error

	// WaitVisible blocks until the selector matches a visible element or the
	// timeout expires, in which case the error wraps ErrWaitTimeout.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Count returns how many elements match the selector.
	Count(ctx context.Context, selector string) (int, error)

	// OuterHTML returns the outer HTML of the index-th match of selector,
	// or "" when there is no such element.
	OuterHTML(ctx context.Context, selector string, index int) (string, error)

	// Click clicks the index-th match of selector.
	Click(ctx context.Context, selector string, index int) error

	// ClickIn clicks the first match of inner scoped to the index-th match
	// of selector.
	ClickIn(ctx context.Context, selector string, index int, inner string) error

	// Screenshot captures the full page to a PNG file.
	Screenshot(ctx context.Context, path string) error
}
