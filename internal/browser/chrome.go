package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Ensure chromeDriver implements Driver.
var _ Driver = (*chromeDriver)(nil)

// chromeDriver drives a single Chrome tab owned by a Session. Indexed
// element operations go through querySelectorAll so the index space matches
// document order exactly.
type chromeDriver struct {
	ctx context.Context
}

func (d *chromeDriver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Actions must run on the session context, which carries the chromedp
	// target, but the caller's ctx still has to interrupt them mid-flight.
	runCtx, cancel := mergeCancel(d.ctx, ctx)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}
	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return err
}

// mergeCancel derives a context from parent that is additionally cancelled
// when other is done. The returned cancel releases the link.
func mergeCancel(parent, other context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(other, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, 0, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (d *chromeDriver) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	err := d.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("wait for %q after %s: %w", selector, timeout, ErrWaitTimeout)
		}
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (d *chromeDriver) Count(ctx context.Context, selector string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := d.run(ctx, 0, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return n, nil
}

func (d *chromeDriver) OuterHTML(ctx context.Context, selector string, index int) (string, error) {
	var html string
	js := fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%q)[%d];
		return el ? el.outerHTML : "";
	})()`, selector, index)
	if err := d.run(ctx, 0, chromedp.Evaluate(js, &html)); err != nil {
		return "", fmt.Errorf("outer html of %q[%d]: %w", selector, index, err)
	}
	return html, nil
}

func (d *chromeDriver) Click(ctx context.Context, selector string, index int) error {
	var clicked bool
	js := fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%q)[%d];
		if (!el) return false;
		el.click();
		return true;
	})()`, selector, index)
	if err := d.run(ctx, 0, chromedp.Evaluate(js, &clicked)); err != nil {
		return fmt.Errorf("click %q[%d]: %w", selector, index, err)
	}
	if !clicked {
		return fmt.Errorf("click %q[%d]: element not found", selector, index)
	}
	return nil
}

func (d *chromeDriver) ClickIn(ctx context.Context, selector string, index int, inner string) error {
	var clicked bool
	js := fmt.Sprintf(`(() => {
		const scope = document.querySelectorAll(%q)[%d];
		if (!scope) return false;
		const el = scope.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector, index, inner)
	if err := d.run(ctx, 0, chromedp.Evaluate(js, &clicked)); err != nil {
		return fmt.Errorf("click %q within %q[%d]: %w", inner, selector, index, err)
	}
	if !clicked {
		return fmt.Errorf("click %q within %q[%d]: element not found", inner, selector, index)
	}
	return nil
}

func (d *chromeDriver) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := d.run(ctx, 0, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write screenshot %s: %w", path, err)
	}
	return nil
}
