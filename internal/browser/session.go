package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	cdpstorage "github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/config"
)

// sessionState is the on-disk session format: the cookies captured after a
// manual login, analogous to a saved browser profile.
type sessionState struct {
	SavedAt time.Time         `json:"saved_at"`
	Cookies []*network.Cookie `json:"cookies"`
}

// Session owns one headless-or-headful Chrome instance and its persisted
// login state. One Session serves a whole run: the page is a single shared
// surface, so callers operate on it strictly sequentially.
type Session struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	stateFile  string
}

// NewSession starts Chrome with the usual scraping flags. The caller must
// Close the session to release the browser.
func NewSession(cfg *config.BrowserConfig, stateFile string) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Force the browser to start now so a broken Chrome install fails fast.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
		stateFile:  stateFile,
	}, nil
}

// Driver returns the page-automation surface bound to this session's tab.
func (s *Session) Driver() Driver {
	return &chromeDriver{ctx: s.browserCtx}
}

// HasState reports whether a non-empty state file exists.
func (s *Session) HasState() bool {
	info, err := os.Stat(s.stateFile)
	return err == nil && info.Size() > 0
}

// RestoreState loads the persisted cookies into the browser. Call before
// navigating to the pool page.
func (s *Session) RestoreState(ctx context.Context) error {
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		return fmt.Errorf("failed to read session state %s: %w", s.stateFile, err)
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse session state %s: %w", s.stateFile, err)
	}
	if len(state.Cookies) == 0 {
		return fmt.Errorf("session state %s contains no cookies", s.stateFile)
	}

	params := make([]*network.CookieParam, 0, len(state.Cookies))
	for _, c := range state.Cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
		}
		if !c.Session && c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &expires
		}
		params = append(params, p)
	}

	err = chromedp.Run(s.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdpstorage.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to restore cookies: %w", err)
	}

	slog.Info("Session state restored", "path", s.stateFile, "cookies", len(params), "saved_at", state.SavedAt.Format(time.RFC3339))
	return nil
}

// SaveState captures the browser's cookies to the state file.
func (s *Session) SaveState(ctx context.Context) error {
	var cookies []*network.Cookie
	err := chromedp.Run(s.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = cdpstorage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	state := sessionState{SavedAt: time.Now(), Cookies: cookies}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.WriteFile(s.stateFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session state %s: %w", s.stateFile, err)
	}

	slog.Info("Session state saved", "path", s.stateFile, "cookies", len(cookies))
	return nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}
