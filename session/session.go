package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const hideWebDriverScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// StartupError reports that the underlying browser could not be launched
// (missing binary, incompatible driver version). It is surfaced immediately,
// without retry, and the partially acquired resources are already released.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("failed to launch browser: %v", e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// Session is a live browser-automation session. It owns the allocator and
// browser contexts and must not be used from more than one goroutine at a
// time; independent Sessions are fully isolated browser processes.
type Session struct {
	id            string
	userAgent     string
	navTimeout    time.Duration
	allocator     context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Hooks for the driver boundary, swapped out by tests.
var (
	newExecAllocator  = chromedp.NewExecAllocator
	newBrowserContext = func(parent context.Context) (context.Context, context.CancelFunc) {
		return chromedp.NewContext(parent, chromedp.WithLogf(log.Debugf))
	}
	runActions = func(ctx context.Context, actions ...chromedp.Action) error {
		return chromedp.Run(ctx, actions...)
	}
)

// New launches a browser per cfg and returns the live session. The caller
// owns the handle and must Close it; prefer With for the scoped form. A
// launch failure is returned as a *StartupError with nothing left running.
func New(ctx context.Context, cfg Config) (*Session, error) {
	ua := cfg.pickUserAgent()

	allocCtx, allocCancel := newExecAllocator(ctx, allocatorOptions(&cfg, ua)...)
	browserCtx, browserCancel := newBrowserContext(allocCtx)

	s := &Session{
		id:            uuid.NewString(),
		userAgent:     ua,
		navTimeout:    cfg.navigationTimeout(),
		allocator:     allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}

	if err := runActions(browserCtx, startupActions(&cfg)...); err != nil {
		_ = s.Close()
		return nil, &StartupError{Err: err}
	}

	attachEventLog(s)
	log.WithField("session", s.id).Infof("Browser session started (headless=%v, undetected=%v, mobile=%v)",
		headlessRequested(&cfg), cfg.UseUndetectedMode, cfg.MobileEmulation)
	return s, nil
}

// With runs fn against a freshly launched session and always releases the
// browser when fn returns, fails, or panics.
func With(ctx context.Context, cfg Config, fn func(*Session) error) error {
	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()
	return fn(s)
}

// ID returns the session identifier used in log fields.
func (s *Session) ID() string {
	return s.id
}

// UserAgent returns the effective user agent of this session.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// Context returns the browser context all driver operations run against.
func (s *Session) Context() context.Context {
	return s.browserCtx
}

// Navigate opens url in the session's page, bounded by the configured
// navigation timeout.
func (s *Session) Navigate(url string) error {
	if s.browserCtx == nil {
		return fmt.Errorf("session already closed")
	}
	log.WithField("session", s.id).Debugf("Navigating to %s", url)
	opCtx, cancel := context.WithTimeout(s.browserCtx, s.navTimeout)
	defer cancel()
	if err := runActions(opCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("error navigating to '%s': %w", url, err)
	}
	return nil
}

// Close shuts the browser down and releases the underlying process. It is
// idempotent and safe to call after a failed launch.
func (s *Session) Close() error {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
		s.browserCtx = nil
		log.WithField("session", s.id).Debug("Browser context cancelled.")
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
		s.allocator = nil
		log.WithField("session", s.id).Info("Browser session closed and process shut down.")
	}
	return nil
}

func headlessRequested(cfg *Config) bool {
	return cfg.Headless || os.Getenv("CI") != ""
}

func allocatorOptions(cfg *Config, ua string) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserAgent(ua),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("silent", true),
	}

	if cfg.UseUndetectedMode {
		opts = append(opts,
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("enable-automation", false),
			chromedp.Flag("fingerprint", "1000"),
		)
	} else if cfg.hideWebDriver() {
		opts = append(opts, chromedp.Flag("disable-blink-features", "AutomationControlled"))
	}

	execPath := cfg.ExecPath
	if execPath == "" {
		execPath = os.Getenv("CHROME_BIN")
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	if cfg.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(cfg.Proxy))
	}

	if headlessRequested(cfg) {
		w, h := cfg.windowSize()
		opts = append(opts,
			chromedp.Flag("headless", "new"),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(w, h),
		)
	} else if cfg.GuestProfile {
		opts = append(opts, chromedp.Flag("guest", true))
	} else if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}

	if len(cfg.Extensions) > 0 {
		opts = append(opts, chromedp.Flag("load-extension", strings.Join(cfg.Extensions, ",")))
	}

	return opts
}

// startupActions is handed to the first Run on the fresh browser context,
// the call that actually launches the process.
func startupActions(cfg *Config) []chromedp.Action {
	var actions []chromedp.Action

	if cfg.hideWebDriver() {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hideWebDriverScript).Do(ctx)
			return err
		}))
	}

	if cfg.MobileEmulation {
		actions = append(actions,
			emulation.SetDeviceMetricsOverride(360, 740, 4, true),
			emulation.SetUserAgentOverride(mobileUserAgent),
		)
	}

	if cfg.DownloadDir != "" {
		actions = append(actions, browser.
			SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(cfg.DownloadDir))
	}

	return actions
}
