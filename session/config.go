package session

import (
	"math/rand"
	"time"
)

// DefaultNavigationTimeout bounds Navigate when the Config does not override it.
const DefaultNavigationTimeout = 30 * time.Second

// Config describes how a browser session should be launched. The zero value
// is usable: a visible, standard-mode Chrome with a random user agent.
type Config struct {
	// Headless runs the browser without a visible window. It is also forced
	// when the CI environment variable is set.
	Headless bool

	// UseUndetectedMode launches the anti-detection variant: the automation
	// switches are dropped, AutomationControlled blink features are disabled
	// and the fingerprint flag is passed for fingerprint-chromium builds.
	UseUndetectedMode bool

	// MobileEmulation overrides device metrics (360x740 @4x) and presents a
	// mobile user agent.
	MobileEmulation bool

	// UserAgent, when empty, is picked uniformly at random from the
	// built-in pool.
	UserAgent string

	// Proxy routes all browser traffic through the given server URL.
	Proxy string

	// ExecPath points at the browser binary. Empty means chromedp
	// auto-detection (or the CHROME_BIN environment variable).
	ExecPath string

	// UserDataDir reuses an existing Chrome profile directory for session
	// persistence. Ignored when GuestProfile is set.
	UserDataDir string

	// GuestProfile launches Chrome in guest mode instead of loading a
	// profile.
	GuestProfile bool

	// DownloadDir is the filesystem path for automatic downloads.
	DownloadDir string

	// Extensions lists unpacked extension directories to load on startup.
	Extensions []string

	// HideWebDriver patches navigator.webdriver on every new document. On by
	// default in standard mode; the undetected variant handles this itself.
	HideWebDriver *bool

	// WindowWidth and WindowHeight set the window size in headless mode.
	// Zero means 1920x1080.
	WindowWidth  int
	WindowHeight int

	// NavigationTimeout bounds each Navigate call. Zero means
	// DefaultNavigationTimeout.
	NavigationTimeout time.Duration

	// Rand is the randomness source for the user agent pick. Nil means the
	// shared package source.
	Rand *rand.Rand
}

func (c *Config) hideWebDriver() bool {
	if c.UseUndetectedMode {
		return false
	}
	if c.HideWebDriver == nil {
		return true
	}
	return *c.HideWebDriver
}

func (c *Config) windowSize() (int, int) {
	if c.WindowWidth > 0 && c.WindowHeight > 0 {
		return c.WindowWidth, c.WindowHeight
	}
	return 1920, 1080
}

func (c *Config) navigationTimeout() time.Duration {
	if c.NavigationTimeout > 0 {
		return c.NavigationTimeout
	}
	return DefaultNavigationTimeout
}

func (c *Config) pickUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	if c.Rand != nil {
		return userAgents[c.Rand.Intn(len(userAgents))]
	}
	return userAgents[rand.Intn(len(userAgents))]
}

// Bool is a convenience for the optional boolean fields.
func Bool(v bool) *bool {
	return &v
}
