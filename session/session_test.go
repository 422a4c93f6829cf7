package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driverRecorder fakes the chromedp boundary and records every release so
// the guaranteed-cleanup contract can be asserted without a browser.
type driverRecorder struct {
	allocCancelled   int
	browserCancelled int
	launches         int
	launchErr        error
}

func stubDriver(t *testing.T, rec *driverRecorder) {
	t.Helper()
	origAlloc, origBrowser, origRun := newExecAllocator, newBrowserContext, runActions
	t.Cleanup(func() {
		newExecAllocator, newBrowserContext, runActions = origAlloc, origBrowser, origRun
	})
	newExecAllocator = func(parent context.Context, opts ...chromedp.ExecAllocatorOption) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		return ctx, func() {
			rec.allocCancelled++
			cancel()
		}
	}
	newBrowserContext = func(parent context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		return ctx, func() {
			rec.browserCancelled++
			cancel()
		}
	}
	runActions = func(ctx context.Context, actions ...chromedp.Action) error {
		rec.launches++
		return rec.launchErr
	}
}

func TestPickUserAgentRandomFromPool(t *testing.T) {
	pool := UserAgents()
	for seed := int64(0); seed < 10; seed++ {
		cfg := Config{Rand: rand.New(rand.NewSource(seed))}
		assert.Contains(t, pool, cfg.pickUserAgent())
	}
}

func TestPickUserAgentExplicit(t *testing.T) {
	cfg := Config{UserAgent: "CustomUA/1.0"}
	assert.Equal(t, "CustomUA/1.0", cfg.pickUserAgent())
}

func TestUserAgentsCopyIsIsolated(t *testing.T) {
	first := UserAgents()
	first[0] = "mutated"
	assert.NotEqual(t, "mutated", UserAgents()[0])
}

func TestNewSessionUserAgentFromPool(t *testing.T) {
	rec := &driverRecorder{}
	stubDriver(t, rec)

	s, err := New(context.Background(), Config{Rand: rand.New(rand.NewSource(1))})
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	assert.Contains(t, UserAgents(), s.UserAgent())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, rec.launches)
}

func TestNewSessionStartupFailureReleasesEverything(t *testing.T) {
	rec := &driverRecorder{launchErr: errors.New("exec: chrome not found")}
	stubDriver(t, rec)

	s, err := New(context.Background(), Config{})
	require.Nil(t, s)
	require.Error(t, err)

	var startupErr *StartupError
	require.ErrorAs(t, err, &startupErr)
	assert.Equal(t, 1, rec.allocCancelled)
	assert.Equal(t, 1, rec.browserCancelled)
}

func TestWithReleasesOnBlockError(t *testing.T) {
	rec := &driverRecorder{}
	stubDriver(t, rec)

	blockErr := errors.New("block failed")
	err := With(context.Background(), Config{}, func(s *Session) error {
		return blockErr
	})
	assert.ErrorIs(t, err, blockErr)
	assert.Equal(t, 1, rec.allocCancelled)
	assert.Equal(t, 1, rec.browserCancelled)
}

func TestWithReleasesOnPanic(t *testing.T) {
	rec := &driverRecorder{}
	stubDriver(t, rec)

	require.Panics(t, func() {
		_ = With(context.Background(), Config{}, func(s *Session) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, rec.allocCancelled)
	assert.Equal(t, 1, rec.browserCancelled)
}

func TestCloseIsIdempotent(t *testing.T) {
	rec := &driverRecorder{}
	stubDriver(t, rec)

	s, err := New(context.Background(), Config{})
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, rec.allocCancelled)
	assert.Equal(t, 1, rec.browserCancelled)
}

func TestHideWebDriverDefaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"standard mode defaults on", Config{}, true},
		{"undetected mode handles it itself", Config{UseUndetectedMode: true}, false},
		{"explicit off", Config{HideWebDriver: Bool(false)}, false},
		{"explicit on", Config{HideWebDriver: Bool(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.hideWebDriver())
		})
	}
}

func TestHeadlessForcedInCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, headlessRequested(&Config{}))

	t.Setenv("CI", "")
	assert.False(t, headlessRequested(&Config{}))
	assert.True(t, headlessRequested(&Config{Headless: true}))
}

func TestStartupActionsMobileEmulation(t *testing.T) {
	plain := startupActions(&Config{HideWebDriver: Bool(false)})
	mobile := startupActions(&Config{HideWebDriver: Bool(false), MobileEmulation: true})
	assert.Len(t, plain, 0)
	assert.Len(t, mobile, 2)
}
