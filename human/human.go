// Package human paces driver actions the way a person would: randomized
// bounded pauses, per-key typing jitter, incremental scrolling and small
// mouse drifts. All bounds are empirical tuning knobs with package defaults;
// override them on the Pauser when a target needs different rhythm.
package human

import (
	"context"
	"math/rand"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// Handle is the slice of the session the pacing helpers need.
// *session.Session satisfies it.
type Handle interface {
	Context() context.Context
}

// Typer is anything keys can be sent to, usually an *element.Ref.
type Typer interface {
	SendKeys(keys string) error
}

// Clicker is anything that can be clicked, usually an *element.Ref.
type Clicker interface {
	Click(timeout time.Duration) error
}

// Default pacing bounds. Applied wherever the Pauser leaves a field zero.
const (
	DefaultMinDelay       = 100 * time.Millisecond
	DefaultMaxDelay       = 500 * time.Millisecond
	DefaultMinKeyDelay    = 50 * time.Millisecond
	DefaultMaxKeyDelay    = 200 * time.Millisecond
	DefaultMinScrolls     = 1
	DefaultMaxScrolls     = 3
	DefaultMinScrollPause = 1 * time.Second
	DefaultMaxScrollPause = 3 * time.Second
	DefaultMinActionGap   = 200 * time.Millisecond
)

// sleep is swapped out by tests.
var sleep = time.Sleep

// Pauser generates human-paced delays and carries out paced interactions.
// The zero value uses the package defaults. A Pauser is not safe for
// concurrent use; it tracks the time of its last click.
type Pauser struct {
	MinDelay       time.Duration
	MaxDelay       time.Duration
	MinKeyDelay    time.Duration
	MaxKeyDelay    time.Duration
	MinScrolls     int
	MaxScrolls     int
	MinScrollPause time.Duration
	MaxScrollPause time.Duration
	// MinActionGap is the minimum spacing between two clicks.
	MinActionGap time.Duration

	// Rand is the randomness source. Nil means the shared package source.
	Rand *rand.Rand

	lastClick time.Time
}

func (p *Pauser) intn(n int) int {
	if n <= 0 {
		return 0
	}
	if p.Rand != nil {
		return p.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// durBetween picks a uniform duration in [min, max]. Inverted or missing
// bounds collapse to min.
func (p *Pauser) durBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(p.intn(int(max-min)+1))
}

func (p *Pauser) countBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + p.intn(max-min+1)
}

func (p *Pauser) delayBounds() (time.Duration, time.Duration) {
	min, max := p.MinDelay, p.MaxDelay
	if min <= 0 {
		min = DefaultMinDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}
	return min, max
}

func (p *Pauser) keyBounds() (time.Duration, time.Duration) {
	min, max := p.MinKeyDelay, p.MaxKeyDelay
	if min <= 0 {
		min = DefaultMinKeyDelay
	}
	if max <= 0 {
		max = DefaultMaxKeyDelay
	}
	return min, max
}

func (p *Pauser) scrollBounds() (int, int, time.Duration, time.Duration) {
	minN, maxN := p.MinScrolls, p.MaxScrolls
	if minN <= 0 {
		minN = DefaultMinScrolls
	}
	if maxN <= 0 {
		maxN = DefaultMaxScrolls
	}
	minP, maxP := p.MinScrollPause, p.MaxScrollPause
	if minP <= 0 {
		minP = DefaultMinScrollPause
	}
	if maxP <= 0 {
		maxP = DefaultMaxScrollPause
	}
	return minN, maxN, minP, maxP
}

func (p *Pauser) actionGap() time.Duration {
	if p.MinActionGap > 0 {
		return p.MinActionGap
	}
	return DefaultMinActionGap
}

// Delay sleeps for a random duration within the pause bounds.
func (p *Pauser) Delay() {
	min, max := p.delayBounds()
	sleep(p.durBetween(min, max))
}

// TypeKeys types text into the element one rune at a time with a random
// delay between keystrokes. Driver failures (staleness, navigation) pass
// through untranslated.
func (p *Pauser) TypeKeys(ref Typer, text string) error {
	min, max := p.keyBounds()
	for _, r := range text {
		if err := ref.SendKeys(string(r)); err != nil {
			return err
		}
		sleep(p.durBetween(min, max))
	}
	return nil
}

// Click enforces the minimum gap since the previous click, then clicks the
// element the same way a paced user would.
func (p *Pauser) Click(ref Clicker, timeout time.Duration) error {
	if gap := p.actionGap(); time.Since(p.lastClick) < gap {
		log.Debugf("Click too fast, wait for %s", gap)
		sleep(gap)
	}
	p.lastClick = time.Now()
	return ref.Click(timeout)
}

// ScrollRandomly scrolls down by a viewport height a random number of times,
// pausing between scrolls.
func (p *Pauser) ScrollRandomly(s Handle) error {
	minN, maxN, minP, maxP := p.scrollBounds()
	n := p.countBetween(minN, maxN)
	log.Debugf("Scrolling %d time(s)", n)
	for i := 0; i < n; i++ {
		err := chromedp.Run(s.Context(),
			chromedp.Evaluate(`window.scrollBy(0, window.innerHeight);`, nil))
		if err != nil {
			return err
		}
		sleep(p.durBetween(minP, maxP))
	}
	return nil
}

// MoveMouseRandomly drifts the pointer by a random offset bounded to a
// quarter of the viewport in each direction, clamped to the window.
func (p *Pauser) MoveMouseRandomly(s Handle) error {
	var metrics struct {
		Width   float64 `json:"width"`
		Height  float64 `json:"height"`
		ScrollX float64 `json:"scrollX"`
		ScrollY float64 `json:"scrollY"`
	}
	err := chromedp.Run(s.Context(), chromedp.Evaluate(
		`({width: window.innerWidth, height: window.innerHeight, scrollX: window.scrollX, scrollY: window.scrollY})`,
		&metrics))
	if err != nil {
		return err
	}

	x, y := randomPointerTarget(metrics.Width, metrics.Height, metrics.ScrollX, metrics.ScrollY, p.intn)

	err = chromedp.Run(s.Context(), chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
	if err != nil {
		log.Errorf("Random mouse move failed: %v", err)
		return err
	}
	p.Delay()
	return nil
}

// randomPointerTarget picks an offset within +-1/4 of the viewport from the
// current position and clamps the result to the window bounds.
func randomPointerTarget(width, height, curX, curY float64, intn func(int) int) (float64, float64) {
	spanX := int(width / 4)
	spanY := int(height / 4)
	var dx, dy float64
	if spanX > 0 {
		dx = float64(intn(2*spanX+1) - spanX)
	}
	if spanY > 0 {
		dy = float64(intn(2*spanY+1) - spanY)
	}
	x := clamp(curX+dx, 0, width-1)
	y := clamp(curY+dy, 0, height-1)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MimicOptions selects what MimicHuman does besides sleeping.
type MimicOptions struct {
	// MinSleep and MaxSleep bound the main pause. Zero means 2s to 5s.
	MinSleep time.Duration
	MaxSleep time.Duration
	// Scroll performs a small random scroll after the pause.
	Scroll bool
	// MouseMove performs a small random mouse drift after the pause.
	MouseMove bool
	// Quiet suppresses the plan log line.
	Quiet bool
}

func (o MimicOptions) sleepBounds() (time.Duration, time.Duration) {
	min, max := o.MinSleep, o.MaxSleep
	if min <= 0 {
		min = 2 * time.Second
	}
	if max <= 0 {
		max = 5 * time.Second
	}
	return min, max
}

// MimicHuman pauses and optionally scrolls or moves the mouse. Scroll and
// mouse failures are logged, not returned; a page that navigated mid-drift
// should not abort the caller's flow.
func (p *Pauser) MimicHuman(s Handle, opts MimicOptions) {
	min, max := opts.sleepBounds()
	pause := p.durBetween(min, max)

	if !opts.Quiet {
		plan := "sleep " + pause.String()
		if opts.Scroll {
			plan += ", scroll"
		}
		if opts.MouseMove {
			plan += ", mouse move"
		}
		log.Infof("Mimic human: %s", plan)
	}

	sleep(pause)

	if opts.Scroll {
		if err := p.ScrollRandomly(s); err != nil {
			log.Warnf("Mimic human scroll failed: %v", err)
		}
	}
	if opts.MouseMove {
		if err := p.MoveMouseRandomly(s); err != nil {
			log.Warnf("Mimic human mouse move failed: %v", err)
		}
	}
}
