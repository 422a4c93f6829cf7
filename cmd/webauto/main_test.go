package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/luispater/webAutomationUtils/scrape"
)

func TestBuildReport(t *testing.T) {
	report, err := buildReport(
		"https://example.com",
		"Example Domain",
		[]string{"Example Domain"},
		[]scrape.Link{{Text: "More", Href: "https://iana.org"}},
	)
	require.NoError(t, err)
	require.True(t, gjson.Valid(report))

	assert.Equal(t, "https://example.com", gjson.Get(report, "url").String())
	assert.Equal(t, "Example Domain", gjson.Get(report, "title").String())
	assert.Equal(t, "Example Domain", gjson.Get(report, "headings.0").String())
	assert.Equal(t, "More", gjson.Get(report, "links.0.text").String())
	assert.Equal(t, "https://iana.org", gjson.Get(report, "links.0.href").String())
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := "headless: true\nundetected: true\nuser-agent: CustomUA/1.0\ntimeout-seconds: 5\ninterval-ms: 100\nlog-level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	cfg := profile.SessionConfig()
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.UseUndetectedMode)
	assert.Equal(t, "CustomUA/1.0", cfg.UserAgent)
	assert.Equal(t, 5*time.Second, profile.timeout())
	assert.Equal(t, 100*time.Millisecond, profile.interval())
}

func TestLoadProfileEmptyPath(t *testing.T) {
	profile, err := LoadProfile("")
	require.NoError(t, err)
	assert.False(t, profile.Headless)
	assert.Zero(t, profile.timeout())
}
