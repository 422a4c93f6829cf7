package main

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/luispater/webAutomationUtils/session"
)

// Profile is the yaml-backed launch profile for the demo commands. The
// library itself is configured through parameters only; the profile file is
// a convenience of this binary.
type Profile struct {
	Headless        bool   `yaml:"headless"`
	Undetected      bool   `yaml:"undetected"`
	MobileEmulation bool   `yaml:"mobile-emulation"`
	UserAgent       string `yaml:"user-agent,omitempty"`
	Proxy           string `yaml:"proxy,omitempty"`
	ExecPath        string `yaml:"exec-path,omitempty"`
	UserDataDir     string `yaml:"user-data-dir,omitempty"`
	DownloadDir     string `yaml:"download-dir,omitempty"`
	TimeoutSeconds  int    `yaml:"timeout-seconds,omitempty"`
	IntervalMs      int    `yaml:"interval-ms,omitempty"`
	LogLevel        string `yaml:"log-level,omitempty"`
}

// LoadProfile reads the profile file. A missing path yields the zero
// profile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err = yaml.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SessionConfig maps the profile onto the library configuration.
func (p *Profile) SessionConfig() session.Config {
	return session.Config{
		Headless:          p.Headless,
		UseUndetectedMode: p.Undetected,
		MobileEmulation:   p.MobileEmulation,
		UserAgent:         p.UserAgent,
		Proxy:             p.Proxy,
		ExecPath:          p.ExecPath,
		UserDataDir:       p.UserDataDir,
		DownloadDir:       p.DownloadDir,
	}
}

func (p *Profile) timeout() time.Duration {
	if p.TimeoutSeconds > 0 {
		return time.Duration(p.TimeoutSeconds) * time.Second
	}
	return 0
}

func (p *Profile) interval() time.Duration {
	if p.IntervalMs > 0 {
		return time.Duration(p.IntervalMs) * time.Millisecond
	}
	return 0
}
