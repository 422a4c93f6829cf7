package session

// A small pool of common desktop user agents presented when the caller does
// not supply one. The table is never mutated; UserAgents returns a copy.
var userAgents = [...]string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.5790.170 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36",
}

// mobileUserAgent is applied together with the mobile device metrics when
// mobile emulation is enabled.
const mobileUserAgent = "Mozilla/5.0 (Linux; Android 7.0; SM-G950U; wv) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 " +
	"Chrome/90.0.4430.91 Mobile Safari/537.36"

// UserAgents returns the built-in user agent pool.
func UserAgents() []string {
	out := make([]string, len(userAgents))
	copy(out, userAgents[:])
	return out
}
