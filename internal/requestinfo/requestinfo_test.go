// internal/requestinfo/requestinfo_test.go
//
// UA parsing through uasurfer, plus the small pure helpers around it.

package requestinfo

import (
	"strings"
	"testing"

	"github.com/avct/uasurfer"
)

const chromeOnWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.6367.60 Safari/537.36"

func TestParseUA_DesktopChrome(t *testing.T) {
	ua := parseUA(chromeOnWindows, "en-US,en;q=0.9")

	if ua.Browser != "Chrome" {
		t.Errorf("Browser = %q, want Chrome", ua.Browser)
	}
	if ua.OS != "Windows" {
		t.Errorf("OS = %q, want Windows", ua.OS)
	}
	if ua.Device != "Desktop" {
		t.Errorf("Device = %q, want Desktop", ua.Device)
	}
	if ua.IsBot {
		t.Error("IsBot = true for a browser UA")
	}
	if !strings.HasPrefix(ua.Version, "124") {
		t.Errorf("Version = %q, want 124.x", ua.Version)
	}
	if ua.PrimaryLang != "en-us" {
		t.Errorf("PrimaryLang = %q, want en-us", ua.PrimaryLang)
	}
	if ua.Raw != chromeOnWindows {
		t.Error("Raw header not preserved")
	}
}

func TestParseUA_Crawler(t *testing.T) {
	ua := parseUA("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "")

	if !ua.IsBot {
		t.Error("IsBot = false for Googlebot")
	}
	if ua.PrimaryLang != "" {
		t.Errorf("PrimaryLang = %q, want empty without Accept-Language", ua.PrimaryLang)
	}
}

func TestTrimVersion(t *testing.T) {
	cases := []struct {
		in   uasurfer.Version
		want string
	}{
		{uasurfer.Version{Major: 124, Minor: 0, Patch: 6367}, "124.0.6367"},
		{uasurfer.Version{Major: 10, Minor: 0, Patch: 0}, "10"},
		{uasurfer.Version{Major: 14, Minor: 5, Patch: 0}, "14.5"},
		{uasurfer.Version{}, "0"},
	}
	for _, c := range cases {
		if got := trimVersion(c.in); got != c.want {
			t.Errorf("trimVersion(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPrimaryLang(t *testing.T) {
	cases := []struct{ in, want string }{
		{"en-US,en;q=0.9", "en-us"},
		{"es", "es"},
		{"fr-CA;q=0.8, en", "fr-ca"},
		{"", ""},
	}
	for _, c := range cases {
		if got := primaryLang(c.in); got != c.want {
			t.Errorf("primaryLang(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
