package entity

import "fmt"

// BrowserKind names a browser engine usable by the rendered extractor.
type BrowserKind string

const (
	BrowserChrome   BrowserKind = "chrome"   // chromedp
	BrowserChromium BrowserKind = "chromium" // go-rod
)

// SupportedBrowsers lists every engine the rendered extractor can start.
var SupportedBrowsers = []BrowserKind{BrowserChrome, BrowserChromium}

// ParseBrowserKind validates a browser name.
func ParseBrowserKind(s string) (BrowserKind, error) {
	for _, k := range SupportedBrowsers {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, s)
}

// Strategy is the extraction path chosen for a request.
type Strategy string

const (
	StrategyStatic   Strategy = "static"
	StrategyRendered Strategy = "rendered"
)
