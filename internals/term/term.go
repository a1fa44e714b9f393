// Package term detects OSC 8 hyperlink support so the CLI can print the
// kanban board URL as a clickable link.
package term

import "os"

var hyperlinkVars = []string{
	"WT_SESSION",
	"VTE_VERSION",
	"KONSOLE_VERSION",
	"KITTY_WINDOW_ID",
	"WEZTERM_EXECUTABLE",
	"DOMTERM",
	"TERM_PROGRAM",
}

func SupportsHyperlinks() bool {
	switch os.Getenv("TERM") {
	case "", "dumb", "alacritty":
		return false
	}
	for _, key := range hyperlinkVars {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ClickableLink wraps label in an OSC 8 escape pointing at url when the
// terminal supports it, and falls back to the plain label otherwise.
func ClickableLink(label string, url string) string {
	if url == "" {
		return label
	}
	if label == "" {
		label = url
	}
	if !SupportsHyperlinks() {
		return label
	}
	return "\x1b]8;;" + url + "\x1b\\" + label + "\x1b]8;;\x1b\\"
}
