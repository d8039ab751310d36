package ui

import (
	"fmt"
	"strings"
	"time"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorBright = 255 // white
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
	colorSize   = 80  // cyan
)

// ListTimeLayout is the timestamp layout of the detailed listing.
const ListTimeLayout = "2006-01-02 15:04"

var noColor bool

func paint(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return paint(colorCmd, s) }

// RenderPath renders a '/'-separated relative path with the directory part
// muted and the file name bright.
func RenderPath(rel string) string {
	i := strings.LastIndex(rel, "/")
	if i < 0 {
		return paint(colorBright, rel)
	}
	return paint(colorMuted, rel[:i+1]) + paint(colorBright, rel[i+1:])
}

// RenderListPrefix renders the "modified  size  " columns of the detailed
// listing.
func RenderListPrefix(modified time.Time, size int64) string {
	return paint(colorMuted, modified.Local().Format(ListTimeLayout)) + "  " +
		paint(colorSize, fmt.Sprintf("%8s", FormatSize(size))) + "  "
}

// FormatSize renders a byte count with one decimal in the largest binary
// unit that fits, or as plain bytes below 1 KB.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fGB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%dbyte", n)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
