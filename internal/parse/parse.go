// Package parse converts human-friendly size and date tokens into canonical
// values for a FilterSpec.
package parse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Warning reports a token that could not be parsed. It is never fatal: the
// caller leaves the corresponding bound unset and carries on.
type Warning struct {
	Kind  string // "size" or "time"
	Token string
	Err   error
}

func (w *Warning) Error() string {
	if w.Err != nil {
		return fmt.Sprintf("could not parse %s %q: %v", w.Kind, w.Token, w.Err)
	}
	return fmt.Sprintf("could not parse %s %q", w.Kind, w.Token)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"gb", 1 << 30},
	{"mb", 1 << 20},
	{"kb", 1 << 10},
}

// Size parses tokens such as "500", "1kb", "10MB" or "2gb" into a byte count.
// Multipliers are binary.
func Size(token string) (int64, error) {
	clean := strings.ToLower(strings.TrimSpace(token))
	if clean == "" {
		return 0, &Warning{Kind: "size", Token: token}
	}

	multiplier := int64(1)
	for _, u := range sizeUnits {
		if strings.HasSuffix(clean, u.suffix) {
			multiplier = u.multiplier
			clean = strings.TrimSuffix(clean, u.suffix)
			break
		}
	}

	n, err := strconv.ParseInt(strings.TrimSpace(clean), 10, 64)
	if err != nil {
		return 0, &Warning{Kind: "size", Token: token, Err: err}
	}
	if n > math.MaxInt64/multiplier || n < math.MinInt64/multiplier {
		return 0, &Warning{Kind: "size", Token: token, Err: strconv.ErrRange}
	}
	return n * multiplier, nil
}

var relativeTime = regexp.MustCompile(`^(\d+)([dhms])$`)

var relativeUnits = map[string]time.Duration{"h": time.Hour, "m": time.Minute, "s": time.Second}

// maxRelativeDays keeps AddDate well inside the range time.Time can represent.
const maxRelativeDays = 1_000_000 * 366

// timeLayouts are tried in order; the first match wins.
var timeLayouts = []string{
	"2006",
	"20060102",
	"20060102 1504",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/01/02 15:04:05",
}

// Time parses a relative token ("2d", "3h", "15m", "30s") against now, or an
// absolute date in one of the supported layouts, interpreted in local time.
func Time(token string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(token) == "" {
		return time.Time{}, &Warning{Kind: "time", Token: token}
	}

	if m := relativeTime.FindStringSubmatch(token); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, &Warning{Kind: "time", Token: token, Err: err}
		}
		if m[2] == "d" {
			if n > maxRelativeDays {
				return time.Time{}, &Warning{Kind: "time", Token: token, Err: strconv.ErrRange}
			}
			return now.AddDate(0, 0, -n), nil
		}
		unit := relativeUnits[m[2]]
		if int64(n) > math.MaxInt64/int64(unit) {
			return time.Time{}, &Warning{Kind: "time", Token: token, Err: strconv.ErrRange}
		}
		return now.Add(-time.Duration(n) * unit), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, token, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &Warning{Kind: "time", Token: token}
}
