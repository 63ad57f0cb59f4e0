// Package timeutil parses the short durations used on the command line.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is the token lifetime used when none is given.
const DefaultTTL = "1d"

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units   = map[string]time.Duration{
		"s":     time.Second,
		"sec":   time.Second,
		"secs":  time.Second,
		"m":     time.Minute,
		"min":   time.Minute,
		"mins":  time.Minute,
		"h":     time.Hour,
		"hr":    time.Hour,
		"hrs":   time.Hour,
		"hour":  time.Hour,
		"hours": time.Hour,
		"d":     24 * time.Hour,
		"day":   24 * time.Hour,
		"days":  24 * time.Hour,
		"w":     7 * 24 * time.Hour,
		"wk":    7 * 24 * time.Hour,
		"week":  7 * 24 * time.Hour,
		"weeks": 7 * 24 * time.Hour,
	}
)

// ParseTTL parses "1w", "3d" or "1w2d6h". Empty means DefaultTTL and a bare
// "0" or "never" means no expiry.
func ParseTTL(input string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "":
		s = DefaultTTL
	case "0", "never":
		return 0, nil
	}

	var total time.Duration
	for rest := s; len(rest) > 0; {
		m := segment.FindStringSubmatch(rest)
		if len(m) != 3 {
			return 0, fmt.Errorf("invalid ttl segment %q", strings.TrimSpace(rest))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ttl value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported ttl unit %q", m[2])
		}
		total += time.Duration(n) * unit
		rest = rest[len(m[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("ttl must be greater than zero")
	}
	return total, nil
}

// FormatTTL renders d with w/d/h/m/s tokens. Zero reads "never".
func FormatTTL(d time.Duration) string {
	if d <= 0 {
		return "never"
	}
	steps := []struct {
		label string
		size  time.Duration
	}{
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	}
	var b strings.Builder
	for _, st := range steps {
		if d < st.size {
			continue
		}
		n := d / st.size
		d -= n * st.size
		fmt.Fprintf(&b, "%d%s", n, st.label)
	}
	if b.Len() == 0 {
		return "never"
	}
	return b.String()
}
