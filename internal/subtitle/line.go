package subtitle

import (
	"fmt"
	"strconv"
	"strings"
)

// represents a single dialogue line
type Line struct {
	Layer   int
	Start   int // milliseconds
	End     int // milliseconds
	Style   string
	Actor   string
	Effect  string
	Text    string
	Comment bool
}

// the time range covered by the line
func (l *Line) Duration() int {
	return l.End - l.Start
}

// FormatTime renders milliseconds as an ASS timestamp (h:mm:ss.cc).
// Negative times clamp to zero; ASS cannot represent them.
func FormatTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	cs := (ms + 5) / 10 // round to centiseconds
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	c := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, c)
}

// ParseTime reads an ASS timestamp (h:mm:ss.cc) into milliseconds.
func ParseTime(ts string) (int, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q", ts)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q", ts)
	}

	secParts := strings.SplitN(parts[2], ".", 2)
	s, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q", ts)
	}

	cs := 0
	if len(secParts) == 2 {
		frac := secParts[1]
		// centiseconds in ASS, but tolerate milliseconds
		switch len(frac) {
		case 2:
			cs, err = strconv.Atoi(frac)
			cs *= 10
		case 3:
			cs, err = strconv.Atoi(frac)
		default:
			return 0, fmt.Errorf("invalid fraction in %q", ts)
		}
		if err != nil {
			return 0, fmt.Errorf("invalid fraction in %q", ts)
		}
	}

	return ((h*60+m)*60+s)*1000 + cs, nil
}

// formatSRTTime renders milliseconds as 00:00:00,000
func formatSRTTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	r := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, r)
}
