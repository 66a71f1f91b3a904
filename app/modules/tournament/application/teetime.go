package tournamentservice

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var timezoneAbbreviations = map[string]string{
	"UTC": "UTC",
	"GMT": "Europe/London",
	"BST": "Europe/London",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"EST": "America/New_York",
	"EDT": "America/New_York",
}

var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s*(am|pm)\b`)

// TeeTimeParser turns free-form tee times into instants.
type TeeTimeParser struct {
	w *when.Parser
}

func NewTeeTimeParser() *TeeTimeParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &TeeTimeParser{w: w}
}

// Location resolves an IANA name or a common abbreviation.
func (p *TeeTimeParser) Location(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC, nil
	}
	if full, ok := timezoneAbbreviations[strings.ToUpper(tz)]; ok {
		tz = full
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// Parse resolves input relative to now in loc and returns it in UTC.
// Tee times may be in the past; groups are often entered after play starts.
func (p *TeeTimeParser) Parse(input string, loc *time.Location, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	normalized := strings.ToLower(input)
	normalized = compactClock.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.w.Parse(normalized, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidTeeTime, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidTeeTime, input)
	}
	return r.Time.In(loc).Truncate(time.Minute).UTC(), nil
}
