package leaderboarddomain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidScope is returned by ParseScope for anything but "all" or a day number.
var ErrInvalidScope = errors.New("invalid leaderboard scope")

// Scope selects which days feed a ranking.
type Scope struct {
	all bool
	day int
}

// ScopeAll covers every competition day. Day 0 never counts toward totals.
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeDay covers a single day, including day 0 when asked for explicitly.
func ScopeDay(day int) Scope {
	return Scope{day: day}
}

// ParseScope reads "all" (or empty) and day numbers.
func ParseScope(v string) (Scope, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return ScopeAll(), nil
	}
	d, err := strconv.Atoi(v)
	if err != nil || d < 0 {
		return Scope{}, fmt.Errorf("%w: %q", ErrInvalidScope, v)
	}
	return ScopeDay(d), nil
}

func (s Scope) IsAll() bool {
	return s.all
}

// Day returns the scoped day; ok is false for ScopeAll.
func (s Scope) Day() (int, bool) {
	return s.day, !s.all
}

// Includes reports whether rounds played on day count under s.
func (s Scope) Includes(day int) bool {
	if s.all {
		return day >= 1
	}
	return day == s.day
}

func (s Scope) String() string {
	if s.all {
		return "all"
	}
	return strconv.Itoa(s.day)
}
