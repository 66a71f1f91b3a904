// Package tournamenttypes holds the tournament setup types shared by the
// scoring, leaderboard and tournament modules.
package tournamenttypes

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is matched by every lookup miss on tournament setup data.
var ErrNotFound = errors.New("tournament record not found")

// ScoringMode selects how the leaderboard ranks players.
type ScoringMode string

const (
	// ModeStrokes ranks by lowest total gross.
	ModeStrokes ScoringMode = "strokes"
	// ModeHandicap ranks by highest total Stableford points.
	ModeHandicap ScoringMode = "handicap"
	// ModeNet ranks by lowest total net.
	ModeNet ScoringMode = "net"
)

func (m ScoringMode) IsValid() bool {
	switch m {
	case ModeStrokes, ModeHandicap, ModeNet:
		return true
	}
	return false
}

// ParseScoringMode parses a mode name.
func ParseScoringMode(s string) (ScoringMode, error) {
	m := ScoringMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
	return m, nil
}

// Tournament is the read-only configuration consumed by the leaderboard.
type Tournament struct {
	ID          uuid.UUID
	Name        string
	ScoringMode ScoringMode
	// Days counts competition days, numbered 1..Days. Day Days is the final day.
	Days int
	// HasDayZero marks a pre-tournament day 0 that never counts toward totals.
	HasDayZero bool
	// Revealed lifts the top-of-board blur once results are sealed.
	Revealed bool
}

// FinalDay returns the day whose groups decide the seal signals.
func (t Tournament) FinalDay() int {
	return t.Days
}

// ValidDay reports whether day belongs to the tournament schedule.
func (t Tournament) ValidDay(day int) bool {
	if day == 0 {
		return t.HasDayZero
	}
	return day >= 1 && day <= t.Days
}

// Player is a tournament entrant.
type Player struct {
	ID            uuid.UUID
	TournamentID  uuid.UUID
	Name          string
	HandicapIndex int
}

// Group is one set of players playing one course on one day.
type Group struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	CourseID     uuid.UUID
	Name         string
	Day          int
	TeeTime      time.Time
	PlayerIDs    []uuid.UUID
}

// HasPlayer reports whether playerID is a member of the group.
func (g Group) HasPlayer(playerID uuid.UUID) bool {
	for _, id := range g.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
