// Package parsers reads golf scorecards exported as XLSX.
//
// The expected layout is row oriented: an optional "Hole" header row, a "Par"
// row, an optional stroke index row ("SI", "Index", "Stroke Index" or "HCP")
// and one row per player with the name in the first column. Blank or "-"
// cells are holes without a score; "P", "PU" or "X" mark a picked-up hole.
package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// Blank marks a hole with no score on the card.
	Blank = 0
	// PickedUp marks a hole the player abandoned.
	PickedUp = -1
)

var (
	// ErrNoParRow is returned when no row is labelled "Par".
	ErrNoParRow = errors.New("scorecard has no par row")
	// ErrEmptyWorkbook is returned for a workbook without sheets or rows.
	ErrEmptyWorkbook = errors.New("scorecard workbook is empty")
)

// PlayerRow is one player's line on the card.
type PlayerRow struct {
	Name  string
	Holes []int
}

// Scorecard is the parsed first sheet of a workbook.
type Scorecard struct {
	Pars          []int
	StrokeIndexes []int
	Players       []PlayerRow
}

// HoleCount returns the number of holes defined by the par row.
func (s *Scorecard) HoleCount() int {
	return len(s.Pars)
}

// Player finds a player row by name, ignoring case and surrounding space.
func (s *Scorecard) Player(name string) (PlayerRow, bool) {
	want := strings.TrimSpace(name)
	for _, p := range s.Players {
		if strings.EqualFold(p.Name, want) {
			return p, true
		}
	}
	return PlayerRow{}, false
}

// ParseScorecardXLSX parses the first sheet of an XLSX workbook.
func ParseScorecardXLSX(data []byte) (*Scorecard, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	return parseRows(rows)
}

func parseRows(rows [][]string) (*Scorecard, error) {
	card := &Scorecard{}

	parRow := -1
	for i, row := range rows {
		if len(row) > 0 && isLabel(row[0], "par") {
			pars, err := parseNumericRow(row[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid par row at line %d: %w", i+1, err)
			}
			card.Pars = trimTrailingBlanks(pars)
			parRow = i
			break
		}
	}
	if parRow < 0 || len(card.Pars) == 0 {
		return nil, ErrNoParRow
	}
	holes := len(card.Pars)

	for i, row := range rows {
		if i == parRow || len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		switch {
		case label == "":
			continue
		case isLabel(label, "hole", "holes", "#"):
			continue
		case isLabel(label, "si", "index", "stroke index", "strokeindex", "hcp", "handicap"):
			idx, err := parseNumericRow(row[1:])
			if err != nil {
				return nil, fmt.Errorf("invalid stroke index row at line %d: %w", i+1, err)
			}
			card.StrokeIndexes = fit(idx, holes)
		default:
			scores, err := parseScoreRow(row[1:])
			if err != nil {
				// Notes and totals rows are not player rows.
				continue
			}
			card.Players = append(card.Players, PlayerRow{Name: label, Holes: fit(scores, holes)})
		}
	}

	return card, nil
}

func isLabel(cell string, names ...string) bool {
	cell = strings.TrimSpace(cell)
	for _, n := range names {
		if strings.EqualFold(cell, n) {
			return true
		}
	}
	return false
}

// parseNumericRow reads a row positionally; blank cells become 0.
func parseNumericRow(cells []string) ([]int, error) {
	out := make([]int, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || c == "-" {
			continue
		}
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("non-numeric value %q in column %d", c, i+2)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative value %d in column %d", n, i+2)
		}
		out[i] = n
	}
	return out, nil
}

func parseScoreRow(cells []string) ([]int, error) {
	out := make([]int, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		switch {
		case c == "" || c == "-":
			out[i] = Blank
		case isLabel(c, "p", "pu", "x"):
			out[i] = PickedUp
		default:
			n, err := strconv.Atoi(c)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid score %q in column %d", c, i+2)
			}
			out[i] = n
		}
	}
	return out, nil
}

func trimTrailingBlanks(v []int) []int {
	end := len(v)
	for end > 0 && v[end-1] == 0 {
		end--
	}
	return v[:end]
}

// fit pads or truncates v to n entries. Trailing columns such as totals fall off.
func fit(v []int, n int) []int {
	out := make([]int, n)
	copy(out, v)
	return out
}
