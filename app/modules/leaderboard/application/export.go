package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const overallSheet = "Leaderboard"

var exportHeader = []any{"Position", "Player", "Gross", "Points", "Net", "Holes played"}

func (s *LeaderboardService) ExportStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, mode *tournamenttypes.ScoringMode) ([]byte, error) {
	return observe(s, ctx, "ExportStandings", tournamentID, func(ctx context.Context) ([]byte, error) {
		if err := checkTournament(sess, tournamentID); err != nil {
			return nil, err
		}
		if mode != nil && !mode.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, *mode)
		}
		snap, err := s.load(ctx, tournamentID)
		if err != nil {
			return nil, err
		}

		boards := []namedBoard{{overallSheet, s.standings(snap, sess, leaderboarddomain.ScopeAll(), mode)}}
		for day := 1; day <= snap.tournament.Days; day++ {
			boards = append(boards, namedBoard{
				name:  fmt.Sprintf("Day %d", day),
				board: s.standings(snap, sess, leaderboarddomain.ScopeDay(day), mode),
			})
		}
		return writeWorkbook(boards)
	})
}

type namedBoard struct {
	name  string
	board *Standings
}

// writeWorkbook renders one sheet per board. Withheld values stay empty.
func writeWorkbook(boards []namedBoard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, b := range boards {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), b.name); err != nil {
				return nil, fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(b.name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", b.name, err)
		}

		if err := f.SetSheetRow(b.name, "A1", &exportHeader); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetRowStyle(b.name, 1, 1, bold); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		if err := f.SetColWidth(b.name, "B", "B", 28); err != nil {
			return nil, fmt.Errorf("failed to size columns: %w", err)
		}

		for r, row := range b.board.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			values := []any{cellValue(row.Position), row.Name, cellValue(row.Gross), cellValue(row.Points), cellValue(row.Net), cellValue(row.HolesPlayed)}
			if err := f.SetSheetRow(b.name, cell, &values); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
