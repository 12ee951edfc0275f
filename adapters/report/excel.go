package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
)

// Scoreboard builds a two-sheet workbook: a per-tournament scoreboard and
// a flat round log. Caller owns closing the returned file.
func Scoreboard(tournaments []*tournament.Tournament) (*excelize.File, error) {
	f := excelize.NewFile()

	const board = "Scoreboard"
	if err := f.SetSheetName("Sheet1", board); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Hypothesis", "State", "Reason", "Stage", "Revision", "Rounds", "Challenger", "Defender"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(board, cell, h)
	}
	for rowIdx, t := range tournaments {
		row := []interface{}{
			t.Hypothesis.Claim,
			string(t.State),
			t.StateReason,
			int(t.Hypothesis.Stage),
			t.Hypothesis.Revision,
			len(t.Rounds),
			t.Scores[scoring.RoleChallenger],
			t.Scores[scoring.RoleDefender],
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx+2)
			f.SetCellValue(board, cell, v)
		}
	}

	const log = "Rounds"
	if _, err := f.NewSheet(log); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	roundHeaders := []string{"Hypothesis", "Round", "Stage", "Outcome", "Decision", "Challenger Δ", "Defender Δ"}
	for i, h := range roundHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(log, cell, h)
	}
	rowIdx := 2
	for _, t := range tournaments {
		for _, r := range t.Rounds {
			var cd, dd int
			for _, ev := range r.Events {
				switch ev.Role {
				case scoring.RoleChallenger:
					cd = ev.Delta
				case scoring.RoleDefender:
					dd = ev.Delta
				}
			}
			row := []interface{}{
				t.Hypothesis.Claim,
				r.Number,
				r.Stage,
				r.Outcome.Category(),
				r.Decision.String(),
				cd,
				dd,
			}
			for c, v := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
				f.SetCellValue(log, cell, v)
			}
			rowIdx++
		}
	}

	return f, nil
}
