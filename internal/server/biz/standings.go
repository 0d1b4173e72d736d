package biz

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/arenax/arenax/internal/objects"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// ComputeStandings builds the league table from completed matches. Every team
// gets a row, played or not. Rows are ordered by points, goal difference,
// goals for, then name.
func ComputeStandings(teams []*objects.Team, matches []*objects.Match) []objects.Standing {
	rows := lo.SliceToMap(teams, func(t *objects.Team) (string, *objects.Standing) {
		return t.ID, &objects.Standing{TeamID: t.ID, TeamName: t.Name}
	})

	for _, m := range matches {
		if m.Status != objects.MatchStatusCompleted {
			continue
		}

		home, ok := rows[m.HomeTeamID]
		if !ok {
			continue
		}

		away, ok := rows[m.AwayTeamID]
		if !ok {
			continue
		}

		record(home, m.HomeScore, m.AwayScore)
		record(away, m.AwayScore, m.HomeScore)
	}

	out := lo.MapToSlice(rows, func(_ string, s *objects.Standing) objects.Standing {
		s.GoalDifference = s.GoalsFor - s.GoalsAgainst
		return *s
	})

	slices.SortFunc(out, func(a, b objects.Standing) int {
		return cmp.Or(
			cmp.Compare(b.Points, a.Points),
			cmp.Compare(b.GoalDifference, a.GoalDifference),
			cmp.Compare(b.GoalsFor, a.GoalsFor),
			cmp.Compare(a.TeamName, b.TeamName),
			cmp.Compare(a.TeamID, b.TeamID),
		)
	})

	return out
}

func record(s *objects.Standing, scored, conceded int) {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded

	switch {
	case scored > conceded:
		s.Won++
		s.Points += pointsWin
	case scored == conceded:
		s.Drawn++
		s.Points += pointsDraw
	default:
		s.Lost++
	}
}
