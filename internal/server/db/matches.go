package db

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/arenax/arenax/internal/objects"
)

const tableMatches = "matches"

var matchColumns = []string{
	"id", "round", "home_team_id", "away_team_id", "home_score", "away_score",
	"status", "played_at", "created_at",
}

func scanMatch(rows *sql.Rows) (*objects.Match, error) {
	var (
		m        objects.Match
		status   string
		playedAt sql.NullTime
	)

	err := rows.Scan(&m.ID, &m.Round, &m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore,
		&status, &playedAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}

	m.Status = objects.MatchStatus(status)

	if playedAt.Valid {
		t := playedAt.Time
		m.PlayedAt = &t
	}

	return &m, nil
}

func (s *Store) CreateMatch(ctx context.Context, m *objects.Match) error {
	var playedAt sql.NullTime
	if m.PlayedAt != nil {
		playedAt = sql.NullTime{Time: *m.PlayedAt, Valid: true}
	}

	_, err := s.exec(ctx, s.builder().Insert(tableMatches).
		Columns(matchColumns...).
		Values(m.ID, m.Round, m.HomeTeamID, m.AwayTeamID, m.HomeScore, m.AwayScore,
			string(m.Status), playedAt, m.CreatedAt))

	return err
}

func (s *Store) GetMatch(ctx context.Context, id string) (*objects.Match, error) {
	return queryOne(ctx, s, s.builder().Select(matchColumns...).
		From(entsql.Table(tableMatches)).
		Where(entsql.EQ("id", id)), scanMatch)
}

// ListMatches returns matches by round, then creation time.
func (s *Store) ListMatches(ctx context.Context) ([]*objects.Match, error) {
	return queryRows(ctx, s, s.builder().Select(matchColumns...).
		From(entsql.Table(tableMatches)).
		OrderBy("round", "created_at"), scanMatch)
}

// ListCompletedMatches returns every completed match.
func (s *Store) ListCompletedMatches(ctx context.Context) ([]*objects.Match, error) {
	return queryRows(ctx, s, s.builder().Select(matchColumns...).
		From(entsql.Table(tableMatches)).
		Where(entsql.EQ("status", string(objects.MatchStatusCompleted))).
		OrderBy("round", "created_at"), scanMatch)
}

// CompleteMatch records the score of a scheduled match. It reports false when
// no scheduled match with that id exists.
func (s *Store) CompleteMatch(ctx context.Context, id string, home, away int, playedAt time.Time) (bool, error) {
	res, err := s.exec(ctx, s.builder().Update(tableMatches).
		Set("home_score", home).
		Set("away_score", away).
		Set("status", string(objects.MatchStatusCompleted)).
		Set("played_at", playedAt).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", string(objects.MatchStatusScheduled)),
		)))
	if err != nil {
		return false, err
	}

	return affected(res)
}
