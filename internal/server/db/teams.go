package db

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/arenax/arenax/internal/objects"
)

const tableTeams = "teams"

var teamColumns = []string{
	"id", "name", "captain_name", "captain_phone", "captain_email",
	"status", "logo_url", "created_at", "updated_at",
}

func scanTeam(rows *sql.Rows) (*objects.Team, error) {
	var (
		t      objects.Team
		status string
	)

	err := rows.Scan(&t.ID, &t.Name, &t.CaptainName, &t.CaptainPhone, &t.CaptainEmail,
		&status, &t.LogoURL, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Status = objects.TeamStatus(status)

	return &t, nil
}

func (s *Store) CreateTeam(ctx context.Context, t *objects.Team) error {
	_, err := s.exec(ctx, s.builder().Insert(tableTeams).
		Columns(teamColumns...).
		Values(t.ID, t.Name, t.CaptainName, t.CaptainPhone, t.CaptainEmail,
			string(t.Status), t.LogoURL, t.CreatedAt, t.UpdatedAt))

	return err
}

func (s *Store) GetTeam(ctx context.Context, id string) (*objects.Team, error) {
	return queryOne(ctx, s, s.builder().Select(teamColumns...).
		From(entsql.Table(tableTeams)).
		Where(entsql.EQ("id", id)), scanTeam)
}

func (s *Store) GetTeamByName(ctx context.Context, name string) (*objects.Team, error) {
	return queryOne(ctx, s, s.builder().Select(teamColumns...).
		From(entsql.Table(tableTeams)).
		Where(entsql.EQ("name", name)), scanTeam)
}

// ListTeams returns teams ordered by registration time.
func (s *Store) ListTeams(ctx context.Context) ([]*objects.Team, error) {
	return queryRows(ctx, s, s.builder().Select(teamColumns...).
		From(entsql.Table(tableTeams)).
		OrderBy("created_at", "name"), scanTeam)
}

// UpdateTeamStatus sets the status of a team.
func (s *Store) UpdateTeamStatus(ctx context.Context, id string, status objects.TeamStatus) error {
	res, err := s.exec(ctx, s.builder().Update(tableTeams).
		Set("status", string(status)).
		Set("updated_at", now()).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return err
	}

	ok, err := affected(res)
	if err != nil {
		return err
	}

	if !ok {
		return ErrNotFound
	}

	return nil
}
