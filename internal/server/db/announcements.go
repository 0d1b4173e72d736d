package db

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/arenax/arenax/internal/objects"
)

const tableAnnouncements = "announcements"

var announcementColumns = []string{"id", "title", "body", "pinned", "created_at"}

func scanAnnouncement(rows *sql.Rows) (*objects.Announcement, error) {
	var a objects.Announcement

	if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Pinned, &a.CreatedAt); err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Store) CreateAnnouncement(ctx context.Context, a *objects.Announcement) error {
	_, err := s.exec(ctx, s.builder().Insert(tableAnnouncements).
		Columns(announcementColumns...).
		Values(a.ID, a.Title, a.Body, a.Pinned, a.CreatedAt))

	return err
}

// ListAnnouncements returns pinned announcements first, then newest first.
func (s *Store) ListAnnouncements(ctx context.Context) ([]*objects.Announcement, error) {
	return queryRows(ctx, s, s.builder().Select(announcementColumns...).
		From(entsql.Table(tableAnnouncements)).
		OrderBy(entsql.Desc("pinned"), entsql.Desc("created_at")), scanAnnouncement)
}
