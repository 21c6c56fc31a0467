package sql

import (
	"context"
	"time"

	"github.com/Brawl345/invitebot/model"
	"github.com/jmoiron/sqlx"
)

type inviteLinkService struct {
	*sqlx.DB
	now func() time.Time
}

func NewInviteLinkService(db *sqlx.DB) *inviteLinkService {
	return &inviteLinkService{
		DB:  db,
		now: time.Now,
	}
}

// Add appends a link. The id is assigned by the database, so concurrent
// inserts never collide.
func (db *inviteLinkService) Add(ctx context.Context, submitterID int64, link string) error {
	query := db.Rebind(`INSERT INTO invite_links (submitter_id, link, created_at) VALUES (?, ?, ?)`)
	_, err := db.ExecContext(ctx, query, submitterID, link, db.now().UTC())
	if err != nil {
		return &model.StorageError{Op: "add invite link", Err: err}
	}

	log.Info().
		Int64("submitter_id", submitterID).
		Str("link", link).
		Msg("Link submitted")
	return nil
}

func (db *inviteLinkService) List(ctx context.Context) ([]model.InviteLink, error) {
	const query = `SELECT id, submitter_id, link, created_at
	FROM invite_links
	ORDER BY created_at DESC, id DESC`

	var links []model.InviteLink
	if err := db.SelectContext(ctx, &links, query); err != nil {
		return nil, &model.StorageError{Op: "list invite links", Err: err}
	}

	for i := range links {
		links[i].CreatedAt = links[i].CreatedAt.UTC()
	}
	return links, nil
}
