package model

import (
	"context"
	"time"
)

type (
	InviteLinkService interface {
		Add(ctx context.Context, submitterID int64, link string) error
		// List returns all links, newest first.
		List(ctx context.Context) ([]InviteLink, error)
	}

	InviteLink struct {
		ID          int64     `db:"id"`
		SubmitterID int64     `db:"submitter_id"`
		Link        string    `db:"link"`
		CreatedAt   time.Time `db:"created_at"`
	}
)
