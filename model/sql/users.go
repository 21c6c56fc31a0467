package sql

import (
	"context"

	"github.com/Brawl345/invitebot/model"
	"github.com/jmoiron/sqlx"
)

type authorizedUserService struct {
	*sqlx.DB
	insertQuery string
}

func NewAuthorizedUserService(db *sqlx.DB) *authorizedUserService {
	insertQuery := `INSERT INTO authorized_users (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING`
	if db.DriverName() == DriverMySQL {
		insertQuery = `INSERT IGNORE INTO authorized_users (user_id) VALUES (?)`
	}

	return &authorizedUserService{
		DB:          db,
		insertQuery: db.Rebind(insertQuery),
	}
}

func (db *authorizedUserService) Add(ctx context.Context, userID int64) (bool, error) {
	res, err := db.ExecContext(ctx, db.insertQuery, userID)
	if err != nil {
		return false, &model.StorageError{Op: "add authorized user", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &model.StorageError{Op: "add authorized user", Err: err}
	}
	return n > 0, nil
}

func (db *authorizedUserService) Remove(ctx context.Context, userID int64) (bool, error) {
	query := db.Rebind(`DELETE FROM authorized_users WHERE user_id = ?`)
	res, err := db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, &model.StorageError{Op: "remove authorized user", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &model.StorageError{Op: "remove authorized user", Err: err}
	}
	return n > 0, nil
}

func (db *authorizedUserService) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	query := db.Rebind(`SELECT EXISTS(SELECT 1 FROM authorized_users WHERE user_id = ?)`)

	var authorized bool
	if err := db.GetContext(ctx, &authorized, query, userID); err != nil {
		return false, &model.StorageError{Op: "check authorized user", Err: err}
	}
	return authorized, nil
}

func (db *authorizedUserService) List(ctx context.Context) ([]int64, error) {
	const query = `SELECT user_id FROM authorized_users ORDER BY user_id`

	var users []int64
	if err := db.SelectContext(ctx, &users, query); err != nil {
		return nil, &model.StorageError{Op: "list authorized users", Err: err}
	}
	return users, nil
}
