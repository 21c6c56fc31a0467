package model

import "context"

type AuthorizedUserService interface {
	// Add returns false if the user was already authorized.
	Add(ctx context.Context, userID int64) (bool, error)
	// Remove returns false if the user was not authorized.
	Remove(ctx context.Context, userID int64) (bool, error)
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	List(ctx context.Context) ([]int64, error)
}
