package bot

import (
	"context"

	"github.com/Brawl345/invitebot/model"
	"golang.org/x/exp/slices"
)

// Roles resolves senders against the static admin set and the store.
// Membership is looked up on every call so that revocations apply right away.
type Roles struct {
	admins      []int64
	userService model.AuthorizedUserService
}

func NewRoles(adminIDs []int64, userService model.AuthorizedUserService) *Roles {
	return &Roles{
		admins:      slices.Clone(adminIDs),
		userService: userService,
	}
}

func (r *Roles) IsAdmin(userID int64) bool {
	return slices.Contains(r.admins, userID)
}

func (r *Roles) Resolve(ctx context.Context, userID int64) (model.Role, error) {
	if r.IsAdmin(userID) {
		return model.RoleAdmin, nil
	}

	authorized, err := r.userService.IsAuthorized(ctx, userID)
	if err != nil {
		return model.RoleUnauthorized, err
	}
	if authorized {
		return model.RoleAuthorized, nil
	}
	return model.RoleUnauthorized, nil
}
