package bot

import (
	"context"
	"fmt"

	"github.com/Brawl345/invitebot/model"
)

// Bootstrap makes sure every admin is also in the authorized set. Running it
// again is a no-op.
func Bootstrap(ctx context.Context, userService model.AuthorizedUserService, adminIDs []int64) error {
	for _, adminID := range adminIDs {
		added, err := userService.Add(ctx, adminID)
		if err != nil {
			return fmt.Errorf("failed to authorize admin %d: %w", adminID, err)
		}

		if added {
			log.Info().Int64("user_id", adminID).Msg("Admin user added to authorized list")
		} else {
			log.Debug().Int64("user_id", adminID).Msg("Admin user already authorized")
		}
	}
	return nil
}
