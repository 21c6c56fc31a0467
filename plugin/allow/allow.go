package allow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Brawl345/invitebot/logger"
	"github.com/Brawl345/invitebot/model"
	"github.com/Brawl345/invitebot/plugin"
	"github.com/Brawl345/invitebot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

var log = logger.New("allow")

type (
	Plugin struct {
		userService model.AuthorizedUserService
	}
)

func New(service model.AuthorizedUserService) *Plugin {
	return &Plugin{
		userService: service,
	}
}

func (*Plugin) Name() string {
	return "allow"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return nil // Because it's a superuser plugin
}

func (p *Plugin) Handlers() []*plugin.CommandHandler {
	return []*plugin.CommandHandler{
		{
			Trigger:     "add_user",
			HandlerFunc: p.onAddUser,
			Role:        model.RoleAdmin,
		},
		{
			Trigger:     "remove_user",
			HandlerFunc: p.onRemoveUser,
			Role:        model.RoleAdmin,
		},
		{
			Trigger:     "list_users",
			HandlerFunc: p.onListUsers,
			Role:        model.RoleAdmin,
		},
	}
}

func usage(command string) *plugin.ValidationError {
	return plugin.NewValidationError(
		fmt.Sprintf("Usage: <code>/%s %s</code>", command, utils.Escape("<user_id>")),
	)
}

func parseUserID(c plugin.GobotContext) (int64, error) {
	if len(c.Args) != 1 {
		return 0, usage(c.Command)
	}

	userID, err := strconv.ParseInt(c.Args[0], 10, 64)
	if err != nil {
		return 0, usage(c.Command)
	}
	return userID, nil
}

func (p *Plugin) onAddUser(c plugin.GobotContext) (string, error) {
	userID, err := parseUserID(c)
	if err != nil {
		return "", err
	}

	added, err := p.userService.Add(c, userID)
	if err != nil {
		return "", fmt.Errorf("failed to add user %d: %w", userID, err)
	}

	if !added {
		return fmt.Sprintf("💡 User with ID <code>%d</code> is already in the authorized list.", userID), nil
	}

	log.Info().
		Int64("admin_id", c.SenderID).
		Int64("user_id", userID).
		Msg("User authorized")
	return fmt.Sprintf("✅ User with ID <code>%d</code> has been added to the authorized list.", userID), nil
}

func (p *Plugin) onRemoveUser(c plugin.GobotContext) (string, error) {
	userID, err := parseUserID(c)
	if err != nil {
		return "", err
	}

	removed, err := p.userService.Remove(c, userID)
	if err != nil {
		return "", fmt.Errorf("failed to remove user %d: %w", userID, err)
	}

	if !removed {
		return fmt.Sprintf("💡 User with ID <code>%d</code> was not found in the authorized list.", userID), nil
	}

	log.Info().
		Int64("admin_id", c.SenderID).
		Int64("user_id", userID).
		Msg("User deauthorized")
	return fmt.Sprintf("✅ User with ID <code>%d</code> has been removed from the authorized list.", userID), nil
}

func (p *Plugin) onListUsers(c plugin.GobotContext) (string, error) {
	users, err := p.userService.List(c)
	if err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		return "No authorized users found.", nil
	}

	// one line per user, so long lists can be split between messages
	lines := make([]string, 0, len(users))
	for _, user := range users {
		lines = append(lines, fmt.Sprintf("<code>%d</code>", user))
	}

	return "<b>Authorized users:</b>\n" + strings.Join(lines, "\n"), nil
}
