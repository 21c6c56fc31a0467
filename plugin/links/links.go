package links

import (
	"fmt"
	"strings"

	"github.com/Brawl345/invitebot/logger"
	"github.com/Brawl345/invitebot/model"
	"github.com/Brawl345/invitebot/plugin"
	"github.com/Brawl345/invitebot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

var log = logger.New("links")

// Private group join links, see https://core.telegram.org/api/invites
var invitePrefixes = []string{
	"https://t.me/joinchat/",
	"https://t.me/+",
}

type (
	Plugin struct {
		linkService model.InviteLinkService
	}
)

func New(service model.InviteLinkService) *Plugin {
	return &Plugin{
		linkService: service,
	}
}

func (*Plugin) Name() string {
	return "links"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "submit_link",
			Description: "Submit a private group invite link",
		},
	}
}

func (p *Plugin) Handlers() []*plugin.CommandHandler {
	return []*plugin.CommandHandler{
		{
			Trigger:     "submit_link",
			HandlerFunc: p.onSubmit,
			Role:        model.RoleAuthorized,
			DeniedText:  "You are not authorized to submit links. Please contact an admin.",
		},
		{
			Trigger:     "list_links",
			HandlerFunc: p.onList,
			Role:        model.RoleAdmin,
		},
	}
}

// IsInviteLink only checks the shape of the link, it does not resolve it.
func IsInviteLink(link string) bool {
	for _, prefix := range invitePrefixes {
		if strings.HasPrefix(link, prefix) && len(link) > len(prefix) {
			return true
		}
	}
	return false
}

func (p *Plugin) onSubmit(c plugin.GobotContext) (string, error) {
	if len(c.Args) != 1 {
		return "", plugin.NewValidationError(
			fmt.Sprintf("Usage: <code>/submit_link %s</code>", utils.Escape("<invite_link>")),
		)
	}

	link := c.Args[0]
	if !IsInviteLink(link) {
		log.Debug().
			Int64("user_id", c.SenderID).
			Str("link", link).
			Msg("Rejected link")
		return "", plugin.NewValidationError("❌ That doesn't look like a valid Telegram invite link.")
	}

	if err := p.linkService.Add(c, c.SenderID, link); err != nil {
		return "", fmt.Errorf("failed to submit link: %w", err)
	}

	return "✅ Thank you! Your invite link has been submitted.", nil
}

func (p *Plugin) onList(c plugin.GobotContext) (string, error) {
	links, err := p.linkService.List(c)
	if err != nil {
		return "", fmt.Errorf("failed to list links: %w", err)
	}

	if len(links) == 0 {
		return "No links have been submitted yet.", nil
	}

	var sb strings.Builder
	sb.WriteString("<b>Submitted links:</b>\n\n")
	for _, link := range links {
		sb.WriteString(
			fmt.Sprintf(
				"- User ID: <code>%d</code>\n  Link: %s\n  Time: %s\n\n",
				link.SubmitterID,
				utils.Escape(link.Link),
				utils.FormatTime(link.CreatedAt),
			),
		)
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
