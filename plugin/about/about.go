package about

import (
	"fmt"

	"github.com/Brawl345/invitebot/logger"
	"github.com/Brawl345/invitebot/model"
	"github.com/Brawl345/invitebot/plugin"
	"github.com/Brawl345/invitebot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

var log = logger.New("about")

const greeting = "Hello! I am a bot for managing invite links. " +
	"Admins can add/remove authorized users and view submitted links."

type Plugin struct {
	text string
}

func New() *Plugin {
	p := &Plugin{text: greeting}

	versionInfo, err := utils.ReadVersionInfo()
	if err != nil {
		log.Debug().Err(err).Msg("Build info not available")
		return p
	}

	p.text += fmt.Sprintf("\n\n<i>invitebot <code>%s</code>", utils.Escape(versionInfo.Revision))
	if versionInfo.DirtyBuild {
		p.text += " (dirty)"
	}
	p.text += "</i>"

	return p
}

func (*Plugin) Name() string {
	return "about"
}

func (p *Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "start",
			Description: "Show what this bot does",
		},
	}
}

func (p *Plugin) Handlers() []*plugin.CommandHandler {
	return []*plugin.CommandHandler{
		{
			Trigger:     "start",
			HandlerFunc: p.onStart,
			Role:        model.RoleUnauthorized,
		},
	}
}

func (p *Plugin) onStart(plugin.GobotContext) (string, error) {
	return p.text, nil
}
