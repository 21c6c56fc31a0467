package plugin

import (
	"context"

	"github.com/Brawl345/invitebot/model"
	"github.com/PaulSonOfLars/gotgbot/v2"
)

type (
	Plugin interface {
		Name() string

		// Commands will be shown in the menu button
		Commands() []gotgbot.BotCommand

		Handlers() []*CommandHandler
	}

	// Event is an inbound command, independent of the chat transport.
	Event struct {
		SenderID int64
		Command  string
		Args     []string
	}

	GobotContext struct {
		context.Context
		Event
		Role model.Role
	}

	GobotHandlerFunc func(c GobotContext) (string, error)

	CommandHandler struct {
		Trigger     string
		HandlerFunc GobotHandlerFunc
		// Role is the minimum role needed to run the command.
		Role model.Role
		// DeniedText replaces the default permission denied reply.
		DeniedText string
	}
)

func (h *CommandHandler) Command() string {
	return h.Trigger
}

func (h *CommandHandler) Run(c GobotContext) (string, error) {
	return h.HandlerFunc(c)
}
