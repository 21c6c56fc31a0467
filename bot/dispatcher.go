package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Brawl345/invitebot/logger"
	"github.com/Brawl345/invitebot/model"
	"github.com/Brawl345/invitebot/plugin"
	"github.com/Brawl345/invitebot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/rs/xid"
)

var log = logger.New("bot")

const (
	DefaultCommandTimeout = 10 * time.Second

	deniedText = "You are not authorized to use this command."
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomePermissionDenied
	OutcomeValidationError
	OutcomeStorageFailure
	// OutcomeIgnored is returned for commands no plugin handles, nothing is sent back.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomePermissionDenied:
		return "permission_denied"
	case OutcomeValidationError:
		return "validation_error"
	case OutcomeStorageFailure:
		return "storage_failure"
	default:
		return "ignored"
	}
}

type Reply struct {
	Text    string
	Outcome Outcome
}

type route struct {
	plugin  string
	handler *plugin.CommandHandler
}

// Dispatcher maps command events to plugin handlers and enforces their roles.
// It keeps no state between events, so it is safe for concurrent use.
type Dispatcher struct {
	roles   *Roles
	plugins []plugin.Plugin
	routes  map[string]route
	timeout time.Duration
}

func NewDispatcher(roles *Roles, timeout time.Duration, plugins ...plugin.Plugin) (*Dispatcher, error) {
	if roles == nil {
		return nil, errors.New("roles are nil")
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	d := &Dispatcher{
		roles:   roles,
		plugins: plugins,
		routes:  make(map[string]route),
		timeout: timeout,
	}

	for _, plg := range plugins {
		for _, h := range plg.Handlers() {
			command := strings.ToLower(h.Command())
			if existing, ok := d.routes[command]; ok {
				return nil, fmt.Errorf("command %q registered by %s and %s", command, existing.plugin, plg.Name())
			}
			d.routes[command] = route{plugin: plg.Name(), handler: h}
		}
	}

	return d, nil
}

func (d *Dispatcher) Plugins() []plugin.Plugin {
	return d.plugins
}

// Commands collects the menu entries of all plugins.
func (d *Dispatcher) Commands() []gotgbot.BotCommand {
	var commands []gotgbot.BotCommand
	for _, plg := range d.plugins {
		commands = append(commands, plg.Commands()...)
	}
	return commands
}

// Dispatch handles a single event. It never panics and always returns within
// the command timeout, even if the store does not honor the context.
func (d *Dispatcher) Dispatch(ctx context.Context, event plugin.Event) Reply {
	r, ok := d.routes[strings.ToLower(event.Command)]
	if !ok {
		return Reply{Outcome: OutcomeIgnored}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan Reply, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- d.internalError(event, r.plugin, fmt.Errorf("panic: %v", rec))
			}
		}()
		done <- d.run(ctx, event, r)
	}()

	select {
	case reply := <-done:
		return reply
	case <-ctx.Done():
		return d.internalError(event, r.plugin, fmt.Errorf("command timed out: %w", ctx.Err()))
	}
}

func (d *Dispatcher) run(ctx context.Context, event plugin.Event, r route) Reply {
	role := model.RoleUnauthorized
	if r.handler.Role > model.RoleUnauthorized {
		var err error
		role, err = d.roles.Resolve(ctx, event.SenderID)
		if err != nil {
			return d.internalError(event, r.plugin, fmt.Errorf("failed to resolve role: %w", err))
		}
	}

	if !role.Satisfies(r.handler.Role) {
		log.Debug().
			Int64("user_id", event.SenderID).
			Str("command", event.Command).
			Stringer("role", role).
			Msg("Permission denied")

		text := r.handler.DeniedText
		if text == "" {
			text = deniedText
		}
		return Reply{Text: text, Outcome: OutcomePermissionDenied}
	}

	text, err := r.handler.Run(plugin.GobotContext{
		Context: ctx,
		Event:   event,
		Role:    role,
	})
	if err != nil {
		var validationErr *plugin.ValidationError
		if errors.As(err, &validationErr) {
			return Reply{Text: validationErr.Message, Outcome: OutcomeValidationError}
		}
		return d.internalError(event, r.plugin, err)
	}

	return Reply{Text: text, Outcome: OutcomeOK}
}

func (d *Dispatcher) internalError(event plugin.Event, component string, err error) Reply {
	guid := xid.New().String()
	log.Err(err).
		Str("guid", guid).
		Int64("user_id", event.SenderID).
		Str("command", event.Command).
		Strs("args", event.Args).
		Str("component", component).
		Send()
	return Reply{
		Text:    fmt.Sprintf("❌ An internal error occurred.%s", utils.EmbedGUID(guid)),
		Outcome: OutcomeStorageFailure,
	}
}
