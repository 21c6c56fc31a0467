package bot

import (
	"context"
	"errors"

	"github.com/Brawl345/invitebot/utils"
	"github.com/Brawl345/invitebot/utils/tgUtils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// Processor feeds Telegram updates into the Dispatcher. Every command runs on
// its own goroutine, so a slow store never blocks other senders.
type Processor struct {
	ctx        context.Context
	dispatcher *Dispatcher
	printMsgs  bool
}

func NewProcessor(ctx context.Context, dispatcher *Dispatcher, printMsgs bool) *Processor {
	return &Processor{
		ctx:        ctx,
		dispatcher: dispatcher,
		printMsgs:  printMsgs,
	}
}

func (p *Processor) ProcessUpdate(_ *ext.Dispatcher, b *gotgbot.Bot, ctx *ext.Context) error {
	// Edits are ignored, an edited /submit_link must not be stored twice
	msg := ctx.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return nil
	}

	event, ok := ParseCommand(tgUtils.AnyText(msg), b.Username, msg.From.Id)
	if !ok {
		return nil
	}

	if p.printMsgs {
		log.Info().
			Int64("chat_id", msg.Chat.Id).
			Int64("user_id", event.SenderID).
			Str("command", event.Command).
			Strs("args", event.Args).
			Msg("Received command")
	}

	go func() {
		reply := p.dispatcher.Dispatch(p.ctx, event)
		if reply.Outcome == OutcomeIgnored {
			return
		}

		log.Debug().
			Int64("user_id", event.SenderID).
			Str("command", event.Command).
			Stringer("outcome", reply.Outcome).
			Send()

		for _, chunk := range tgUtils.SplitMessage(reply.Text, tgUtils.MaxMessageLength) {
			if _, err := msg.Reply(b, chunk, utils.DefaultSendOptions()); err != nil {
				logReplyError(err, msg.Chat.Id, event.Command)
				return
			}
		}
	}()

	return nil
}

func logReplyError(err error, chatID int64, command string) {
	var telegramErr *gotgbot.TelegramError
	if errors.As(err, &telegramErr) && telegramErr.Description == tgUtils.ErrBlockedByUser {
		log.Debug().Int64("chat_id", chatID).Msg("Bot was blocked by the user")
		return
	}

	log.Err(err).
		Int64("chat_id", chatID).
		Str("command", command).
		Msg("Failed to send reply")
}

// OnError is the error handler of the gotgbot dispatcher.
func OnError(_ *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
	ev := log.Err(err)
	if ctx != nil && ctx.EffectiveChat != nil {
		ev = ev.Int64("chat_id", ctx.EffectiveChat.Id)
	}
	ev.Msg("Error while processing update")
	return ext.DispatcherActionNoop
}
