package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	responder core.Responder
	sender    *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	responder core.Responder,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		responder: responder,
		sender:    newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleMessage)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// CallerID maps a chat to a conversation caller.
func CallerID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx, ok := c.Get(baseContextKey).(context.Context)
	if !ok {
		ctx = context.Background()
	}

	text := c.Text()
	// "/start" opens every chat; answer it like an empty message.
	if text == "/start" {
		text = ""
	}

	_ = c.Notify(tele.Typing)
	reply := b.responder.Respond(ctx, CallerID(c.Chat().ID), text)
	return b.sender.sendReply(ctx, c.Chat(), reply)
}
