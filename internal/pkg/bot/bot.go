package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linguabot/linguabot/app/repository"
	"github.com/linguabot/linguabot/internal/pkg/billing"
	"github.com/linguabot/linguabot/internal/pkg/session"
	"github.com/linguabot/linguabot/internal/pkg/translator"
)

// Bot wires the Telegram update stream to the translation flow, the session
// cache and the upgrade/checkout path.
type Bot struct {
	api        *tgbotapi.BotAPI
	accounts   repository.AccountRepository
	sessions   session.ConversationStore
	translator *translator.Service
	payments   *billing.StripeClient
}

// New creates a bot from an authorized Telegram API token.
func New(token string, accounts repository.AccountRepository, sessions session.ConversationStore, svc *translator.Service, payments *billing.StripeClient) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Authorized on Telegram account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		accounts:   accounts,
		sessions:   sessions,
		translator: svc,
		payments:   payments,
	}, nil
}

// Run consumes updates via long polling until the context is canceled.
// Each update is handled on its own goroutine so a slow translation call
// never blocks other chats.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) replyMarkdownWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("Failed to answer callback query: %v", err)
	}
}
