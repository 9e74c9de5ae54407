package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/internal/pkg/ledger"
	"github.com/linguabot/linguabot/internal/pkg/session"
	"github.com/linguabot/linguabot/internal/pkg/translator"
)

const (
	callbackUpgradePro        = "upgrade_pro"
	callbackUpgradeEnterprise = "upgrade_enterprise"
	callbackTranslatePrefix   = "trans_"
)

const historyLimit = 5

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		account, err := b.resolveAccount(msg.Chat.ID, msg.From)
		if err != nil {
			b.reply(chatID, genericErrorText)
			return
		}
		b.replyMarkdown(chatID, welcomeMessage(account))
	case "help":
		b.replyMarkdown(chatID, helpMessage())
	case "lang":
		b.replyMarkdown(chatID, languagesMessage())
	case "status":
		account, err := b.resolveAccount(msg.Chat.ID, msg.From)
		if err != nil {
			b.reply(chatID, genericErrorText)
			return
		}
		b.replyMarkdown(chatID, statusMessage(account))
	case "upgrade":
		b.handleUpgradeCommand(ctx, msg)
	case "cancel":
		b.handleCancelCommand(ctx, msg)
	case "history":
		b.handleHistoryCommand(ctx, msg)
	default:
		b.reply(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) handleUpgradeCommand(ctx context.Context, msg *tgbotapi.Message) {
	_ = ctx
	chatID := msg.Chat.ID
	account, err := b.resolveAccount(chatID, msg.From)
	if err != nil {
		b.reply(chatID, genericErrorText)
		return
	}

	if account.Tier != models.TierFree {
		b.reply(chatID, fmt.Sprintf("You're already on the %s plan! 🎉", strings.ToUpper(account.Tier)))
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔥 Upgrade to Pro ($9.99/mo)", callbackUpgradePro),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏢 Go Enterprise ($99/mo)", callbackUpgradeEnterprise),
		),
	)
	b.replyMarkdownWithKeyboard(chatID, upgradeMessage(), keyboard)
}

// handleCancelCommand asks Stripe to cancel the subscription. The account
// itself is not touched here; the tier and status change arrive through the
// subscription-deleted webhook like every other lifecycle transition.
func (b *Bot) handleCancelCommand(ctx context.Context, msg *tgbotapi.Message) {
	_ = ctx
	chatID := msg.Chat.ID
	account, err := b.resolveAccount(chatID, msg.From)
	if err != nil {
		b.reply(chatID, genericErrorText)
		return
	}

	if account.SubscriptionID == "" || !account.IsPremium() {
		b.reply(chatID, "You don't have an active subscription to cancel.")
		return
	}

	if err := b.payments.CancelSubscription(account.SubscriptionID); err != nil {
		log.Printf("Failed to cancel subscription for account %d: %v", account.ID, err)
		b.reply(chatID, genericErrorText)
		return
	}
	b.reply(chatID, "✅ Your subscription has been canceled. You keep your remaining credits.")
}

func (b *Bot) handleHistoryCommand(ctx context.Context, msg *tgbotapi.Message) {
	_ = ctx
	chatID := msg.Chat.ID
	account, err := b.resolveAccount(chatID, msg.From)
	if err != nil {
		b.reply(chatID, genericErrorText)
		return
	}

	history, err := b.translator.History(account.ID, historyLimit)
	if err != nil {
		b.reply(chatID, genericErrorText)
		return
	}
	if len(history) == 0 {
		b.reply(chatID, "You haven't made any translations yet. Send me some text! 📝")
		return
	}
	b.replyMarkdown(chatID, historyMessage(history))
}

// handleText covers both halves of the conversation: free text starts a
// session, and the next text for that chat is read as the target language.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	pending, err := b.sessions.Resolve(ctx, chatID)
	if err != nil {
		log.Printf("Failed to resolve session for chat %d: %v", chatID, err)
		b.reply(chatID, genericErrorText)
		return
	}

	if pending != nil {
		target := strings.ToLower(text)
		if _, ok := translator.LanguageByCode(target); !ok {
			// Invalid choice ends the session so the chat never gets stuck.
			b.endSession(ctx, chatID)
			b.reply(chatID, "❌ Invalid language code. Use /lang to see all languages.\n\nTry again or send new text to start over.")
			return
		}
		b.runTranslation(ctx, msg.Chat.ID, msg.From, pending, target)
		b.endSession(ctx, chatID)
		return
	}

	// New translation: detect the language, remember the text, ask where to.
	detected := translator.DetectLanguage(text)
	if err := b.sessions.Begin(ctx, chatID, session.Pending{SourceLang: detected, SourceText: text}); err != nil {
		log.Printf("Failed to begin session for chat %d: %v", chatID, err)
		b.reply(chatID, genericErrorText)
		return
	}
	b.replyMarkdownWithKeyboard(chatID, detectedMessage(detected, text), languageKeyboard())
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}
	chatID := query.Message.Chat.ID
	data := query.Data

	switch {
	case data == callbackUpgradePro || data == callbackUpgradeEnterprise:
		b.handleUpgradeCallback(ctx, chatID, query)
	case strings.HasPrefix(data, callbackTranslatePrefix):
		b.handleTranslateCallback(ctx, chatID, query)
	default:
		b.answerCallback(query.ID, "")
	}
}

func (b *Bot) handleUpgradeCallback(ctx context.Context, chatID int64, query *tgbotapi.CallbackQuery) {
	tier := models.TierPro
	if query.Data == callbackUpgradeEnterprise {
		tier = models.TierEnterprise
	}

	account, err := b.resolveAccount(chatID, query.From)
	if err != nil {
		b.answerCallback(query.ID, "Error creating checkout link")
		return
	}

	if account.StripeCustomerID == "" {
		customerRef, err := b.payments.CreateCustomer(checkoutEmail(chatID, query.From), chatID)
		if err != nil {
			log.Printf("Failed to create payment customer for chat %d: %v", chatID, err)
			b.answerCallback(query.ID, "Error creating checkout link")
			return
		}
		if err := b.accounts.LinkStripeCustomer(account.ID, customerRef); err != nil {
			log.Printf("Failed to link payment customer for account %d: %v", account.ID, err)
			b.answerCallback(query.ID, "Error creating checkout link")
			return
		}
		// The link is set-once; re-read so a concurrent first link wins.
		if account, err = b.accounts.GetByID(account.ID); err != nil {
			b.answerCallback(query.ID, "Error creating checkout link")
			return
		}
	}

	checkoutURL, err := b.payments.CreateCheckoutSession(account.StripeCustomerID, tier)
	if err != nil {
		log.Printf("Failed to create checkout session for account %d: %v", account.ID, err)
		b.answerCallback(query.ID, "Error creating checkout link")
		return
	}

	b.answerCallback(query.ID, "")
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔗 [Click here to complete your %s upgrade](%s)", strings.ToUpper(tier), checkoutURL))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send checkout link to chat %d: %v", chatID, err)
	}
}

func (b *Bot) handleTranslateCallback(ctx context.Context, chatID int64, query *tgbotapi.CallbackQuery) {
	target := strings.TrimPrefix(query.Data, callbackTranslatePrefix)

	pending, err := b.sessions.Resolve(ctx, chatID)
	if err != nil || pending == nil {
		b.answerCallback(query.ID, "Session expired. Send text again.")
		return
	}

	b.answerCallback(query.ID, "")
	b.runTranslation(ctx, chatID, query.From, pending, target)
	b.endSession(ctx, chatID)
}

func (b *Bot) runTranslation(ctx context.Context, chatID int64, from *tgbotapi.User, pending *session.Pending, target string) {
	account, err := b.resolveAccount(chatID, from)
	if err != nil {
		b.reply(chatID, genericErrorText)
		return
	}

	res, err := b.translator.Translate(ctx, account, pending.SourceText, pending.SourceLang, target)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientCredits):
			b.reply(chatID, "❌ You're out of credits. Use /upgrade to get more.")
		case errors.Is(err, translator.ErrInvalidTargetLanguage):
			b.reply(chatID, "❌ Invalid language code. Use /lang to see all languages.")
		default:
			log.Printf("Translation failed for account %d: %v", account.ID, err)
			b.reply(chatID, "❌ Translation failed. Please try again later.")
		}
		return
	}

	b.replyMarkdown(chatID, translationCompleteMessage(pending, target, res))
}

func (b *Bot) resolveAccount(chatID int64, from *tgbotapi.User) (*models.Account, error) {
	username, firstName := "", ""
	if from != nil {
		username = from.UserName
		firstName = from.FirstName
	}
	account, err := b.accounts.GetOrCreate(chatID, username, firstName)
	if err != nil {
		log.Printf("Failed to resolve account for chat %d: %v", chatID, err)
	}
	return account, err
}

func (b *Bot) endSession(ctx context.Context, chatID int64) {
	if err := b.sessions.End(ctx, chatID); err != nil {
		log.Printf("Failed to end session for chat %d: %v", chatID, err)
	}
}

// languageKeyboard offers the first ten catalog languages as quick targets.
func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 5)
	langs := translator.SupportedLanguages[:10]
	for i := 0; i < len(langs); i += 2 {
		row := tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(langs[i].Name, callbackTranslatePrefix+langs[i].Code),
		)
		if i+1 < len(langs) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(langs[i+1].Name, callbackTranslatePrefix+langs[i+1].Code))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// checkoutEmail derives a placeholder email for Stripe customer creation.
// Usernames are optional and mutable, so this is display metadata only; the
// customer reference stored on the account is the real link.
func checkoutEmail(chatID int64, from *tgbotapi.User) string {
	if from != nil && from.UserName != "" {
		return from.UserName + "@telegram.bot"
	}
	return fmt.Sprintf("%d@telegram.bot", chatID)
}
