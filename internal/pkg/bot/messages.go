package bot

import (
	"fmt"
	"strings"

	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/internal/pkg/billing"
	"github.com/linguabot/linguabot/internal/pkg/session"
	"github.com/linguabot/linguabot/internal/pkg/translator"
)

const genericErrorText = "❌ Something went wrong. Please try again later."

const previewLength = 50

func welcomeMessage(account *models.Account) string {
	var sb strings.Builder
	sb.WriteString("🌍 *Welcome to AI Translator Bot!*\n\n")
	sb.WriteString("*Your Status:*\n")
	fmt.Fprintf(&sb, "• Tier: %s\n", strings.ToUpper(account.Tier))
	fmt.Fprintf(&sb, "• Credits: %d\n", account.CreditsRemaining)
	fmt.Fprintf(&sb, "• Total translations: %d\n\n", account.TotalTranslations)
	sb.WriteString("*What I can do:*\n")
	sb.WriteString("📝 Translate text between languages\n")
	sb.WriteString("🔮 Auto-detect source language\n")
	sb.WriteString("💳 Upgrade to Pro/Enterprise for more credits\n\n")
	sb.WriteString("*Commands:*\n")
	sb.WriteString("/history - View translation history\n")
	sb.WriteString("/upgrade - Upgrade your plan\n")
	sb.WriteString("/status - Check your account status\n")
	sb.WriteString("/lang - List all supported languages\n")
	sb.WriteString("/help - Get help\n\n")
	sb.WriteString("Just send me any text to translate! I'll detect the language automatically. 🚀")
	return sb.String()
}

func helpMessage() string {
	return `📚 *Help Guide*

*How to translate:*
1️⃣ Send me any text
2️⃣ I'll detect the language
3️⃣ I'll ask for target language
4️⃣ I'll send the translation

*Commands:*
/history - See past translations
/upgrade - Get more credits
/cancel - Cancel your subscription
/status - Check credits and plan
/lang - List all supported languages

*Example:*
1. Send: "Hello, how are you?"
2. I'll say: "Detected: English. What language to translate to?"
3. Reply: "es"
4. I'll send: "Hola, ¿cómo estás?"

🚀 *Happy translating!*`
}

func languagesMessage() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🌍 *Supported Languages (%d)*\n\n", len(translator.SupportedLanguages))
	for i, l := range translator.SupportedLanguages {
		fmt.Fprintf(&sb, "%d. %s (%s) - %s\n", i+1, l.Name, l.Code, l.NativeName)
	}
	sb.WriteString("\nReply with the language code when prompted.")
	return sb.String()
}

func statusMessage(account *models.Account) string {
	tier, _ := billing.TierByID(account.Tier)

	var sb strings.Builder
	sb.WriteString("📊 *Your Account Status*\n\n")
	fmt.Fprintf(&sb, "*Plan:* %s\n", strings.ToUpper(account.Tier))
	if account.Tier == models.TierFree {
		sb.WriteString("💰 *Upgrade to Pro:* 10,000 credits/month\n")
	}
	fmt.Fprintf(&sb, "\n*Credits:* %d/%d\n", account.CreditsRemaining, tier.CreditsPerMonth)
	fmt.Fprintf(&sb, "*Total Translations:* %d\n", account.TotalTranslations)
	fmt.Fprintf(&sb, "*Member Since:* %s\n\n", account.CreatedAt.Format("2006-01-02"))
	if account.StripeCustomerID != "" {
		sb.WriteString("✅ Premium Member")
	} else {
		sb.WriteString("🆓 Free Tier")
	}
	return sb.String()
}

func upgradeMessage() string {
	var sb strings.Builder
	sb.WriteString("💎 *Upgrade Your Plan*\n")
	for _, tier := range billing.Tiers() {
		if tier.PriceUSD == 0 {
			fmt.Fprintf(&sb, "\n*%s:*\n", tier.Name)
		} else {
			fmt.Fprintf(&sb, "\n*%s - $%.2f/month:*\n", tier.Name, tier.PriceUSD)
		}
		for _, feature := range tier.Features {
			fmt.Fprintf(&sb, "• %s\n", feature)
		}
	}
	sb.WriteString("\n*Ready to upgrade?*\n")
	sb.WriteString("1. Click a button below\n")
	sb.WriteString("2. Complete payment via Stripe\n")
	sb.WriteString("3. Credits added instantly!")
	return sb.String()
}

func historyMessage(history []models.Translation) string {
	var sb strings.Builder
	sb.WriteString("📜 *Recent Translations*\n")
	for i, t := range history {
		fmt.Fprintf(&sb, "\n%d. *%s → %s*\n", i+1, strings.ToUpper(t.SourceLang), strings.ToUpper(t.TargetLang))
		fmt.Fprintf(&sb, "Source: \"%s\"\n", truncate(t.SourceText, previewLength))
		fmt.Fprintf(&sb, "Translated: \"%s\"\n", truncate(t.TranslatedText, previewLength))
		fmt.Fprintf(&sb, "%s\n", t.CreatedAt.Format("2006-01-02"))
	}
	return sb.String()
}

func detectedMessage(detectedLang, text string) string {
	return fmt.Sprintf("🔮 *Detected: %s*\n\n*Text:*\n%s\n\n*What language to translate to?*",
		translator.LanguageName(detectedLang), text)
}

func translationCompleteMessage(pending *session.Pending, targetLang string, res *translator.Result) string {
	return fmt.Sprintf("✅ *Translation Complete*\n\n*Original (%s):*\n%s\n\n*Translated (%s):*\n%s\n\n📊 Tokens used: %d | Credits remaining: %d",
		strings.ToUpper(pending.SourceLang),
		pending.SourceText,
		strings.ToUpper(targetLang),
		res.TranslatedText,
		res.TokensUsed,
		res.CreditsRemaining,
	)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
