package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/linguabot/linguabot/app/controllers"
	"github.com/linguabot/linguabot/app/repository"
	"github.com/linguabot/linguabot/internal/pkg/billing"
	"github.com/linguabot/linguabot/internal/pkg/bot"
	"github.com/linguabot/linguabot/internal/pkg/cache"
	"github.com/linguabot/linguabot/internal/pkg/constants"
	"github.com/linguabot/linguabot/internal/pkg/database"
	"github.com/linguabot/linguabot/internal/pkg/env"
	"github.com/linguabot/linguabot/internal/pkg/ledger"
	"github.com/linguabot/linguabot/internal/pkg/router"
	"github.com/linguabot/linguabot/internal/pkg/session"
	"github.com/linguabot/linguabot/internal/pkg/translator"
)

func main() {
	ctx := context.Background()

	app, tgBot, closeFn := NewApplication(ctx)
	defer closeFn()

	go tgBot.Run(ctx)
	log.Println("🌍 AI Translator Bot started")

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication(ctx context.Context) (*fiber.App, *bot.Bot, func()) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	factory := repository.NewFactory(database.GetDB())
	accounts := factory.GetAccountRepository()
	translations := factory.GetTranslationRepository()
	credits := ledger.New(accounts)

	engine, err := translator.NewGeminiClient(ctx, env.GetEnv("GEMINI_API_KEY", ""), env.GetEnv("GEMINI_MODEL", ""))
	if err != nil {
		log.Fatalf("Failed to initialize translation engine: %v", err)
	}

	translationSvc := translator.NewService(accounts, translations, credits, engine)
	sessions := session.NewRedisStore(cache.GetClient(), session.DefaultTTL)
	payments := billing.NewStripeClientFromEnv()
	billingSvc := billing.NewService(billing.NewRepository(database.GetDB()), accounts, credits)

	tgBot, err := bot.New(env.GetEnv("TELEGRAM_BOT_TOKEN", ""), accounts, sessions, translationSvc, payments)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	controllers.InitializeWebhookController(billingSvc, payments)

	app := fiber.New(fiber.Config{
		ReadTimeout: 30 * time.Second,
	})
	app.Use(recover.New(), logger.New())
	app.Get(constants.MetricsRoute, monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app, tgBot, func() {
		_ = engine.Close()
	}
}
