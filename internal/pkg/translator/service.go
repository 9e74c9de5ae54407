package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linguabot/linguabot/app/models"
	"github.com/linguabot/linguabot/app/repository"
	"github.com/linguabot/linguabot/internal/pkg/ledger"
)

// ErrInvalidTargetLanguage is returned for target codes outside the catalog.
var ErrInvalidTargetLanguage = errors.New("unsupported target language")

// ErrTranslationFailed wraps failures of the external model call. Nothing is
// charged and nothing is recorded when it occurs.
var ErrTranslationFailed = errors.New("translation service unavailable")

const externalCallTimeout = 30 * time.Second

// Engine is the external translation capability.
type Engine interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, int, error)
	ModelName() string
}

// Result describes one completed translation.
type Result struct {
	TranslatedText   string
	TokensUsed       int
	CreditsCharged   int64
	CreditsRemaining int64
}

// Service runs the full translation flow: credit pre-check, external call,
// atomic debit, record append.
type Service struct {
	accounts     repository.AccountRepository
	translations repository.TranslationRepository
	credits      *ledger.Ledger
	engine       Engine
}

func NewService(accounts repository.AccountRepository, translations repository.TranslationRepository, credits *ledger.Ledger, engine Engine) *Service {
	return &Service{
		accounts:     accounts,
		translations: translations,
		credits:      credits,
		engine:       engine,
	}
}

// Translate translates text for an account. The debit happens only after a
// successful external call, as one conditional update; a failed debit means
// no record is appended and no credits move.
func (s *Service) Translate(ctx context.Context, account *models.Account, text, sourceLang, targetLang string) (*Result, error) {
	if _, ok := LanguageByCode(targetLang); !ok {
		return nil, ErrInvalidTargetLanguage
	}
	// Cheap pre-check so an empty account never pays for an external call.
	if account.CreditsRemaining < 1 {
		return nil, ledger.ErrInsufficientCredits
	}

	callCtx, cancel := context.WithTimeout(ctx, externalCallTimeout)
	defer cancel()
	translated, tokens, err := s.engine.Translate(callCtx, text, sourceLang, targetLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	cost := ledger.CostForTokens(tokens)
	if err := s.credits.Debit(ctx, account.ID, cost); err != nil {
		return nil, err
	}

	record := &models.Translation{
		AccountID:      account.ID,
		SourceText:     text,
		TranslatedText: translated,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Model:          s.engine.ModelName(),
		TokensUsed:     tokens,
	}
	if err := s.translations.Create(record); err != nil {
		return nil, err
	}

	remaining := account.CreditsRemaining - cost
	if fresh, err := s.accounts.GetByID(account.ID); err == nil {
		remaining = fresh.CreditsRemaining
	}

	return &Result{
		TranslatedText:   translated,
		TokensUsed:       tokens,
		CreditsCharged:   cost,
		CreditsRemaining: remaining,
	}, nil
}

// History returns the account's most recent translations, newest first.
func (s *Service) History(accountID uint, limit int) ([]models.Translation, error) {
	return s.translations.RecentByAccount(accountID, limit)
}
