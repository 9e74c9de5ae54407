package ledger

import (
	"context"
	"errors"

	"github.com/linguabot/linguabot/app/repository"
)

// ErrInsufficientCredits is returned when a debit would take the balance
// below zero. The balance is left untouched in that case.
var ErrInsufficientCredits = errors.New("insufficient credits")

// TokensPerCredit is the exchange rate between LLM tokens and credits.
const TokensPerCredit = 10

// CostForTokens converts an LLM token count into credits, rounding up.
// Every completed translation costs at least one credit.
func CostForTokens(tokens int) int64 {
	if tokens <= 0 {
		return 1
	}
	return int64((tokens + TokensPerCredit - 1) / TokensPerCredit)
}

// Ledger enforces non-negative credit balances. Both operations are
// provider-side atomic arithmetic; there is no read-modify-write anywhere
// in this package, so racing debits on a shared store stay safe.
type Ledger struct {
	accounts repository.AccountRepository
}

func New(accounts repository.AccountRepository) *Ledger {
	return &Ledger{accounts: accounts}
}

// Debit removes amount credits from the account and bumps its translation
// counter, as one conditional update. Returns ErrInsufficientCredits without
// any partial effect when the balance does not cover the amount.
func (l *Ledger) Debit(ctx context.Context, accountID uint, amount int64) error {
	_ = ctx
	if amount <= 0 {
		return errors.New("debit amount must be positive")
	}
	ok, err := l.accounts.DebitCredits(accountID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientCredits
	}
	return nil
}

// Credit adds amount credits to the account (subscription grants).
func (l *Ledger) Credit(ctx context.Context, accountID uint, amount int64) error {
	_ = ctx
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}
	return l.accounts.AddCredits(accountID, amount)
}
