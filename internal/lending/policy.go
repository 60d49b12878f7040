package lending

import (
	"time"

	"github.com/library-server/internal/config"
	"github.com/library-server/internal/model"
)

// LoanPolicy computes the allowed loan period for a book. The constants
// come from configuration and are immutable after startup.
type LoanPolicy struct {
	newBookWindow  time.Duration
	scarcity       int
	shortPeriod    time.Duration
	standardPeriod time.Duration
}

func NewLoanPolicy(cfg config.LoanConfig) LoanPolicy {
	day := 24 * time.Hour
	return LoanPolicy{
		newBookWindow:  time.Duration(cfg.NewBookWindowDays) * day,
		scarcity:       cfg.ScarcityThreshold,
		shortPeriod:    time.Duration(cfg.ShortPeriodDays) * day,
		standardPeriod: time.Duration(cfg.StandardPeriodDays) * day,
	}
}

// Period returns the loan duration for a book given the number of
// catalog copies sharing its ISBN. Recently added books lend for the
// short period; so do scarce titles. The two rules are kept separate
// on purpose: they are distinct policies that may diverge, and the
// "new" rule wins regardless of copy count.
func (p LoanPolicy) Period(book *model.Book, copies int, now time.Time) time.Duration {
	if now.Sub(book.CreatedAt) <= p.newBookWindow {
		return p.shortPeriod
	}
	if copies < p.scarcity {
		return p.shortPeriod
	}
	return p.standardPeriod
}
