package lending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/library-server/internal/config"
	"github.com/library-server/internal/model"
)

func defaultLoanConfig() config.LoanConfig {
	return config.LoanConfig{
		NewBookWindowDays:  90,
		ScarcityThreshold:  5,
		ShortPeriodDays:    7,
		StandardPeriodDays: 28,
	}
}

func TestLoanPolicy_Period(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name     string
		bookAge  time.Duration
		copies   int
		expected time.Duration
	}{
		{
			name:     "new_book_short_period_regardless_of_copies",
			bookAge:  0,
			copies:   100,
			expected: 7 * day,
		},
		{
			name:     "book_exactly_at_new_window_still_short",
			bookAge:  90 * day,
			copies:   100,
			expected: 7 * day,
		},
		{
			name:     "old_book_with_enough_copies_standard",
			bookAge:  200 * day,
			copies:   6,
			expected: 28 * day,
		},
		{
			name:     "old_scarce_title_short",
			bookAge:  200 * day,
			copies:   3,
			expected: 7 * day,
		},
		{
			name:     "old_book_at_scarcity_threshold_standard",
			bookAge:  200 * day,
			copies:   5,
			expected: 28 * day,
		},
		{
			name:     "old_book_just_below_threshold_short",
			bookAge:  200 * day,
			copies:   4,
			expected: 7 * day,
		},
	}

	policy := NewLoanPolicy(defaultLoanConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := &model.Book{
				ID:        "book-1",
				ISBN:      "978-0-13-468599-1",
				CreatedAt: now.Add(-tt.bookAge),
			}
			assert.Equal(t, tt.expected, policy.Period(book, tt.copies, now))
		})
	}
}

func TestLoanPolicy_NewRuleWinsOverScarcity(t *testing.T) {
	now := time.Now()
	policy := NewLoanPolicy(defaultLoanConfig())

	// A book added today lends short even when the title has plenty of
	// copies, and a scarce old title lends short too; only old,
	// well-stocked titles get the standard period.
	fresh := &model.Book{CreatedAt: now}
	assert.Equal(t, 7*24*time.Hour, policy.Period(fresh, 50, now))

	old := &model.Book{CreatedAt: now.Add(-365 * 24 * time.Hour)}
	assert.Equal(t, 28*24*time.Hour, policy.Period(old, 50, now))
}
