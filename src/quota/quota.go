// Package quota enforces the per-user daily and monthly verification
// allowance. Both counters live in one row and every check-and-charge
// happens inside a single transaction, so two concurrent verifications by
// the same user cannot both pass the check.
package quota

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pdevulapally/fakeverifier/src/api/types"
)

// ErrExceeded is returned when charging would cross either limit. The
// caller maps it to HTTP 402 with the remaining counters.
var ErrExceeded = errors.New("quota exceeded")

// ErrNoAccount is returned when no usage row exists for the user. Accounts
// are never created implicitly here.
var ErrNoAccount = errors.New("no usage record for user")

// Remaining is the best-effort counter snapshot returned alongside a
// quota-exceeded response.
type Remaining struct {
	Daily   int64  `json:"daily"`
	Monthly int64  `json:"monthly"`
	Plan    string `json:"plan"`
}

// Ensure atomically verifies that charging cost crosses neither the daily
// nor the monthly limit, resets counters across calendar-day and
// calendar-month boundaries in the user's stored timezone, and increments
// both counters. On ErrExceeded nothing is mutated.
func Ensure(ctx context.Context, db *gorm.DB, uid string, cost int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		read := tx
		// sqlite rejects FOR UPDATE and serializes writers itself.
		if tx.Dialector.Name() != "sqlite" {
			read = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var usage types.TokenUsage
		err := read.First(&usage, "uid = ?", uid).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoAccount
		}
		if err != nil {
			return err
		}

		now := time.Now()
		daily, monthly := rolledCounters(usage, now)

		if daily+cost > usage.LimitDaily || monthly+cost > usage.LimitMonthly {
			return ErrExceeded
		}

		usage.DailyUsed = daily + cost
		usage.Used = monthly + cost
		usage.LastUpdated = now
		return tx.Save(&usage).Error
	})
}

// GetRemaining reads the counters without charging. It applies the same
// boundary rollover logic in memory so a stale row from yesterday reports
// a full daily allowance. Not re-validated against concurrent writers.
func GetRemaining(ctx context.Context, db *gorm.DB, uid string) (*Remaining, error) {
	var usage types.TokenUsage
	err := db.WithContext(ctx).First(&usage, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoAccount
	}
	if err != nil {
		return nil, err
	}

	daily, monthly := rolledCounters(usage, time.Now())
	return &Remaining{
		Daily:   max64(usage.LimitDaily-daily, 0),
		Monthly: max64(usage.LimitMonthly-monthly, 0),
		Plan:    usage.Plan,
	}, nil
}

// rolledCounters returns the effective counters after applying calendar
// boundary resets. Boundaries are compared by calendar parts in the user's
// stored timezone, not by elapsed time, so a DST shift cannot move a reset
// by an hour.
func rolledCounters(usage types.TokenUsage, now time.Time) (daily, monthly int64) {
	loc := location(usage.Timezone)
	last := usage.LastUpdated.In(loc)
	cur := now.In(loc)

	daily = usage.DailyUsed
	monthly = usage.Used

	ly, lm, ld := last.Date()
	cy, cm, cd := cur.Date()

	if ly != cy || lm != cm {
		monthly = 0
		daily = 0
		return
	}
	if ld != cd {
		daily = 0
	}
	return
}

func location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
