package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// correlativoWidth is the zero-padded digit count of issued codes ("CM0000001").
	correlativoWidth = 7
	// maxCorrelativoAttempts bounds retries when two transactions race to
	// lazily create the counter row for a brand-new prefix.
	maxCorrelativoAttempts = 3
)

// ErrCorrelativoContention is returned when the bounded retries on the
// lazy-creation race are exhausted. Callers may retry the whole request.
var ErrCorrelativoContention = errors.New("correlativo contention exhausted")

// Correlativo stores the last issued number for a code prefix.
type Correlativo struct {
	gorm.Model
	Prefix string `json:"prefix" gorm:"column:prefix;uniqueIndex;size:16"`
	Number int    `json:"number" gorm:"column:number;not null"`
}

// FormatCorrelativo renders a counter value as a business code, e.g. ("CM", 7) -> "CM0000007".
func FormatCorrelativo(prefix string, number int) string {
	return fmt.Sprintf("%s%0*d", prefix, correlativoWidth, number)
}

// LockForUpdate adds SELECT ... FOR UPDATE to the query so the matched rows
// stay locked until the transaction ends. SQLite has no row locks and rejects
// the syntax; it serializes writing transactions globally, which gives the
// same guarantee there.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// NextCorrelativo issues the next code for prefix. It must be called inside an
// active transaction: the counter row is read under SELECT ... FOR UPDATE, so
// concurrent callers on the same prefix serialize until the caller commits,
// and a rollback releases the lock with the counter unchanged.
//
// The row is created lazily on first use of a prefix. If two transactions race
// to create it, the unique index on prefix rejects the loser, which retries
// and locks the winner's row instead.
func NextCorrelativo(tx *gorm.DB, prefix string) (string, error) {
	for attempt := 0; attempt < maxCorrelativoAttempts; attempt++ {
		var correlativo Correlativo
		err := LockForUpdate(tx).
			Where("prefix = ?", prefix).
			First(&correlativo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			correlativo = Correlativo{Prefix: prefix, Number: 1}
			createErr := tx.Create(&correlativo).Error
			if createErr == nil {
				return FormatCorrelativo(prefix, correlativo.Number), nil
			}
			// Only losing the unique-index race on prefix is retryable;
			// any other create failure is a real storage error.
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return "", createErr
			}
			continue
		}
		if err != nil {
			return "", err
		}

		correlativo.Number++
		if err := tx.Model(&correlativo).Update("number", correlativo.Number).Error; err != nil {
			return "", err
		}
		return FormatCorrelativo(prefix, correlativo.Number), nil
	}
	return "", ErrCorrelativoContention
}
