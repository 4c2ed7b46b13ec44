package service

import (
	"testing"
	"time"

	"cashly/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestEnsureCreditCardPayment(t *testing.T) {
	db, mock := newMockGorm(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "credit_card_payments" .* ON CONFLICT \("user_id","account_id","title","due_date"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	due := time.Date(2026, 9, 5, 14, 30, 0, 0, time.Local)
	err := EnsureCreditCardPayment(db, 1, 2, "Streaming", 29.90, due)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCreditCardPayment_DuplicateIsNoop(t *testing.T) {
	db, mock := newMockGorm(t)

	// conflict: the insert returns no rows and no error
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "credit_card_payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	due := time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local)
	err := EnsureCreditCardPayment(db, 1, 2, "Streaming", 29.90, due)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceRecurringBill(t *testing.T) {
	db, mock := newMockGorm(t)

	bill := &models.RecurringBill{
		ID:          3,
		UserID:      1,
		Title:       "Rent",
		Amount:      1800,
		Frequency:   models.FrequencyMonthly,
		NextDueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local),
		Active:      true,
	}

	// no linked account: only the due date moves
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recurring_bills"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, AdvanceRecurringBill(db, bill))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceRecurringBill_CreditCardWritesInstallment(t *testing.T) {
	db, mock := newMockGorm(t)

	accountID := uint(2)
	bill := &models.RecurringBill{
		ID:          3,
		UserID:      1,
		AccountID:   &accountID,
		Title:       "Streaming",
		Amount:      29.90,
		Frequency:   models.FrequencyMonthly,
		NextDueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local),
		Active:      true,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "type"}).
			AddRow(2, 1, "Visa", "credit_card"))
	mock.ExpectQuery(`INSERT INTO "credit_card_payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectExec(`UPDATE "recurring_bills"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, AdvanceRecurringBill(db, bill))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceRecurringBill_UnknownFrequency(t *testing.T) {
	db, mock := newMockGorm(t)

	bill := &models.RecurringBill{
		ID:          3,
		UserID:      1,
		Frequency:   "daily",
		NextDueDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local),
	}

	err := AdvanceRecurringBill(db, bill)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
