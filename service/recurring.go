package service

import (
	"time"

	"cashly/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateLayout is the calendar-date wire format.
const DateLayout = "2006-01-02"

// NextDueDate returns the next occurrence after start for the given
// frequency as a calendar-date string. An empty or unparseable start
// yields "". Monthly arithmetic clamps per time.AddDate (Jan 31 ->
// Mar 3 style normalization).
func NextDueDate(start, frequency string) string {
	if start == "" {
		return ""
	}
	t, err := time.ParseInLocation(DateLayout, start, time.Local)
	if err != nil {
		return ""
	}
	switch frequency {
	case models.FrequencyWeekly:
		t = t.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		t = t.AddDate(0, 1, 0)
	case models.FrequencyYearly:
		t = t.AddDate(1, 0, 0)
	default:
		return ""
	}
	return t.Format(DateLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EnsureCreditCardPayment inserts the installment row for (user, card,
// title, due date) if it does not exist yet. The due date is
// normalized to start of day and the insert relies on the composite
// unique index: a concurrent duplicate is dropped by the store, not by
// an application-level existence check.
func EnsureCreditCardPayment(db *gorm.DB, userID, accountID uint, title string, amount float64, dueDate time.Time) error {
	payment := models.CreditCardPayment{
		UserID:            userID,
		AccountID:         accountID,
		Title:             title,
		Amount:            amount,
		DueDate:           StartOfDay(dueDate),
		InstallmentNo:     1,
		TotalInstallments: 1,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "account_id"},
			{Name: "title"},
			{Name: "due_date"},
		},
		DoNothing: true,
	}).Create(&payment).Error
}

// AdvanceRecurringBill moves the bill's next due date one frequency
// step forward and, when the bill charges a credit-card account,
// ensures the matching installment row. The bill row and the
// installment are written together.
func AdvanceRecurringBill(db *gorm.DB, bill *models.RecurringBill) error {
	next := NextDueDate(bill.NextDueDate.Format(DateLayout), bill.Frequency)
	if next == "" {
		return gorm.ErrInvalidData
	}
	nextTime, err := time.ParseInLocation(DateLayout, next, time.Local)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if bill.AccountID != nil {
			var account models.Account
			if err := tx.Where("id = ? AND user_id = ?", *bill.AccountID, bill.UserID).First(&account).Error; err == nil &&
				account.Type == models.AccountTypeCreditCard {
				if err := EnsureCreditCardPayment(tx, bill.UserID, account.ID, bill.Title, bill.Amount, bill.NextDueDate); err != nil {
					return err
				}
			}
		}
		return tx.Model(bill).Update("next_due_date", nextTime).Error
	})
}
