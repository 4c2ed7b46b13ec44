package api

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"cashly/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurringRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewRecurringBillHandler(testNotifier())
	router.POST("/recurring-bills", h.Create)
	router.POST("/recurring-bills/:id/advance", h.Advance)
	return router
}

func billRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "account_id", "title", "amount", "frequency", "next_due_date", "active"})
}

func TestRecurringBillHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "recurring_bills"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	// due far outside the look-ahead window, so no notification
	due := time.Now().AddDate(0, 0, 60).Format(service.DateLayout)
	body := fmt.Sprintf(`{"title":"Rent","amount":1800,"frequency":"monthly","next_due_date":"%s"}`, due)
	req := httptest.NewRequest("POST", "/recurring-bills", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	recurringRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Rent")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringBillHandler_Create_DueSoonRaisesNotification(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "recurring_bills"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	// within the window: deduplicated notification plus the email gate
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "status"}).
			AddRow(1, "maria", "maria@example.com", "active"))
	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "notifications_enabled"}).
			AddRow(7, 1, true))

	due := time.Now().AddDate(0, 0, 2).Format(service.DateLayout)
	body := fmt.Sprintf(`{"title":"Streaming","amount":29.90,"frequency":"monthly","next_due_date":"%s"}`, due)
	req := httptest.NewRequest("POST", "/recurring-bills", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	recurringRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringBillHandler_Create_BadFrequency(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	body := `{"title":"Rent","amount":1800,"frequency":"daily","next_due_date":"2026-09-05"}`
	req := httptest.NewRequest("POST", "/recurring-bills", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	recurringRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestRecurringBillHandler_Advance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// due and its advanced date both land outside the look-ahead window
	due := service.StartOfDay(time.Now().AddDate(0, 0, 10))
	advanced := due.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT .* FROM "recurring_bills"`).
		WillReturnRows(billRows().AddRow(3, 1, nil, "Rent", 1800.0, "monthly", due, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recurring_bills"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT .* FROM "recurring_bills"`).
		WillReturnRows(billRows().AddRow(3, 1, nil, "Rent", 1800.0, "monthly", advanced, true))

	req := httptest.NewRequest("POST", "/recurring-bills/3/advance", nil)
	w := httptest.NewRecorder()
	recurringRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), advanced.Format(service.DateLayout))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringBillHandler_Advance_DueSoonRaisesNotification(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// weekly bill due today advances to a date inside the window
	due := service.StartOfDay(time.Now())
	advanced := due.AddDate(0, 0, 7)

	mock.ExpectQuery(`SELECT .* FROM "recurring_bills"`).
		WillReturnRows(billRows().AddRow(3, 1, nil, "Gym", 80.0, "weekly", due, true))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recurring_bills"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT .* FROM "recurring_bills"`).
		WillReturnRows(billRows().AddRow(3, 1, nil, "Gym", 80.0, "weekly", advanced, true))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "status"}).
			AddRow(1, "maria", "maria@example.com", "active"))
	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "notifications_enabled"}).
			AddRow(7, 1, true))

	req := httptest.NewRequest("POST", "/recurring-bills/3/advance", nil)
	w := httptest.NewRecorder()
	recurringRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringBillHandler_Advance_InactiveBill(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	due := time.Date(2026, 9, 5, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery(`SELECT .* FROM "recurring_bills"`).
		WillReturnRows(billRows().AddRow(3, 1, nil, "Rent", 1800.0, "monthly", due, false))

	req := httptest.NewRequest("POST", "/recurring-bills/3/advance", nil)
	w := httptest.NewRecorder()
	recurringRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "inactive")
	require.NoError(t, mock.ExpectationsWereMet())
}
