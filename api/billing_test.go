package api

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"cashly/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBillingProvider struct {
	session    *service.CheckoutSession
	sessionErr error
	sub        *service.Subscription
	subErr     error

	cancelCalls int
}

func (f *fakeBillingProvider) GetCheckoutSession(sessionID string) (*service.CheckoutSession, error) {
	return f.session, f.sessionErr
}

func (f *fakeBillingProvider) CancelAtPeriodEnd(subscriptionID string) (*service.Subscription, error) {
	f.cancelCalls++
	return f.sub, f.subErr
}

func billingRouter(provider BillingProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewBillingHandler(provider)
	router.POST("/billing/confirm", h.Confirm)
	router.POST("/billing/cancel", h.Cancel)
	return router
}

func settingsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "theme", "currency", "notifications_enabled",
		"billing_customer_id", "billing_subscription_id", "is_pro",
	})
}

func TestBillingHandler_Confirm(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{
		session: &service.CheckoutSession{
			ID:            "cs_test_1",
			PaymentStatus: "paid",
			Customer:      "cus_123",
			Subscription:  "sub_456",
			Metadata:      map[string]string{"user_id": "1"},
		},
	}

	// settings row exists
	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "", "", false))

	// billing linkage written
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// reload
	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "cus_123", "sub_456", true))

	body := `{"session_id":"cs_test_1"}`
	req := httptest.NewRequest("POST", "/billing/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "sub_456")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingHandler_Confirm_NotPaid(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{
		session: &service.CheckoutSession{
			ID:            "cs_test_1",
			PaymentStatus: "unpaid",
		},
	}

	body := `{"session_id":"cs_test_1"}`
	req := httptest.NewRequest("POST", "/billing/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	// rejected without touching settings
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "not paid")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingHandler_Confirm_UserMismatch(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{
		session: &service.CheckoutSession{
			ID:            "cs_test_1",
			PaymentStatus: "paid",
			Metadata:      map[string]string{"user_id": "999"},
		},
	}

	body := `{"session_id":"cs_test_1"}`
	req := httptest.NewRequest("POST", "/billing/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingHandler_Confirm_MissingUserMetadata(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{
		session: &service.CheckoutSession{
			ID:            "cs_test_1",
			PaymentStatus: "paid",
		},
	}

	body := `{"session_id":"cs_test_1"}`
	req := httptest.NewRequest("POST", "/billing/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	// a session without a user reference is rejected outright
	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "no user reference")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingHandler_Confirm_ProviderDown(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{sessionErr: errors.New("billing provider error (500)")}

	body := `{"session_id":"cs_test_1"}`
	req := httptest.NewRequest("POST", "/billing/confirm", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	assert.Equal(t, 502, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingHandler_Cancel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{
		sub: &service.Subscription{ID: "sub_456", Customer: "cus_123", Status: "active", CancelAtPeriodEnd: true},
	}

	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "cus_123", "sub_456", true))

	// linkage written back from the provider's subscription object
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// reload
	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "cus_123", "sub_456", true))

	req := httptest.NewRequest("POST", "/billing/cancel", nil)
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 1, provider.cancelCalls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillingHandler_Cancel_NoSubscription(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	provider := &fakeBillingProvider{}

	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "", "", false))

	req := httptest.NewRequest("POST", "/billing/cancel", nil)
	w := httptest.NewRecorder()
	billingRouter(provider).ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, 0, provider.cancelCalls)
	require.NoError(t, mock.ExpectationsWereMet())
}
