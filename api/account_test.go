package api

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewAccountHandler()
	router.POST("/accounts", h.Create)
	router.GET("/accounts", h.List)
	return router
}

func TestAccountHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	body := `{"name":"Nubank","type":"bank","balance":1500,"institution":"Nu Pagamentos"}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	accountRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Nubank")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Create_InvalidType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	body := `{"name":"Shoebox","type":"mattress"}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	accountRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "invalid account type")
}

func TestAccountHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "type", "balance"}).
			AddRow(2, 1, "Nubank", "bank", 1500.0).
			AddRow(3, 1, "Visa", "credit_card", -230.0))

	req := httptest.NewRequest("GET", "/accounts", nil)
	w := httptest.NewRecorder()
	accountRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Visa")
	require.NoError(t, mock.ExpectationsWereMet())
}
