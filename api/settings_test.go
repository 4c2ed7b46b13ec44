package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewSettingsHandler()
	router.GET("/settings", h.Get)
	router.PUT("/settings", h.Update)
	return router
}

func TestSettingsHandler_Get_CreatesDefaults(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// no row yet: the defaults are inserted on first read
	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	req := httptest.NewRequest("GET", "/settings", nil)
	w := httptest.NewRecorder()
	settingsRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "system", data["theme"])
	assert.Equal(t, true, data["notifications_enabled"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsHandler_Update(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "", "", false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "dark", "USD", true, "", "", false))

	body := `{"theme":"dark","currency":"USD"}`
	req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	settingsRouter().ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "dark")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsHandler_Update_InvalidTheme(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM "settings"`).
		WillReturnRows(settingsRows().AddRow(7, 1, "system", "BRL", true, "", "", false))

	body := `{"theme":"neon"}`
	req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	settingsRouter().ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
