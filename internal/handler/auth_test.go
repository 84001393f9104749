package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/transportagency/bus-ticket-sales/internal/config"
	"github.com/transportagency/bus-ticket-sales/internal/utils"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := utils.HashCredential("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	return config.Config{
		JWTSecret:         "test-secret",
		AccessTTLMin:      15,
		AdminUser:         "admin",
		AdminPasswordHash: hash,
	}
}

func postLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	return rec
}

func TestLoginIssuesToken(t *testing.T) {
	h := NewAuthHandler(testConfig(t))
	rec := postLogin(t, h, `{"username":"admin","password":"s3cret"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "Bearer", resp.TokenType)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := NewAuthHandler(testConfig(t))
	rec := postLogin(t, h, `{"username":"admin","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	h := NewAuthHandler(testConfig(t))
	rec := postLogin(t, h, `{"username":"intruder","password":"s3cret"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	h := NewAuthHandler(testConfig(t))
	rec := postLogin(t, h, `{"username":"admin"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
