package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/config"
	"github.com/transportagency/bus-ticket-sales/internal/utils"
)

// AuthHandler authenticates the back-office operator. There is no user
// table: the single admin account is provisioned through environment
// variables (login name plus a bcrypt password hash) and receives a
// short-lived HS256 token on login.
type AuthHandler struct {
	cfg config.Config
}

// NewAuthHandler constructs an AuthHandler from the loaded configuration.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Login handles POST /v1/auth/login. On valid credentials it returns an
// access token and its expiry. Both unknown usernames and wrong passwords
// produce the same 401 so the endpoint does not confirm account names.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	if username != h.cfg.AdminUser || !utils.VerifyCredential(h.cfg.AdminPasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAccessToken(h.cfg.JWTSecret, username, "ADMIN", h.cfg.AccessTTLMin)
	if err != nil {
		c.Logger().Errorf("sign access token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"token_type":   "Bearer",
		"expires_at":   tok.Exp,
	})
}
