package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/caching"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/middleware"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
)

type AuthHandlers struct {
	users     repositories.UserRepository
	cache     caching.CacheService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandlers(users repositories.UserRepository, cache caching.CacheService, jwtSecret string, tokenTTL time.Duration) *AuthHandlers {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandlers{users: users, cache: cache, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login verifies the credentials and issues a signed JWT whose subject is
// the user id. The token is returned in the response body and also set as
// the session cookie, so browser clients can skip the Authorization header.
// Attempts are rate limited per email to slow guessing.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.NewValidationError("Email and password are required")
	}

	if h.cache != nil {
		limited, err := h.cache.IsRateLimited(ctx, "login:"+req.Email, 10, time.Minute)
		if err == nil && limited {
			return common.NewValidationError("Too many login attempts, try again later")
		}
	}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return common.NewAuthenticationError("Invalid email or password")
	}
	if user.Status != "active" {
		return common.NewAuthenticationError("Account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.NewAuthenticationError("Invalid email or password")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokenTTL.Seconds()),
	})
}

// Me returns the resolved principal for the current token.
func (h *AuthHandlers) Me(c echo.Context) error {
	principal, ok := common.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return common.NewAuthenticationError("Authentication required")
	}
	return c.JSON(http.StatusOK, principal)
}
