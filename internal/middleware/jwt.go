package middleware

import (
	"encoding/json"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/caching"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
)

const principalCacheTTL = 60 * time.Second

// SessionCookieName is the cookie the login handler sets and the JWT
// middleware accepts as an alternative to the Authorization header.
const SessionCookieName = "session_token"

// NewJWTConfig builds the echo-jwt configuration for the protected route
// group. The token is read from the Authorization bearer header or the
// session cookie. Token validation stops here; ResolvePrincipal turns the
// validated claims into a Principal.
func NewJWTConfig(jwtSecret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:  []byte(jwtSecret),
		TokenLookup: "header:Authorization:Bearer ,cookie:" + SessionCookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			return common.NewAuthenticationError("Invalid token")
		},
	}
}

// ResolvePrincipal reads the token echo-jwt validated, resolves the user
// row into a Principal and attaches it to the request context. The user row
// is cached briefly so every request does not hit the database; permission
// changes take effect within the TTL (the user handler also invalidates
// directly).
func ResolvePrincipal(users repositories.UserRepository, companies repositories.CompanyRepository, cache caching.CacheService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return common.NewAuthenticationError("Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return common.NewAuthenticationError("Invalid claims")
			}
			sub, ok := claims["sub"].(string)
			if !ok {
				return common.NewAuthenticationError("Missing subject in token")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return common.NewAuthenticationError("Invalid subject format")
			}

			ctx := c.Request().Context()
			user := loadCachedUser(c, cache, userID)
			if user == nil {
				user, err = users.GetByID(ctx, userID)
				if err != nil {
					return common.NewAuthenticationError("User not found")
				}
				storeCachedUser(c, cache, user)
			}
			if user.Status != "active" {
				return common.NewAuthenticationError("Account is disabled")
			}

			principal := &models.Principal{
				UserID:      user.ID,
				Email:       user.Email,
				Role:        user.Role,
				CompanyID:   user.CompanyID,
				Permissions: user.Permissions,
			}
			if user.CompanyID != nil {
				if company, err := companies.GetByID(ctx, *user.CompanyID); err == nil {
					principal.CompanyName = company.Name
				}
			}

			c.SetRequest(c.Request().WithContext(common.WithPrincipal(ctx, principal)))
			return next(c)
		}
	}
}

func userCacheKey(userID uuid.UUID) string {
	return "nextcrm:user:" + userID.String()
}

func loadCachedUser(c echo.Context, cache caching.CacheService, userID uuid.UUID) *models.User {
	if cache == nil {
		return nil
	}
	raw, err := cache.GetString(c.Request().Context(), userCacheKey(userID))
	if err != nil || raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

func storeCachedUser(c echo.Context, cache caching.CacheService, user *models.User) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := cache.SetString(c.Request().Context(), userCacheKey(user.ID), string(data), principalCacheTTL); err != nil {
		log.Printf("WARN: caching user %s failed: %v", user.ID, err)
	}
}

// InvalidateUserCache drops the cached user row, used after role or
// permission changes so they apply on the next request.
func InvalidateUserCache(c echo.Context, cache caching.CacheService, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Delete(c.Request().Context(), userCacheKey(userID)); err != nil {
		log.Printf("WARN: invalidating user cache %s failed: %v", userID, err)
	}
}
