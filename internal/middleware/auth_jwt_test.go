package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test_secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func validClaims(role model.Role, hubID int64) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  "1",
		"role": string(role),
		"hub":  hubID,
		"tv":   0,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
}

// ミドルウェアを通してActorが取れるかを見る
func runAuth(t *testing.T, authz string) (*httptest.ResponseRecorder, model.Actor, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.Actor
	var ok bool

	mw := middleware.AuthJWT(config.Config{JWTSecret: testSecret})
	handler := mw(func(c echo.Context) error {
		got, ok = middleware.ActorFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	return rec, got, ok
}

func TestAuthJWT_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims(model.RoleShipper, 7))

	rec, actor, ok := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, int64(1), actor.UserID)
	assert.Equal(t, model.RoleShipper, actor.Role)
	assert.Equal(t, int64(7), actor.HubID)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	rec, _, ok := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthJWT_WrongSecret(t *testing.T) {
	token := signToken(t, "other_secret", validClaims(model.RoleCustomer, 0))

	rec, _, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	claims := validClaims(model.RoleCustomer, 0)
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, testSecret, claims)

	rec, _, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_UnknownRole(t *testing.T) {
	claims := validClaims("ADMIN", 0)
	token := signToken(t, testSecret, claims)

	rec, _, _ := runAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	token := signToken(t, testSecret, validClaims(model.RoleCustomer, 0))

	rec, _, _ := runAuth(t, "Basic "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(actor model.Actor, required model.Role) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(middleware.CtxActorKey, actor)

		handler := middleware.RequireRole(required)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		assert.NoError(t, handler(c))
		return rec
	}

	rec := run(model.Actor{UserID: 10, Role: model.RoleVendor}, model.RoleVendor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = run(model.Actor{UserID: 1, Role: model.RoleCustomer}, model.RoleVendor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
