package handler_test

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/handler"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/metrics"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/mocks"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/security/ratelimit"
	"github.com/AnthoniusHendriyanto/clinic-service/pkg/constant"
)

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func TestRateLimit(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	limiter := ratelimit.NewLimiter(2, time.Minute)

	app := fiber.New()
	app.Get("/", handler.RateLimit(limiter, m), okHandler)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RateLimited))
}

func TestRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokens := mocks.NewMockTokenGenerator(ctrl)

	app := fiber.New()
	app.Get("/", handler.RequireAuth(tokens), okHandler)

	t.Run("missing header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		tokens.EXPECT().VerifyAccessToken("bad-token").Return(nil, errors.New("invalid token"))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		tokens.EXPECT().VerifyAccessToken("good-token").
			Return(&service.JWTCustomClaims{UserID: "user-1", Role: constant.RoleAdmin}, nil)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func protectedApp(t *testing.T, role string, guard fiber.Handler) (*fiber.App, *mocks.MockTokenGenerator, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenGenerator(ctrl)
	tokens.EXPECT().VerifyAccessToken("token").
		Return(&service.JWTCustomClaims{UserID: "user-1", Username: "alice", Role: role}, nil).
		AnyTimes()

	app := fiber.New()
	app.Get("/", handler.RequireAuth(tokens), guard, okHandler)
	return app, tokens, ctrl
}

func TestRequireRole(t *testing.T) {
	t.Run("matching role passes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		rec := mocks.NewMockRecorder(ctrl)

		app, _, appCtrl := protectedApp(t, constant.RoleAdmin, handler.RequireRole(constant.RoleAdmin, rec))
		defer appCtrl.Finish()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer token")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("wrong role is denied and audited", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		rec := mocks.NewMockRecorder(ctrl)
		rec.EXPECT().Record("user-1", gomock.Any(), "access_denied", gomock.Any()).Times(1)

		app, _, appCtrl := protectedApp(t, constant.RoleReceptionist, handler.RequireRole(constant.RoleAdmin, rec))
		defer appCtrl.Finish()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer token")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("no claims yields unauthorized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		rec := mocks.NewMockRecorder(ctrl)

		app := fiber.New()
		app.Get("/", handler.RequireRole(constant.RoleAdmin, rec), okHandler)

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireAnyRole(t *testing.T) {
	t.Run("member role passes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		rec := mocks.NewMockRecorder(ctrl)

		guard := handler.RequireAnyRole(rec, constant.RoleAdmin, constant.RoleNurse)
		app, _, appCtrl := protectedApp(t, constant.RoleNurse, guard)
		defer appCtrl.Finish()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer token")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("non-member role is denied and audited", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		rec := mocks.NewMockRecorder(ctrl)
		rec.EXPECT().Record("user-1", gomock.Any(), "access_denied", gomock.Any()).Times(1)

		guard := handler.RequireAnyRole(rec, constant.RoleAdmin, constant.RoleClinician)
		app, _, appCtrl := protectedApp(t, constant.RoleReceptionist, guard)
		defer appCtrl.Finish()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer token")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
