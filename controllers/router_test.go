package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms-backend/config"
	"hotel-pms-backend/controllers"
	"hotel-pms-backend/models"
	"hotel-pms-backend/routes"
	"hotel-pms-backend/services"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:     []string{"*"},
			LoginRatePerMin: 6000,
			LoginBurst:      100,
		},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			TokenTTLMinutes: 60,
		},
	}

	userService := services.NewUserService(db)
	reportService := services.NewReportService(db)
	ctl := routes.Controllers{
		Auth:         controllers.NewAuthController(userService, cfg.Auth.JWTSecret, time.Hour),
		Users:        controllers.NewUserController(userService),
		Rooms:        controllers.NewRoomController(services.NewRoomService(db)),
		Guests:       controllers.NewGuestController(services.NewGuestService(db)),
		Reservations: controllers.NewReservationController(services.NewReservationService(db)),
		Payments:     controllers.NewPaymentController(services.NewPaymentService(db)),
		Maintenance:  controllers.NewMaintenanceController(services.NewMaintenanceService(db)),
		Dashboard:    controllers.NewDashboardController(reportService),
		Reports:      controllers.NewReportController(reportService),
	}
	return routes.SetupRouter(cfg, ctl), db
}

func createUser(t *testing.T, db *gorm.DB, username, password string, role models.UserRole) models.User {
	t.Helper()
	user, err := services.NewUserService(db).Create(services.CreateUserInput{
		Username: username,
		Email:    username + "@hotel.local",
		Password: password,
		FullName: "Test " + username,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestLoginAndMe(t *testing.T) {
	router, db := newTestServer(t)
	createUser(t, db, "reception1", "s3cret-pass", models.RoleStaff)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		gin.H{"username": "reception1", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, router, "reception1", "s3cret-pass")

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"reception1"`)
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	router, db := newTestServer(t)
	createUser(t, db, "reception1", "s3cret-pass", models.RoleStaff)
	createUser(t, db, "manager1", "s3cret-pass", models.RoleAdmin)

	staffToken := login(t, router, "reception1", "s3cret-pass")
	adminToken := login(t, router, "manager1", "s3cret-pass")

	w := doJSON(t, router, http.MethodGet, "/api/users", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServiceErrorMapping(t *testing.T) {
	router, db := newTestServer(t)
	createUser(t, db, "reception1", "s3cret-pass", models.RoleStaff)
	token := login(t, router, "reception1", "s3cret-pass")

	// unknown id -> 404
	w := doJSON(t, router, http.MethodGet, "/api/rooms/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// create a room, then collide on the number -> 409
	payload := gin.H{
		"room_number":     "101",
		"room_type":       "standard",
		"floor":           1,
		"capacity":        2,
		"price_per_night": 1200,
	}
	w = doJSON(t, router, http.MethodPost, "/api/rooms", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/rooms", token, payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	// bad enum -> 400
	payload["room_number"] = "102"
	payload["room_type"] = "penthouse"
	w = doJSON(t, router, http.MethodPost, "/api/rooms", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
