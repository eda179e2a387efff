package account

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anoixa/image-share/database/models"
	"github.com/anoixa/image-share/database/repo/accounts"
	"github.com/anoixa/image-share/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	jwtService, err := auth.NewJWTService("test-secret", 30*time.Minute)
	require.NoError(t, err)

	handler := NewHandler(auth.NewService(accounts.NewRepository(db), jwtService))

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	return router
}

func doJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestRegister(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, "/register", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "User registered successfully!", body["message"])
	assert.Equal(t, "alice", body["username"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, "/register", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "/register", gin.H{"username": "alice", "password": "other"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists!", decodeBody(t, w)["message"])
}

func TestRegisterMissingFields(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, "/register", gin.H{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields: password", decodeBody(t, w)["message"])
}

func TestLogin(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, "/register", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "/login", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Login successful!", body["message"])
	assert.Equal(t, "alice", body["username"])
	assert.NotEmpty(t, body["token"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, "/register", gin.H{"username": "alice", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	// wrong password and unknown user produce the same response
	w = doJSON(router, "/login", gin.H{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password!", decodeBody(t, w)["message"])

	w = doJSON(router, "/login", gin.H{"username": "ghost", "password": "secret"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password!", decodeBody(t, w)["message"])
}
