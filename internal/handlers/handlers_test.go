package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agrosite/internal/auth"
	"agrosite/internal/models"
	"agrosite/internal/repository"
	"agrosite/internal/services"
	"agrosite/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	router    *gin.Engine
	db        *gorm.DB
	clock     *time.Time
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.InitJWT("handler-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Wallet{}, &models.Token{}, &models.StakingPosition{}))

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	ts := &testServer{db: db, clock: &now, uploadDir: t.TempDir()}

	repo := repository.NewRepository(db)
	quiet, _ := test.NewNullLogger()
	staking := services.NewStakingService(repo, services.DefaultRateTable(),
		services.WithClock(func() time.Time { return *ts.clock }),
		services.WithStakingLogger(quiet))

	blobs, err := storage.NewLocalWriter(ts.uploadDir, "")
	require.NoError(t, err)

	ts.router = gin.New()
	RegisterRoutes(ts.router, Handlers{
		Staking: NewStakingHandler(staking),
		User:    NewUserHandler(services.NewUserService(repo)),
		Wallet:  NewWalletHandler(services.NewWalletService(repo)),
		Token:   NewTokenHandler(services.NewTokenService(repo)),
		Upload:  NewUploadHandler(blobs),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (ts *testServer) register(t *testing.T, username string) uint {
	t.Helper()
	w, body := ts.do(t, http.MethodPost, "/api/user/register", gin.H{"username": username, "email": username + "@agrox.test"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := body["user"].(map[string]interface{})
	return uint(user["id"].(float64))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w, body := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestStakingLifecycle(t *testing.T) {
	ts := newTestServer(t)
	userID := ts.register(t, "joana")

	w, body := ts.do(t, http.MethodPost, "/api/staking/lock", gin.H{
		"user_id": userID, "amount": 1000, "apy_type": "SOY", "duration_days": 365,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2025-01-10T09:00:00Z", body["start_date"])
	assert.Equal(t, "2026-01-10T09:00:00Z", body["end_date"])
	stakingID := uint(body["staking_id"].(float64))

	unlock := fmt.Sprintf("/api/staking/unlock/%d", stakingID)
	w, body = ts.do(t, http.MethodPost, unlock, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "lock period")

	w, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/staking/user/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	stakings := body["stakings"].([]interface{})
	require.Len(t, stakings, 1)
	first := stakings[0].(map[string]interface{})
	assert.Equal(t, "0.18", first["apy_rate"])
	assert.Equal(t, "0", first["current_rewards"])
	assert.Equal(t, "180", first["projected_rewards"])

	later := ts.clock.AddDate(0, 0, 365)
	ts.clock = &later

	w, body = ts.do(t, http.MethodPost, unlock, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "180", body["rewards_earned"])
	assert.Equal(t, "1180", body["total_return"])
	assert.Equal(t, "1000", body["amount"])

	w, _ = ts.do(t, http.MethodPost, unlock, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/staking/user/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	closed := body["stakings"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, false, closed["is_active"])
	assert.NotContains(t, closed, "current_rewards")
	assert.NotContains(t, closed, "projected_rewards")
}

func TestStakingErrors(t *testing.T) {
	ts := newTestServer(t)
	userID := ts.register(t, "marcos")

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"unknown category", http.MethodPost, "/api/staking/lock", gin.H{"user_id": userID, "amount": 10, "apy_type": "WHEAT", "duration_days": 30}, http.StatusBadRequest},
		{"missing fields", http.MethodPost, "/api/staking/lock", gin.H{"user_id": userID}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/staking/lock", "{not json", http.StatusBadRequest},
		{"unknown user", http.MethodPost, "/api/staking/lock", gin.H{"user_id": 4040, "amount": 10, "apy_type": "SOY", "duration_days": 30}, http.StatusNotFound},
		{"unknown user and category", http.MethodPost, "/api/staking/lock", gin.H{"user_id": 4040, "amount": 10, "apy_type": "WHEAT", "duration_days": 30}, http.StatusNotFound},
		{"under one day", http.MethodPost, "/api/staking/lock", gin.H{"user_id": userID, "amount": 10, "apy_type": "SOY", "duration_days": 0.5}, http.StatusBadRequest},
		{"unlock missing", http.MethodPost, "/api/staking/unlock/999", nil, http.StatusNotFound},
		{"unlock bad id", http.MethodPost, "/api/staking/unlock/abc", nil, http.StatusBadRequest},
		{"list unknown user", http.MethodGet, "/api/staking/user/4040", nil, http.StatusNotFound},
		{"calculator bad category", http.MethodPost, "/api/staking/calculator", gin.H{"amount": 10, "apy_type": "RICE", "duration_days": 30}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestStakingCalculatorAndRates(t *testing.T) {
	ts := newTestServer(t)

	w, body := ts.do(t, http.MethodPost, "/api/staking/calculator", gin.H{"amount": "500", "apy_type": "COFFEE", "duration_days": 180})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "36.98630137", body["projected_rewards"])
	assert.Equal(t, "536.98630137", body["total_return"])
	assert.Equal(t, "500", body["initial_amount"])

	w, body = ts.do(t, http.MethodGet, "/api/staking/apy/rates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rates := body["apy_rates"].(map[string]interface{})
	assert.Equal(t, "0.12", rates["SUGARCANE"])
	assert.Equal(t, "0.16", rates["BASKET"])
	assert.NotEmpty(t, body["last_updated"])
}

func TestStakingFractionalDuration(t *testing.T) {
	ts := newTestServer(t)
	userID := ts.register(t, "tereza")

	w, body := ts.do(t, http.MethodPost, "/api/staking/lock", gin.H{
		"user_id": userID, "amount": 100, "apy_type": "SOY", "duration_days": 30.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2025-01-10T09:00:00Z", body["start_date"])
	assert.Equal(t, "2025-02-09T09:00:00Z", body["end_date"])

	w, body = ts.do(t, http.MethodPost, "/api/staking/calculator", gin.H{"amount": "500", "apy_type": "COFFEE", "duration_days": 180.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(180), body["duration_days"])
	assert.Equal(t, "36.98630137", body["projected_rewards"])
}

func TestBindErrorsNameTheField(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		path  string
		body  interface{}
		field string
	}{
		{"lock user_id type", "/api/staking/lock", gin.H{"user_id": "abc", "amount": 10, "apy_type": "SOY", "duration_days": 30}, "user_id"},
		{"calculator apy_type type", "/api/staking/calculator", gin.H{"amount": 10, "apy_type": 5, "duration_days": 30}, "apy_type"},
		{"register missing username", "/api/user/register", gin.H{"email": "x@agrox.test"}, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := ts.do(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			msg, _ := body["error"].(string)
			assert.Contains(t, msg, tt.field)
			assert.NotContains(t, msg, "Go struct")
			assert.NotContains(t, msg, "Request")
		})
	}

	w, body := ts.do(t, http.MethodPost, "/api/staking/lock", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid argument: malformed JSON body", body["error"])
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userID := ts.register(t, "helena")

	w, _ := ts.do(t, http.MethodPost, "/api/user/register", gin.H{"username": "helena", "email": "other@agrox.test"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/user/register", gin.H{"username": "bad", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := ts.do(t, http.MethodGet, fmt.Sprintf("/api/user/%d", userID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "helena", body["username"])

	w, _ = ts.do(t, http.MethodGet, "/api/user/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = ts.do(t, http.MethodPost, "/api/user/login", gin.H{"username": "helena"})
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"helena"`)

	w, _ = ts.do(t, http.MethodGet, "/api/user/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userID := ts.register(t, "otavio")
	address := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

	w, body := ts.do(t, http.MethodPost, "/api/wallet/connect", gin.H{"user_id": userID, "address": address, "wallet_type": "metamask"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	wallet := body["wallet"].(map[string]interface{})
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", wallet["address"])

	w, _ = ts.do(t, http.MethodPost, "/api/wallet/connect", gin.H{"user_id": userID, "address": address, "wallet_type": "metamask"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/wallet/connect", gin.H{"user_id": userID, "address": "0xnope", "wallet_type": "metamask"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/wallet/balance/update", gin.H{"address": address, "balance": "42.5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body = ts.do(t, http.MethodGet, "/api/wallet/balance/"+address, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42.5", body["balance_agrox"])

	w, body = ts.do(t, http.MethodGet, fmt.Sprintf("/api/wallet/user/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["wallets"], 1)

	w, _ = ts.do(t, http.MethodPost, "/api/wallet/disconnect", gin.H{"address": address})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do(t, http.MethodPost, "/api/wallet/disconnect", gin.H{"address": address})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = ts.do(t, http.MethodGet, "/api/wallet/balance/"+address, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userID := ts.register(t, "fazendeiro")

	for i, symbol := range []string{"CAFE", "SOJA", "BOI"} {
		w, _ := ts.do(t, http.MethodPost, "/api/token/create", gin.H{
			"creator_id": userID, "name": symbol + " Token", "symbol": symbol, "type": strings.ToLower(symbol),
			"initial_supply": 1000, "farm_location": "Minas Gerais", "country": "Brazil", "price": i + 1,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, _ := ts.do(t, http.MethodPost, "/api/token/create", gin.H{
		"creator_id": userID, "name": "dup", "symbol": "CAFE", "type": "coffee",
		"initial_supply": 1, "farm_location": "x", "country": "Brazil",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = ts.do(t, http.MethodPost, "/api/token/create", gin.H{"creator_id": userID, "name": "incomplete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := ts.do(t, http.MethodGet, "/api/token/list?per_page=2&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["pages"])
	assert.Equal(t, float64(2), body["current_page"])
	assert.Len(t, body["tokens"], 1)

	w, _ = ts.do(t, http.MethodGet, "/api/token/list?per_page=500", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = ts.do(t, http.MethodGet, "/api/token/leaderboard?category=market_cap&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	top := body["tokens"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "BOI", top["symbol"])

	w, _ = ts.do(t, http.MethodGet, "/api/token/leaderboard?category=losers", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = ts.do(t, http.MethodGet, "/api/token/types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["types"], 3)

	w, body = ts.do(t, http.MethodGet, "/api/token/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Brazil"}, body["countries"])

	w, _ = ts.do(t, http.MethodGet, "/api/token/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = ts.do(t, http.MethodGet, "/api/token/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/token/upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	ts := newTestServer(t)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, multipartRequest(t, map[string]string{"type": "farm"}, "field.png", []byte("img")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	path := body["path"]
	assert.True(t, strings.HasPrefix(path, "/uploads/farm/"), path)
	assert.True(t, strings.HasSuffix(path, "_field.png"), path)

	stored, err := os.ReadFile(filepath.Join(ts.uploadDir, filepath.FromSlash(strings.TrimPrefix(path, "/"))))
	require.NoError(t, err)
	assert.Equal(t, "img", string(stored))

	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, multipartRequest(t, nil, "logo.png", []byte("img")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/uploads/token/")

	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, multipartRequest(t, map[string]string{"type": "avatar"}, "x.png", []byte("img")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, multipartRequest(t, map[string]string{"type": "farm"}, "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
