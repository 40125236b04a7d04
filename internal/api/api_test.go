package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/api"
	"github.com/prabhata303-del/Dd/internal/auth"
	"github.com/prabhata303-del/Dd/internal/catalog"
	"github.com/prabhata303-del/Dd/internal/models"
	"github.com/prabhata303-del/Dd/internal/orders"
	"github.com/prabhata303-del/Dd/internal/settings"
	"github.com/prabhata303-del/Dd/internal/store"
	"github.com/prabhata303-del/Dd/internal/users"
	"github.com/prabhata303-del/Dd/internal/wishlist"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAdmin accepts the fixed test tokens and rejects everything else.
type fakeAdmin struct{}

func (fakeAdmin) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	switch idToken {
	case "tok-u1":
		return &fbauth.Token{UID: "u1", Claims: map[string]interface{}{
			"email": "asha@example.com",
			"name":  "Asha",
		}}, nil
	case "tok-u2":
		return &fbauth.Token{UID: "u2", Claims: map[string]interface{}{}}, nil
	}
	return nil, errors.New("unknown token")
}

func (fakeAdmin) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return nil
}

func (fakeAdmin) UpdateUser(ctx context.Context, uid string, u *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	return &fbauth.UserRecord{}, nil
}

// rewriteTransport redirects identity toolkit calls to the stub server.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func identityStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		email, _ := body["email"].(string)

		if strings.HasSuffix(r.URL.Path, "accounts:signUp") && email == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"EMAIL_EXISTS"}}`))
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]string{
			"localId":      "u1",
			"email":        email,
			"idToken":      "tok-u1",
			"refreshToken": "refresh-1",
			"expiresIn":    "3600",
		})
	}))
}

type testServer struct {
	router *gin.Engine
	store  *store.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	mem := store.NewMemory()

	identity := identityStub(t)
	t.Cleanup(identity.Close)
	target, err := url.Parse(identity.URL)
	require.NoError(t, err)
	httpClient := &http.Client{Transport: rewriteTransport{target: target}}

	authService := auth.NewService(fakeAdmin{}, "test-key", httpClient, logger)
	userService := users.NewService(mem, logger)
	catalogService := catalog.NewService(mem, nil, time.Minute, logger)
	settingsService := settings.NewService(mem, nil, time.Minute, logger)
	wishlistService := wishlist.NewService(mem, logger)
	orderService := orders.NewService(mem, logger)

	router := gin.New()
	api.SetupRoutes(router, logger,
		authService, userService, catalogService, settingsService, wishlistService, orderService)

	return &testServer{router: router, store: mem}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UP")
}

func TestRegisterThenFetchProfile(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "u1", session.UID)
	assert.Equal(t, "tok-u1", session.IDToken)
	assert.Equal(t, "Asha", session.DisplayName)

	rec = ts.do(t, http.MethodGet, "/api/v1/users/me", session.IDToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "u1", profile.UID)
	assert.Equal(t, "asha@example.com", profile.Email)
	assert.Equal(t, "Asha", profile.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":     "Asha",
		"email":    "taken@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
}

func TestRegisterRejectsBadPayload(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":  "Asha",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticatedRoutesRejectAnonymous(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/v1/orders", "/api/v1/wishlist", "/api/v1/users/me"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/orders", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogServesPlaceholdersFromEmptyStore(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/catalog/dishes?pincode=560001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dishes []models.Dish
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dishes))
	assert.NotEmpty(t, dishes, "placeholders keep the menu renderable")

	rec = ts.do(t, http.MethodGet, "/api/v1/catalog/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/catalog/banners", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsServesDefaults(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.AppSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.StoreOpen)
	assert.Equal(t, 30.0, got.DeliveryCharge)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/orders", "tok-u1", gin.H{
		"items": []gin.H{
			{"dishId": "d1", "name": "Masala Dosa", "quantity": 2, "price": 120},
		},
		"address": "12 MG Road",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var placed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotEmpty(t, placed.ID)
	assert.Equal(t, 240.0, placed.Total)

	rec = ts.do(t, http.MethodGet, "/api/v1/orders", "tok-u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []models.CustomerOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, orders.StatusOrderPlaced, feed[0].CustomerStatus)

	rec = ts.do(t, http.MethodPost, "/api/v1/orders/"+placed.ID+"/cancel", "tok-u1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/orders", "tok-u1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, orders.StatusCancelled, feed[0].CustomerStatus)
}

func TestOrderErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, ts.store.Set(ctx, store.OrderPath("foreign"), models.Order{
		ID: "foreign", UID: "u2", Status: "pending", Timestamp: 100,
	}))

	rec := ts.do(t, http.MethodPost, "/api/v1/orders/ghost/cancel", "tok-u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/orders/foreign/cancel", "tok-u1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/orders", "tok-u1", gin.H{
		"items":   []gin.H{},
		"address": "12 MG Road",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishlistOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/wishlist", "tok-u1", gin.H{"dishId": "d1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/v1/wishlist", "tok-u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.WishlistItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "d1", items[0].DishID)

	rec = ts.do(t, http.MethodDelete, "/api/v1/wishlist/d1", "tok-u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/wishlist", "tok-u1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Empty(t, items)
}

func TestUpdateProfileOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, ts.store.Set(ctx, store.UserPath("u1"), models.User{
		UID: "u1", Name: "Asha", Email: "asha@example.com",
	}))

	rec := ts.do(t, http.MethodPut, "/api/v1/users/me", "tok-u1", gin.H{"pincode": "560001"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "560001", profile.Pincode)
	assert.Equal(t, "Asha", profile.Name, "untouched fields keep their values")
}

func TestOrdersStreamOverWebsocket(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/orders/stream?token=tok-u1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var feed []models.CustomerOrder
	require.NoError(t, json.Unmarshal(msg, &feed))
	assert.Empty(t, feed)

	rec := ts.do(t, http.MethodPost, "/api/v1/orders", "tok-u1", gin.H{
		"items":   []gin.H{{"dishId": "d1", "name": "Masala Dosa", "quantity": 1, "price": 120}},
		"address": "12 MG Road",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, msg, err = conn.ReadMessage()
		require.NoError(t, err, "expected the placed order on the stream")
		require.NoError(t, json.Unmarshal(msg, &feed))
		if len(feed) == 1 && feed[0].CustomerStatus == orders.StatusOrderPlaced {
			return
		}
	}
}

func TestWebsocketRejectsAnonymous(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/orders/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
