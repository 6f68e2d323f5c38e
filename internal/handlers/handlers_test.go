package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/notify"
	"github.com/prathvinaik206-create/farmdirect/internal/services"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
	"github.com/prathvinaik206-create/farmdirect/internal/storage/memory"
)

type testAPI struct {
	router     *mux.Router
	store      *memory.Store
	tokens     *auth.TokenManager
	dispatcher *notify.Dispatcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mem := memory.NewStore()
	return newTestAPIWithStore(t, mem, mem)
}

// newTestAPIWithStore serves the API from store while seeding goes to mem.
func newTestAPIWithStore(t *testing.T, mem *memory.Store, store storage.Store) *testAPI {
	t.Helper()
	tokens := auth.NewTokenManager("secret", "farmdirect", time.Hour)
	dispatcher := notify.NewDispatcher(notify.LogNotifier{}, time.Second)
	t.Cleanup(dispatcher.Wait)

	h := Handlers{
		Health:   NewHealthHandler(time.Now()),
		Users:    NewUserHandler(services.NewUserService(store, tokens)),
		Products: NewProductHandler(services.NewProductService(store)),
		Orders:   NewOrderHandler(services.NewOrderService(store, dispatcher), services.NewStatsService(store)),
	}
	return &testAPI{router: NewRouter(h, tokens), store: mem, tokens: tokens, dispatcher: dispatcher}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) seedFarmer(t *testing.T, id string) string {
	t.Helper()
	u, err := a.store.CreateUser(context.Background(), models.User{ID: id, Role: models.RoleFarmer, Name: "Farmer " + id, Username: id, Email: id + "@farmdirect.in"})
	require.NoError(t, err)
	token, err := a.tokens.Generate(u)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestCreateOrder(t *testing.T) {
	api := newTestAPI(t)
	api.seedFarmer(t, "f1")
	_, err := api.store.CreateProduct(context.Background(), models.Product{ID: "p1", FarmerID: "f1", Name: "Tomato", Price: 50, Unit: "kg"})
	require.NoError(t, err)

	items := []models.OrderItem{{ProductID: "p1", Quantity: 2, Price: 50}}
	rec := api.do(t, http.MethodPost, "/api/orders", map[string]any{
		"consumerId":  "c1",
		"items":       items,
		"totalAmount": 100,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}](t, rec)
	assert.NotEmpty(t, resp.Order.ID)
	assert.Equal(t, items, resp.Order.Items)
	assert.Equal(t, "placed", resp.Order.Status)
	assert.Equal(t, 100.0, resp.Order.TotalAmount)

	rec = api.do(t, http.MethodGet, "/api/farmer/stats/f1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FarmerStats{MonthlyRevenue: 100, MonthlySales: 2, TotalRevenue: 100, TotalSales: 2}, decode[models.FarmerStats](t, rec))

	rec = api.do(t, http.MethodGet, "/api/orders/consumer/c1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Order](t, rec), 1)
}

func TestCreateOrderBadRequests(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed", "{not json"},
		{"missing consumer", map[string]any{"items": []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 1}}}},
		{"empty items", map[string]any{"consumerId": "c1", "items": []models.OrderItem{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/orders", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestFarmerStatsUnknownFarmer(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/farmer/stats/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "farmer not found", decode[map[string]string](t, rec)["error"])
}

func TestQuoteOrder(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/orders/quote", map[string]any{
		"items": []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 200}},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[map[string]float64](t, rec)
	assert.Equal(t, 200.0, q["subtotal"])
	assert.Equal(t, 10.0, q["platformFee"])
	assert.Equal(t, 210.0, q["total"])
}

func TestSignupLoginFlow(t *testing.T) {
	api := newTestAPI(t)
	signup := map[string]string{
		"role": "consumer", "name": "Asha", "email": "asha@farmdirect.in",
		"username": "asha", "password": "pw", "mobile": "9000000000",
	}

	rec := api.do(t, http.MethodPost, "/api/auth/signup", signup, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodPost, "/api/auth/signup", signup, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "asha", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "asha", "password": "pw", "role": "consumer"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, rec)
	assert.NotEmpty(t, resp.Token)

	userPath := "/api/users/" + resp.User.ID
	otherToken := api.seedFarmer(t, "f9")

	rec = api.do(t, http.MethodPut, userPath, map[string]string{"email": "attacker@evil.test"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = api.do(t, http.MethodPut, userPath, map[string]string{"email": "attacker@evil.test"}, otherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPut, userPath, map[string]string{"address": "Pune"}, resp.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pune")
	assert.NotContains(t, rec.Body.String(), "attacker")

	rec = api.do(t, http.MethodDelete, userPath, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = api.do(t, http.MethodDelete, userPath, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, err := api.store.FindUser(context.Background(), resp.User.ID)
	require.NoError(t, err)

	rec = api.do(t, http.MethodDelete, userPath, nil, resp.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodDelete, userPath, nil, resp.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductRoutes(t *testing.T) {
	api := newTestAPI(t)
	ownerToken := api.seedFarmer(t, "f1")
	otherToken := api.seedFarmer(t, "f2")

	rec := api.do(t, http.MethodPost, "/api/products", map[string]any{
		"farmerId": "f1", "name": "Onion", "price": 30, "unit": "kg",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Product models.Product `json:"product"`
	}](t, rec).Product
	assert.Equal(t, "Farmer f1", created.FarmerName)

	rec = api.do(t, http.MethodGet, "/api/products/farmer/f1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	path := "/api/products/" + created.ID
	rec = api.do(t, http.MethodPut, path, map[string]any{"price": 35}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPut, path, map[string]any{"price": 35}, otherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPut, path, map[string]any{"price": 35}, ownerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 35.0, decode[struct {
		Product models.Product `json:"product"`
	}](t, rec).Product.Price)

	rec = api.do(t, http.MethodDelete, path, nil, ownerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, path, nil, ownerToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Product](t, rec))
}

// brokenStore fails order writes and order scans.
type brokenStore struct {
	*memory.Store
}

func (b brokenStore) CreateOrder(context.Context, models.Order) error {
	return errors.New("connection reset")
}

func (b brokenStore) OrdersSince(context.Context, time.Time) ([]models.Order, error) {
	return nil, errors.New("connection reset")
}

func TestStorageFailuresReturn500(t *testing.T) {
	mem := memory.NewStore()
	api := newTestAPIWithStore(t, mem, brokenStore{Store: mem})
	api.seedFarmer(t, "f1")

	rec := api.do(t, http.MethodPost, "/api/orders", map[string]any{
		"consumerId": "c1",
		"items":      []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 10}},
	}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to place order", decode[map[string]string](t, rec)["error"])

	rec = api.do(t, http.MethodGet, "/api/farmer/stats/f1", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to fetch stats", decode[map[string]string](t, rec)["error"])
}
