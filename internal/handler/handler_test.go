package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/inkpaper/atelier-api/internal/domain/order"
	"github.com/inkpaper/atelier-api/internal/domain/product"
	"github.com/inkpaper/atelier-api/internal/domain/settings"
	"github.com/inkpaper/atelier-api/internal/notify"
)

var testSecret = []byte("test-session-secret")

type stubProducts struct {
	list    func(ctx context.Context) ([]product.Product, error)
	getByID func(ctx context.Context, id string) (*product.Product, error)
}

func (s *stubProducts) List(ctx context.Context) ([]product.Product, error) {
	return s.list(ctx)
}

func (s *stubProducts) ListAll(ctx context.Context) ([]product.Product, error) {
	return s.list(ctx)
}

func (s *stubProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return s.getByID(ctx, id)
}

type stubOrders struct {
	created []*order.Order

	getByID      func(ctx context.Context, id string) (*order.Order, error)
	list         func(ctx context.Context) ([]order.Order, error)
	updateStatus func(ctx context.Context, id string, status order.Status) error
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.created = append(s.created, o)
	return nil
}

func (s *stubOrders) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return s.getByID(ctx, id)
}

func (s *stubOrders) List(ctx context.Context) ([]order.Order, error) {
	return s.list(ctx)
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	return s.updateStatus(ctx, id, status)
}

func (s *stubOrders) SetNotificationSent(context.Context, string, bool) error {
	return nil
}

type stubSettings struct {
	get    func(ctx context.Context) (*settings.SiteSettings, error)
	update func(ctx context.Context, s *settings.SiteSettings) error
}

func (s *stubSettings) Get(ctx context.Context) (*settings.SiteSettings, error) {
	return s.get(ctx)
}

func (s *stubSettings) Update(ctx context.Context, cfg *settings.SiteSettings) error {
	return s.update(ctx, cfg)
}

type stubDispatcher struct {
	dispatch func(ctx context.Context, orderID string) (*notify.Result, error)
}

func (s *stubDispatcher) Dispatch(ctx context.Context, orderID string) (*notify.Result, error) {
	return s.dispatch(ctx, orderID)
}

type noopNotifier struct{}

func (noopNotifier) NotifyOrderCreated(context.Context, string) error { return nil }

type fixture struct {
	products   *stubProducts
	orders     *stubOrders
	settings   *stubSettings
	dispatcher *stubDispatcher
	mux        *http.ServeMux
}

func newFixture() *fixture {
	f := &fixture{
		products: &stubProducts{
			list: func(context.Context) ([]product.Product, error) { return nil, nil },
			getByID: func(context.Context, string) (*product.Product, error) {
				return nil, product.ErrNotFound
			},
		},
		orders: &stubOrders{
			getByID: func(context.Context, string) (*order.Order, error) {
				return nil, order.ErrNotFound
			},
			list:         func(context.Context) ([]order.Order, error) { return nil, nil },
			updateStatus: func(context.Context, string, order.Status) error { return nil },
		},
		settings: &stubSettings{
			get: func(context.Context) (*settings.SiteSettings, error) {
				return nil, settings.ErrNotFound
			},
			update: func(context.Context, *settings.SiteSettings) error { return nil },
		},
		dispatcher: &stubDispatcher{
			dispatch: func(context.Context, string) (*notify.Result, error) {
				return &notify.Result{Status: notify.StatusDelivered}, nil
			},
		},
	}

	svc := order.NewService(f.orders, noopNotifier{}, time.Second)
	h := NewHandler(f.products, svc, f.orders, f.settings, f.dispatcher)

	f.mux = http.NewServeMux()
	h.Register(f.mux, RequireSession(testSecret))
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func signSession(t *testing.T, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	return token
}

func authed(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+signSession(t, testSecret))
	return req
}

func decodeJSON[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}

func sampleProduct() *product.Product {
	size := "A5"
	img := "https://cdn.example.com/mug.jpg"
	return &product.Product{
		ID:            "prod-1",
		Name:          "Hand-Painted Mug",
		Description:   "Stoneware mug with ink wash glaze",
		Price:         decimal.RequireFromString("9.50"),
		Category:      "ceramics",
		Size:          &size,
		ImageURL:      &img,
		StockQuantity: 12,
		IsAvailable:   true,
		CreatedAt:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func sampleOrder() *order.Order {
	pid := "prod-1"
	return &order.Order{
		ID:              "5f2b9c31-7d4e-4a6b-9c1d-2e3f4a5b6c7d",
		CustomerName:    "Mina Okabe",
		CustomerContact: "mina@example.com",
		ProductID:       &pid,
		ProductName:     "Hand-Painted Mug",
		Quantity:        2,
		TotalPrice:      decimal.RequireFromString("19.00"),
		Status:          order.StatusPending,
		CreatedAt:       time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC),
	}
}

var errBoom = errors.New("boom")
