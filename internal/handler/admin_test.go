package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpaper/atelier-api/internal/domain/order"
)

func TestListOrders(t *testing.T) {
	f := newFixture()
	f.orders.list = func(context.Context) ([]order.Order, error) {
		return []order.Order{*sampleOrder()}, nil
	}

	rec := f.do(t, authed(t, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[[]orderResponse](t, rec.Body)
	require.Len(t, resp, 1)
	assert.Equal(t, "Mina Okabe", resp[0].Name)
	assert.Equal(t, "19.00", resp[0].TotalPrice)
}

func TestListOrders_RequiresSession(t *testing.T) {
	f := newFixture()

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateOrderStatus_Success(t *testing.T) {
	f := newFixture()
	var gotID string
	var gotStatus order.Status
	f.orders.updateStatus = func(_ context.Context, id string, status order.Status) error {
		gotID, gotStatus = id, status
		return nil
	}
	f.orders.getByID = func(context.Context, string) (*order.Order, error) {
		o := sampleOrder()
		o.Status = order.StatusShipped
		return o, nil
	}

	req := postJSON("/api/admin/orders/"+sampleOrder().ID, `{"status": "shipped"}`)
	req.Method = http.MethodPatch
	rec := f.do(t, authed(t, req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sampleOrder().ID, gotID)
	assert.Equal(t, order.StatusShipped, gotStatus)
	resp := decodeJSON[orderResponse](t, rec.Body)
	assert.Equal(t, "shipped", resp.Status)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	f := newFixture()
	called := false
	f.orders.updateStatus = func(context.Context, string, order.Status) error {
		called = true
		return nil
	}

	req := postJSON("/api/admin/orders/ord-1", `{"status": "teleported"}`)
	req.Method = http.MethodPatch
	rec := f.do(t, authed(t, req))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	f := newFixture()
	f.orders.updateStatus = func(context.Context, string, order.Status) error {
		return order.ErrNotFound
	}

	req := postJSON("/api/admin/orders/ghost", `{"status": "confirmed"}`)
	req.Method = http.MethodPatch
	rec := f.do(t, authed(t, req))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
