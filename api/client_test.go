package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-restaurant/lifecycle"
)

func TestBearerTokenAttachedToEveryRequest(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Order{})
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.SetToken("tok-123")
	_, err := c.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a@b.com", r.PostForm.Get("username"))
		assert.Equal(t, "pw", r.PostForm.Get("password"))
		_ = json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok", Role: RoleAdmin})
	}))
	defer ts.Close()

	c := New(ts.URL)
	resp, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, resp.Role)
	assert.Equal(t, "tok", c.Token(), "login installs the returned token")
}

func TestUpdateOrderStatusUsesQueryParameter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/orders/7/status", r.URL.Path)
		require.Equal(t, "picked_up", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode(Order{OrderID: 7, Status: lifecycle.StatusPickedUp})
	}))
	defer ts.Close()

	order, err := New(ts.URL).UpdateOrderStatus(context.Background(), 7, lifecycle.StatusPickedUp)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPickedUp, order.Status)
}

func TestServerDetailBecomesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Order not found"})
	}))
	defer ts.Close()

	_, err := New(ts.URL).Order(context.Background(), 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Order not found", apiErr.Detail)
}

func TestNonJSONErrorBodyStillReported(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Menu(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Detail)
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := c.Menu(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestContextCancellationStopsRequest(t *testing.T) {
	started := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := New(ts.URL).Orders(ctx)
		done <- err
	}()
	<-started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not stop on cancellation")
	}
}

func TestFindActiveOrder(t *testing.T) {
	t1 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	orders := []Order{
		{OrderID: 1, Status: lifecycle.StatusPending, CreatedAt: t1},
		{OrderID: 2, Status: lifecycle.StatusDelivered, CreatedAt: t2},
	}
	active := FindActiveOrder(orders)
	require.NotNil(t, active)
	assert.Equal(t, 1, active.OrderID, "newest terminal order is skipped in favour of the older active one")

	// Two active orders: the newer one wins
	orders = []Order{
		{OrderID: 1, Status: lifecycle.StatusPending, CreatedAt: t1},
		{OrderID: 2, Status: lifecycle.StatusPickedUp, CreatedAt: t2},
	}
	active = FindActiveOrder(orders)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.OrderID)

	// All terminal: nothing to track
	orders = []Order{
		{OrderID: 1, Status: lifecycle.StatusCancelled, CreatedAt: t1},
		{OrderID: 2, Status: lifecycle.StatusDelivered, CreatedAt: t2},
	}
	assert.Nil(t, FindActiveOrder(orders))
	assert.Nil(t, FindActiveOrder(nil))
}
