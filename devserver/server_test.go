package devserver

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-restaurant/api"
	"smart-restaurant/cart"
	"smart-restaurant/lifecycle"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, Seed(db))

	ts := httptest.NewServer(New(db, []byte("test-secret")).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func signUp(t *testing.T, c *api.Client, role api.UserRole, email string) api.LoginResponse {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, api.RegisterRequest{
		Name:     "Test " + string(role),
		Email:    email,
		Phone:    "0300-0000000",
		Password: "hunter22",
		Role:     role,
	}))
	resp, err := c.Login(ctx, email, "hunter22")
	require.NoError(t, err)
	require.Equal(t, role, resp.Role)
	return resp
}

func TestRegisterLoginAndRestoreSession(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	c := api.New(ts.URL)
	signUp(t, c, api.RoleCustomer, "ayesha@example.com")

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ayesha@example.com", me.Email)
	assert.Equal(t, api.RoleCustomer, me.Role)

	// Duplicate registration is a server-reported failure with a detail string
	err = c.Register(ctx, api.RegisterRequest{
		Name: "Dup", Email: "ayesha@example.com", Password: "hunter22", Role: api.RoleCustomer,
	})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "Email already registered", apiErr.Detail)

	// Bad credentials
	_, err = api.New(ts.URL).Login(ctx, "ayesha@example.com", "wrong")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	c := api.New(ts.URL)
	signUp(t, c, api.RoleCustomer, "customer@example.com")

	menu, err := c.Menu(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, menu)
	assert.NotEmpty(t, menu[0].CategoryName)

	// Two of the first item, one of the second
	bag := cart.New()
	bag.Add(menu[0])
	bag.Add(menu[0])
	bag.Add(menu[1])
	wantTotal := menu[0].Price*2 + menu[1].Price
	assert.InDelta(t, wantTotal, bag.Total(), 1e-9)

	order, err := c.CreateOrder(ctx, bag.Payload())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPending, order.Status)
	assert.InDelta(t, wantTotal, order.TotalAmount, 1e-9, "server must price the order itself")
	assert.NotEmpty(t, order.OrderNumber)

	// Checkout done: clear the cart and follow the new order
	bag.Clear()
	assert.True(t, bag.Empty())

	detail, err := c.Order(ctx, order.OrderID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, menu[0].Price, detail.Items[0].PriceEach)
	assert.Equal(t, 2, detail.Items[0].Quantity)
	assert.Equal(t, menu[0].Name, detail.Items[0].Name)
}

func TestOrderLifecycleAcrossRoles(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	customer := api.New(ts.URL)
	signUp(t, customer, api.RoleCustomer, "c@example.com")
	rider := api.New(ts.URL)
	signUp(t, rider, api.RoleRider, "r@example.com")
	admin := api.New(ts.URL)
	signUp(t, admin, api.RoleAdmin, "a@example.com")

	menu, err := customer.Menu(ctx)
	require.NoError(t, err)
	order, err := customer.CreateOrder(ctx, api.CreateOrderRequest{
		Items: []api.CreateOrderItem{{ItemID: menu[0].ItemID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Rider claims the pending order
	claimed, err := rider.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusAssigned)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAssigned, claimed.Status)
	require.NotNil(t, claimed.AssignedRiderID)

	// Rider cannot mark it ready; that is the restaurant's move
	_, err = rider.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusReady)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)

	_, err = admin.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusReady)
	require.NoError(t, err)

	// Backward transition is rejected
	_, err = admin.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusPending)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)

	_, err = rider.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusPickedUp)
	require.NoError(t, err)
	final, err := rider.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDelivered, final.Status)

	// Terminal means terminal
	_, err = admin.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusCancelled)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)

	// The customer's list reflects the server state, and with only a
	// delivered order there is no active one to track
	orders, err := customer.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, lifecycle.StatusDelivered, orders[0].Status)
	assert.Nil(t, api.FindActiveOrder(orders))

	// Rider history shows the completed delivery
	history, err := rider.RiderHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestCustomerCancelsPendingOrder(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	c := api.New(ts.URL)
	signUp(t, c, api.RoleCustomer, "cancel@example.com")

	menu, err := c.Menu(ctx)
	require.NoError(t, err)
	order, err := c.CreateOrder(ctx, api.CreateOrderRequest{
		Items: []api.CreateOrderItem{{ItemID: menu[0].ItemID, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := c.UpdateOrderStatus(ctx, order.OrderID, lifecycle.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusCancelled, cancelled.Status)
}

func TestAdminMenuCRUD(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	admin := api.New(ts.URL)
	signUp(t, admin, api.RoleAdmin, "admin@example.com")

	cats, err := admin.Categories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	created, err := admin.CreateMenuItem(ctx, api.MenuItem{
		Name: "Seekh Kebab", Price: 320, CategoryID: cats[0].CategoryID,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ItemID)

	created.Price = 350
	updated, err := admin.UpdateMenuItem(ctx, created.ItemID, created)
	require.NoError(t, err)
	assert.Equal(t, 350.0, updated.Price)

	require.NoError(t, admin.DeleteMenuItem(ctx, created.ItemID))
	err = admin.DeleteMenuItem(ctx, created.ItemID)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)

	// Customers cannot touch the menu
	customer := api.New(ts.URL)
	signUp(t, customer, api.RoleCustomer, "nobody@example.com")
	_, err = customer.CreateMenuItem(ctx, api.MenuItem{Name: "Nope", Price: 1, CategoryID: cats[0].CategoryID})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestAnalytics(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	admin := api.New(ts.URL)
	signUp(t, admin, api.RoleAdmin, "admin@example.com")
	customer := api.New(ts.URL)
	signUp(t, customer, api.RoleCustomer, "c@example.com")

	menu, err := customer.Menu(ctx)
	require.NoError(t, err)
	order, err := customer.CreateOrder(ctx, api.CreateOrderRequest{
		Items: []api.CreateOrderItem{{ItemID: menu[0].ItemID, Quantity: 3}},
	})
	require.NoError(t, err)

	// Revenue counts delivered orders only
	revenue, err := admin.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Zero(t, revenue)

	for _, st := range []lifecycle.Status{
		lifecycle.StatusAssigned, lifecycle.StatusReady,
		lifecycle.StatusPickedUp, lifecycle.StatusDelivered,
	} {
		_, err = admin.UpdateOrderStatus(ctx, order.OrderID, st)
		require.NoError(t, err)
	}

	revenue, err = admin.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, menu[0].Price*3, revenue, 1e-9)

	count, err := admin.TotalOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	customers, err := admin.TotalCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, customers)

	daily, err := admin.DailyRevenue(ctx)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.InDelta(t, menu[0].Price*3, daily[0].Revenue, 1e-9)

	top, err := admin.TopItems(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, menu[0].Name, top[0].Name)
	assert.Equal(t, 3, top[0].TotalSold)

	byStatus, err := admin.OrdersByStatus(ctx)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, string(lifecycle.StatusDelivered), byStatus[0].Status)

	avg, err := admin.AvgOrderValue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, menu[0].Price*3, avg, 1e-9)

	// ready → delivered happened within this test run
	minutes, err := admin.AvgDeliveryTime(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, minutes, 0.0)
	assert.Less(t, minutes, 1.0)

	// Analytics are admin-only
	_, err = customer.TotalRevenue(ctx)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestRiderLocationRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	rider := api.New(ts.URL)
	signUp(t, rider, api.RoleRider, "rider@example.com")

	me, err := rider.Me(ctx)
	require.NoError(t, err)

	require.NoError(t, rider.UpdateRiderLocation(ctx, api.Location{Lat: 51.5074, Lng: -0.1278}))

	loc, err := rider.RiderLocation(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 51.5074, loc.Lat, 1e-9)

	profile, err := rider.RiderProfile(ctx, me.UserID)
	require.NoError(t, err)
	assert.True(t, profile.IsOnline)
	assert.InDelta(t, -0.1278, profile.CurrentLng, 1e-9)
}
