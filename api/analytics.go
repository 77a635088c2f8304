package api

import (
	"context"
	"net/http"
)

// Analytics payloads mirror the admin dashboard endpoints one-to-one.

type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

type TopItem struct {
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func (c *Client) TotalRevenue(ctx context.Context) (float64, error) {
	var out struct {
		TotalRevenue float64 `json:"total_revenue"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/analytics/total-revenue", nil, nil, &out)
	return out.TotalRevenue, err
}

func (c *Client) TotalOrders(ctx context.Context) (int, error) {
	var out struct {
		TotalOrders int `json:"total_orders"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/analytics/total-orders", nil, nil, &out)
	return out.TotalOrders, err
}

func (c *Client) TotalCustomers(ctx context.Context) (int, error) {
	var out struct {
		TotalCustomers int `json:"total_customers"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/analytics/total-customers", nil, nil, &out)
	return out.TotalCustomers, err
}

// AvgDeliveryTime reports minutes from ready to delivered, averaged over
// completed orders. Zero with no error means no completed orders yet.
func (c *Client) AvgDeliveryTime(ctx context.Context) (float64, error) {
	var out struct {
		AvgDeliveryTimeMinutes float64 `json:"avg_delivery_time_minutes"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/analytics/avg-delivery-time", nil, nil, &out)
	return out.AvgDeliveryTimeMinutes, err
}

func (c *Client) AvgOrderValue(ctx context.Context) (float64, error) {
	var out struct {
		AverageOrderValue float64 `json:"average_order_value"`
	}
	err := c.do(ctx, http.MethodGet, "/admin/analytics/avg-order-value", nil, nil, &out)
	return out.AverageOrderValue, err
}

func (c *Client) DailyRevenue(ctx context.Context) ([]DailyRevenue, error) {
	var out []DailyRevenue
	err := c.do(ctx, http.MethodGet, "/admin/analytics/daily-revenue", nil, nil, &out)
	return out, err
}

func (c *Client) TopItems(ctx context.Context) ([]TopItem, error) {
	var out []TopItem
	err := c.do(ctx, http.MethodGet, "/admin/analytics/top-items", nil, nil, &out)
	return out, err
}

func (c *Client) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := c.do(ctx, http.MethodGet, "/admin/analytics/orders-by-status", nil, nil, &out)
	return out, err
}
