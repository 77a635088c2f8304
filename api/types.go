package api

import (
	"sort"
	"time"

	"smart-restaurant/lifecycle"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleRider    UserRole = "rider"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
}

type MenuItem struct {
	ItemID       int       `json:"item_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url,omitempty"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Order struct {
	OrderID         int              `json:"order_id"`
	OrderNumber     string           `json:"order_number"`
	CustomerID      int              `json:"customer_id"`
	TotalAmount     float64          `json:"total_amount"`
	Status          lifecycle.Status `json:"status"`
	AssignedRiderID *int             `json:"assigned_rider_id"`

	RestaurantName    string   `json:"restaurant_name,omitempty"`
	RestaurantAddress string   `json:"restaurant_address,omitempty"`
	RestaurantLat     *float64 `json:"restaurant_lat,omitempty"`
	RestaurantLng     *float64 `json:"restaurant_lng,omitempty"`

	CustomerName    string   `json:"customer_name,omitempty"`
	CustomerAddress string   `json:"customer_address,omitempty"`
	CustomerLat     *float64 `json:"customer_lat,omitempty"`
	CustomerLng     *float64 `json:"customer_lng,omitempty"`

	RiderEarning float64   `json:"rider_earning"`
	CreatedAt    time.Time `json:"created_at"`

	// Populated on the single-order endpoint only
	Items []OrderLine `json:"items,omitempty"`
}

// OrderLine is one item of an order as returned by the server, with the
// price snapshotted at order time.
type OrderLine struct {
	ItemID    int     `json:"item_id"`
	Quantity  int     `json:"quantity"`
	PriceEach float64 `json:"price_each"`
	Name      string  `json:"name,omitempty"`
}

// CreateOrderRequest is the checkout payload. Prices are resolved
// server-side, so a line carries only the item id and quantity.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	Role        UserRole `json:"role"`
	Name        string   `json:"name"`
}

type RiderProfile struct {
	ProfileID      int     `json:"profile_id"`
	UserID         int     `json:"user_id"`
	FullName       string  `json:"full_name"`
	PhoneNumber    string  `json:"phone_number"`
	VehicleDetails string  `json:"vehicle_details"`
	CurrentLat     float64 `json:"current_lat"`
	CurrentLng     float64 `json:"current_lng"`
	IsOnline       bool    `json:"is_online"`
	Rating         float64 `json:"rating"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FindActiveOrder picks the order the tracking screen should follow:
// newest first by created_at, first one whose status is not terminal.
// Returns nil when every order is delivered or cancelled.
func FindActiveOrder(orders []Order) *Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	for i := range sorted {
		if !lifecycle.Terminal(sorted[i].Status) {
			return &sorted[i]
		}
	}
	return nil
}
