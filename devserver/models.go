package devserver

import (
	"time"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
)

// GORM models double as wire types: the json tags reproduce the field
// names the production backend emits, so the client cannot tell the
// two apart.

type User struct {
	UserID       int          `json:"user_id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string       `json:"-" gorm:"not null"`
	Role         api.UserRole `json:"role" gorm:"not null;default:'customer'"`
	Phone        string       `json:"phone"`
	CreatedAt    time.Time    `json:"created_at"`
}

type Category struct {
	CategoryID int    `json:"category_id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null"`
}

type MenuItem struct {
	ItemID      int       `json:"item_id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null" binding:"required"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null" binding:"required,gt=0"`
	ImageURL    string    `json:"image_url"`
	CategoryID  int       `json:"category_id" binding:"required"`
	CreatedAt   time.Time `json:"created_at"`
}

// menuItemWithCategory is the read model for GET /menu/
type menuItemWithCategory struct {
	MenuItem
	CategoryName string `json:"category_name"`
}

type Order struct {
	OrderID         int              `json:"order_id" gorm:"primaryKey"`
	OrderNumber     string           `json:"order_number" gorm:"index"`
	CustomerID      int              `json:"customer_id" gorm:"not null"`
	TotalAmount     float64          `json:"total_amount"`
	Status          lifecycle.Status `json:"status" gorm:"not null;default:'pending'"`
	AssignedRiderID *int             `json:"assigned_rider_id"`

	RestaurantName    string   `json:"restaurant_name"`
	RestaurantAddress string   `json:"restaurant_address"`
	RestaurantLat     *float64 `json:"restaurant_lat"`
	RestaurantLng     *float64 `json:"restaurant_lng"`

	CustomerName    string   `json:"customer_name"`
	CustomerAddress string   `json:"customer_address"`
	CustomerLat     *float64 `json:"customer_lat"`
	CustomerLng     *float64 `json:"customer_lng"`

	RiderEarning float64   `json:"rider_earning"`
	CreatedAt    time.Time `json:"created_at"`

	Items []OrderItem `json:"-" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	OrderID   int       `json:"order_id" gorm:"not null"`
	ItemID    int       `json:"item_id" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	PriceEach float64   `json:"price_each" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderStatusHistory tracks every status change; the delivery-time
// analytics are computed from it.
type OrderStatusHistory struct {
	ID         int              `json:"id" gorm:"primaryKey"`
	OrderID    int              `json:"order_id" gorm:"not null;index"`
	FromStatus lifecycle.Status `json:"from_status"`
	ToStatus   lifecycle.Status `json:"to_status" gorm:"not null"`
	ChangedBy  int              `json:"changed_by"`
	ChangedAt  time.Time        `json:"changed_at" gorm:"autoCreateTime"`
}

type RiderProfile struct {
	ProfileID      int     `json:"profile_id" gorm:"primaryKey"`
	UserID         int     `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName       string  `json:"full_name"`
	PhoneNumber    string  `json:"phone_number"`
	VehicleDetails string  `json:"vehicle_details"`
	CurrentLat     float64 `json:"current_lat"`
	CurrentLng     float64 `json:"current_lng"`
	IsOnline       bool    `json:"is_online" gorm:"default:false"`
	Rating         float64 `json:"rating" gorm:"default:5.0"`
}
