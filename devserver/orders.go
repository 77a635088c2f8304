package devserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
)

// The demo instance is a single-restaurant deployment; new orders are
// stamped with its pickup location.
var (
	hqLat = 31.5204
	hqLng = 74.3587
)

type createOrderRequest struct {
	Items []struct {
		ItemID   int `json:"item_id" binding:"required"`
		Quantity int `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// orderLine is the per-item read model on the single-order endpoint
type orderLine struct {
	ItemID    int     `json:"item_id"`
	Quantity  int     `json:"quantity"`
	PriceEach float64 `json:"price_each"`
	Name      string  `json:"name"`
}

type orderWithItems struct {
	Order
	Lines []orderLine `json:"items"`
}

// createOrder resolves prices server-side, snapshots them per line and
// opens the order in pending state.
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var customer User
	if err := s.db.First(&customer, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	var total float64
	type resolved struct {
		item MenuItem
		qty  int
	}
	var lines []resolved
	for _, reqItem := range req.Items {
		var item MenuItem
		if err := s.db.First(&item, reqItem.ItemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Item %d not found", reqItem.ItemID)})
			return
		}
		total += item.Price * float64(reqItem.Quantity)
		lines = append(lines, resolved{item: item, qty: reqItem.Quantity})
	}

	custLat, custLng := 31.53, 74.36
	order := Order{
		OrderNumber:       "ORD-" + uuid.NewString()[:8],
		CustomerID:        customer.UserID,
		TotalAmount:       total,
		Status:            lifecycle.StatusPending,
		RestaurantName:    "Smart Restaurant HQ",
		RestaurantAddress: "123 Food Street, Downtown",
		RestaurantLat:     &hqLat,
		RestaurantLng:     &hqLng,
		CustomerName:      customer.Name,
		CustomerAddress:   "Customer Location 123",
		CustomerLat:       &custLat,
		CustomerLng:       &custLng,
	}
	if err := s.db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create order"})
		return
	}

	for _, l := range lines {
		s.db.Create(&OrderItem{
			OrderID:   order.OrderID,
			ItemID:    l.item.ItemID,
			Quantity:  l.qty,
			PriceEach: l.item.Price,
		})
	}
	s.db.Create(&OrderStatusHistory{
		OrderID:   order.OrderID,
		ToStatus:  lifecycle.StatusPending,
		ChangedBy: customer.UserID,
	})

	c.JSON(http.StatusCreated, order)
}

// listOrders scopes the order list by the caller's role: customers see
// their own, riders see what is claimable plus their assignments,
// admins see everything.
func (s *Server) listOrders(c *gin.Context) {
	var orders []Order
	q := s.db.Order("created_at desc")

	switch currentRole(c) {
	case api.RoleAdmin:
	case api.RoleRider:
		q = q.Where("status IN ? OR assigned_rider_id = ?",
			[]lifecycle.Status{lifecycle.StatusPending, lifecycle.StatusReady},
			currentUserID(c))
	default:
		q = q.Where("customer_id = ?", currentUserID(c))
	}

	if err := q.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load orders"})
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// getOrder returns one order with its line items, enforcing per-role
// visibility.
func (s *Server) getOrder(c *gin.Context) {
	var order Order
	if err := s.db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}

	switch currentRole(c) {
	case api.RoleAdmin:
	case api.RoleRider:
		assigned := order.AssignedRiderID != nil && *order.AssignedRiderID == currentUserID(c)
		claimable := order.Status == lifecycle.StatusPending || order.Status == lifecycle.StatusReady
		if !assigned && !claimable {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized"})
			return
		}
	default:
		if order.CustomerID != currentUserID(c) {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized"})
			return
		}
	}

	var items []OrderItem
	s.db.Where("order_id = ?", order.OrderID).Find(&items)
	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		var menuItem MenuItem
		name := "Unknown Item"
		if err := s.db.First(&menuItem, it.ItemID).Error; err == nil {
			name = menuItem.Name
		}
		lines = append(lines, orderLine{
			ItemID:    it.ItemID,
			Quantity:  it.Quantity,
			PriceEach: it.PriceEach,
			Name:      name,
		})
	}

	c.JSON(http.StatusOK, orderWithItems{Order: order, Lines: lines})
}

// updateOrderStatus applies a transition after the state machine has
// approved it for the caller's role, then returns the confirmed order.
// Riders claiming an order (→ assigned) get recorded on it.
func (s *Server) updateOrderStatus(c *gin.Context) {
	target := lifecycle.Status(c.Query("status"))
	if !lifecycle.Valid(target) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unknown status: " + c.Query("status")})
		return
	}

	var order Order
	if err := s.db.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}

	role := currentRole(c)
	actor := lifecycle.Actor(role)
	if role == api.RoleCustomer && order.CustomerID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized"})
		return
	}

	if err := lifecycle.CanTransition(order.Status, target, actor); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	prev := order.Status
	updates := map[string]interface{}{"status": target}
	if target == lifecycle.StatusAssigned && role == api.RoleRider {
		updates["assigned_rider_id"] = currentUserID(c)
	}
	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update order"})
		return
	}

	s.db.Create(&OrderStatusHistory{
		OrderID:    order.OrderID,
		FromStatus: prev,
		ToStatus:   target,
		ChangedBy:  currentUserID(c),
	})

	s.db.First(&order, order.OrderID)
	c.JSON(http.StatusOK, order)
}
