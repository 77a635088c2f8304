package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
)

// Dashboard aggregates. Revenue only counts delivered orders.

func (s *Server) totalOrders(c *gin.Context) {
	var count int64
	s.db.Model(&Order{}).Count(&count)
	c.JSON(http.StatusOK, gin.H{"total_orders": count})
}

func (s *Server) totalRevenue(c *gin.Context) {
	var total float64
	s.db.Model(&Order{}).
		Where("status = ?", lifecycle.StatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total)
	c.JSON(http.StatusOK, gin.H{"total_revenue": total})
}

func (s *Server) totalCustomers(c *gin.Context) {
	var count int64
	s.db.Model(&User{}).Where("role = ?", api.RoleCustomer).Count(&count)
	c.JSON(http.StatusOK, gin.H{"total_customers": count})
}

func (s *Server) dailyRevenue(c *gin.Context) {
	rows := []api.DailyRevenue{}
	s.db.Model(&Order{}).
		Where("status = ?", lifecycle.StatusDelivered).
		Select("DATE(created_at) AS day, SUM(total_amount) AS revenue").
		Group("day").
		Order("day DESC").
		Scan(&rows)
	c.JSON(http.StatusOK, rows)
}

func (s *Server) topItems(c *gin.Context) {
	rows := []api.TopItem{}
	s.db.Model(&OrderItem{}).
		Select("menu_items.name AS name, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN menu_items ON menu_items.item_id = order_items.item_id").
		Group("menu_items.name").
		Order("total_sold DESC").
		Limit(5).
		Scan(&rows)
	c.JSON(http.StatusOK, rows)
}

func (s *Server) ordersByStatus(c *gin.Context) {
	rows := []api.StatusCount{}
	s.db.Model(&Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows)
	c.JSON(http.StatusOK, rows)
}

func (s *Server) avgOrderValue(c *gin.Context) {
	var avg float64
	s.db.Model(&Order{}).Select("COALESCE(AVG(total_amount), 0)").Scan(&avg)
	c.JSON(http.StatusOK, gin.H{"average_order_value": avg})
}

// avgDeliveryTime averages ready → delivered over the status history of
// completed orders. Computed in Go rather than SQL: sqlite has no
// interval arithmetic worth depending on.
func (s *Server) avgDeliveryTime(c *gin.Context) {
	var delivered []Order
	s.db.Where("status = ?", lifecycle.StatusDelivered).Find(&delivered)

	var totalMinutes float64
	var counted int
	for _, o := range delivered {
		var ready, done OrderStatusHistory
		readyErr := s.db.Where("order_id = ? AND to_status = ?", o.OrderID, lifecycle.StatusReady).
			Order("changed_at asc").First(&ready).Error
		doneErr := s.db.Where("order_id = ? AND to_status = ?", o.OrderID, lifecycle.StatusDelivered).
			Order("changed_at desc").First(&done).Error
		if readyErr != nil || doneErr != nil {
			continue
		}
		totalMinutes += done.ChangedAt.Sub(ready.ChangedAt).Minutes()
		counted++
	}

	avg := 0.0
	if counted > 0 {
		avg = totalMinutes / float64(counted)
	}
	c.JSON(http.StatusOK, gin.H{"avg_delivery_time_minutes": avg})
}
