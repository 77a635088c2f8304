// Package devserver is a self-contained stand-in for the production
// backend: the same HTTP surface and wire format, backed by a local
// sqlite file. It exists so the client suite has an offline demo mode
// and an in-process target for integration tests, instead of a hidden
// second persistence path inside the client itself.
package devserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"smart-restaurant/api"
)

type Server struct {
	db        *gorm.DB
	jwtSecret []byte
	engine    *gin.Engine
}

func New(db *gorm.DB, jwtSecret []byte) *Server {
	s := &Server{db: db, jwtSecret: jwtSecret}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Smart Restaurant Dev Server"})
	})

	// ── Auth ───────────────────────────────────────────────────────
	auth := r.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/me", s.authRequired(), s.me)
	}

	// ── Menu ───────────────────────────────────────────────────────
	menu := r.Group("/menu")
	{
		menu.GET("/", s.listMenu)
		menu.GET("/categories", s.listCategories)

		adminMenu := menu.Group("", s.authRequired(), roleRequired(api.RoleAdmin))
		{
			adminMenu.POST("/", s.createMenuItem)
			adminMenu.PUT("/:id", s.updateMenuItem)
			adminMenu.DELETE("/:id", s.deleteMenuItem)
		}
	}

	// ── Orders ─────────────────────────────────────────────────────
	orders := r.Group("/orders", s.authRequired())
	{
		orders.GET("/", s.listOrders)
		orders.POST("/", s.createOrder)
		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id/status", s.updateOrderStatus)
	}

	// ── Admin analytics ────────────────────────────────────────────
	analytics := r.Group("/admin/analytics", s.authRequired(), roleRequired(api.RoleAdmin))
	{
		analytics.GET("/total-orders", s.totalOrders)
		analytics.GET("/total-revenue", s.totalRevenue)
		analytics.GET("/total-customers", s.totalCustomers)
		analytics.GET("/daily-revenue", s.dailyRevenue)
		analytics.GET("/top-items", s.topItems)
		analytics.GET("/orders-by-status", s.ordersByStatus)
		analytics.GET("/avg-order-value", s.avgOrderValue)
		analytics.GET("/avg-delivery-time", s.avgDeliveryTime)
	}

	// ── Rider ──────────────────────────────────────────────────────
	rider := r.Group("/rider", s.authRequired())
	{
		rider.GET("/profile/:userId", s.riderProfile)
		rider.GET("/location", roleRequired(api.RoleRider), s.riderLocation)
		rider.POST("/location", roleRequired(api.RoleRider), s.updateRiderLocation)
		rider.GET("/orders/history", roleRequired(api.RoleRider), s.riderHistory)
	}

	s.engine = r
	return s
}

// Handler exposes the router for httptest and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the given address until the process exits.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}
