package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-restaurant/api"
	"smart-restaurant/lifecycle"
)

func (s *Server) riderProfile(c *gin.Context) {
	var profile RiderProfile
	if err := s.db.Where("user_id = ?", c.Param("userId")).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Rider profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// updateRiderLocation stores the rider's reported position on their
// profile row and marks them online.
func (s *Server) updateRiderLocation(c *gin.Context) {
	var loc api.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	riderID := currentUserID(c)
	var profile RiderProfile
	if err := s.db.Where("user_id = ?", riderID).First(&profile).Error; err != nil {
		profile = RiderProfile{UserID: riderID, Rating: 5.0}
	}
	profile.CurrentLat = loc.Lat
	profile.CurrentLng = loc.Lng
	profile.IsOnline = true
	if err := s.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Location updated", "lat": loc.Lat, "lng": loc.Lng})
}

func (s *Server) riderLocation(c *gin.Context) {
	var profile RiderProfile
	if err := s.db.Where("user_id = ?", currentUserID(c)).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Rider profile not found"})
		return
	}
	c.JSON(http.StatusOK, api.Location{Lat: profile.CurrentLat, Lng: profile.CurrentLng})
}

// riderHistory lists this rider's completed deliveries
func (s *Server) riderHistory(c *gin.Context) {
	orders := []Order{}
	s.db.Where("assigned_rider_id = ? AND status = ?", currentUserID(c), lifecycle.StatusDelivered).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, orders)
}
