package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listMenu returns every menu item with its category name joined in
func (s *Server) listMenu(c *gin.Context) {
	var rows []menuItemWithCategory
	err := s.db.Model(&MenuItem{}).
		Select("menu_items.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.category_id = menu_items.category_id").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load menu"})
		return
	}
	if rows == nil {
		rows = []menuItemWithCategory{}
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) listCategories(c *gin.Context) {
	var categories []Category
	if err := s.db.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// createMenuItem adds a menu item (admin only)
func (s *Server) createMenuItem(c *gin.Context) {
	var item MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	item.ItemID = 0

	var category Category
	if err := s.db.First(&category, item.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Category not found"})
		return
	}

	if err := s.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// updateMenuItem replaces the mutable fields of an item (admin only)
func (s *Server) updateMenuItem(c *gin.Context) {
	var item MenuItem
	if err := s.db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
		return
	}

	var update MenuItem
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	item.Name = update.Name
	item.Description = update.Description
	item.Price = update.Price
	item.ImageURL = update.ImageURL
	if update.CategoryID != 0 {
		item.CategoryID = update.CategoryID
	}

	if err := s.db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteMenuItem(c *gin.Context) {
	var item MenuItem
	if err := s.db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
		return
	}
	if err := s.db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete item"})
		return
	}
	c.Status(http.StatusNoContent)
}
