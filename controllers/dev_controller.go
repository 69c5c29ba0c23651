// File: /controllers/dev_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"testbook-api/database"
)

// DevController exposes database reset and reseed for test harnesses.
// Both endpoints refuse to run unless the server was started in test
// mode, so a stray call can never wipe a real database.
type DevController struct {
	db      *gorm.DB
	testing bool
}

func NewDevController(db *gorm.DB, testing bool) *DevController {
	return &DevController{
		db:      db,
		testing: testing,
	}
}

func (dc *DevController) requireTestMode(c *gin.Context) bool {
	if !dc.testing {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Dev endpoints are only available in test mode. Set TESTING=true in environment.",
		})
		return false
	}
	return true
}

// Reset drops and recreates the schema, then reseeds.
func (dc *DevController) Reset(c *gin.Context) {
	if !dc.requireTestMode(c) {
		return
	}

	if err := database.Reset(dc.db); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset database"})
		return
	}
	if err := database.Seed(dc.db); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database reset successfully"})
}

// Seed populates an empty database with the standard cast.
func (dc *DevController) Seed(c *gin.Context) {
	if !dc.requireTestMode(c) {
		return
	}

	if err := database.Seed(dc.db); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed database"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database seeded successfully"})
}
