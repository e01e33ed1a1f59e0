package dashboard

import (
	"net/http"
	"strconv"

	"github.com/fabworks/plantgen/internal/hierarchy"
	"github.com/fabworks/plantgen/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	router.GET("/api/summary", handleSummary(db))
	router.GET("/api/workcenters", handleWorkCenters(db))
	router.GET("/api/materials/top", handleTopMaterials(db))
	router.GET("/api/materials/:id/raw", handleWhereUsed(db))
	router.GET("/api/downtime", handleDowntime(db))
}

func handleSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := Summary(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func handleWorkCenters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := WorkCenterSummary(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleTopMaterials(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		rows, err := TopMaterials(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// handleWhereUsed resolves an FG or SFG material into its cumulative RAW
// component quantities.
func handleWhereUsed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var material models.Material
		if err := db.First(&material, "material_number = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
			return
		}
		var edges []models.BOMEdge
		if err := db.Find(&edges).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"material_number": id,
			"raw_components":  hierarchy.ResolveToRaw(edges, id),
		})
	}
}

func handleDowntime(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := DowntimeByReason(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
