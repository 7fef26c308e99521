package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/utils"
)

// StatsController provides board statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate counts. A failing count reports 0 instead of
// failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	db := s.db.WithContext(ctx.Request.Context())
	count := func(model interface{}) int64 {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			utils.Sugar.Warnf("stats count failed: %v", err)
			return 0
		}
		return n
	}

	utils.Success(ctx, gin.H{
		"user_count":    count(&models.User{}),
		"post_count":    count(&models.Post{}),
		"comment_count": count(&models.Comment{}),
		"like_count":    count(&models.Like{}),
		"log_count":     count(&models.LogEntry{}),
	})
}
