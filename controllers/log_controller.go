package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/postboard/services"
	"github.com/cppla/postboard/utils"
)

// LogController exposes the audit log to administrators.
type LogController struct {
	audit *services.AuditLogger
}

// NewLogController creates a new LogController.
func NewLogController(audit *services.AuditLogger) *LogController {
	return &LogController{audit: audit}
}

// ListLogs returns audit entries newest first, filtered by ?model= and ?invokerId=.
func (l *LogController) ListLogs(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	filter := services.LogFilter{
		ModelName: strings.TrimSpace(ctx.Query("model")),
		Page:      page,
		PageSize:  pageSize,
	}
	if v := strings.TrimSpace(ctx.Query("invokerId")); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			badRequest(ctx, "invalid invokerId")
			return
		}
		id := uint(n)
		filter.InvokerID = &id
	}

	entries, total, err := l.audit.List(ctx.Request.Context(), filter)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"items": entries,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}
