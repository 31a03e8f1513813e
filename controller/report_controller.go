package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type reportRequest struct {
	MatterID string `json:"matter_id" binding:"required"`
}

// serveCSV writes a CSV attachment, or a message when the report is empty.
func serveCSV(ctx *gin.Context, name string, data []byte, rows int) {
	if rows == 0 {
		ctx.JSON(http.StatusOK, gin.H{"message": "No matching documents", "rows": 0})
		return
	}
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, "text/csv", data)
}

// PrivilegeLogReport renders the privilege log CSV for a matter.
func (c *DocumentController) PrivilegeLogReport(ctx *gin.Context) {
	var req reportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, rows, err := c.service.PrivilegeLogCSV(req.MatterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	serveCSV(ctx, "privilege-log", data, rows)
}

// HotDocumentsReport renders the hot-document CSV for a matter.
func (c *DocumentController) HotDocumentsReport(ctx *gin.Context) {
	var req reportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, rows, err := c.service.HotDocumentsCSV(req.MatterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	serveCSV(ctx, "hot-documents", data, rows)
}

// TimelineReport renders the chronological matter timeline as JSON.
func (c *DocumentController) TimelineReport(ctx *gin.Context) {
	var req reportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := c.service.Timeline(req.MatterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if len(entries) == 0 {
		ctx.JSON(http.StatusOK, gin.H{"message": "No matching documents", "timeline": []interface{}{}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"timeline": entries})
}
