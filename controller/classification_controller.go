package controller

import (
	"net/http"

	"github.com/turman-legal/tls-ediscovery/models"

	"github.com/gin-gonic/gin"
)

// GetClassificationKinds returns the fixed set of classification kinds.
func (c *DocumentController) GetClassificationKinds(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.ClassificationKinds)
}

// AttachClassification tags a document with a classification kind.
func (c *DocumentController) AttachClassification(ctx *gin.Context) {
	var req struct {
		Kind          string   `json:"kind" binding:"required"`
		Confidence    *float64 `json:"confidence"`
		Justification string   `json:"justification"`
		AISuggested   bool     `json:"ai_suggested"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := c.service.AttachClassification(ctx.Param("id"), req.Kind, req.Confidence, req.Justification, req.AISuggested)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// GetDocumentClassifications lists a document's classification rows.
func (c *DocumentController) GetDocumentClassifications(ctx *gin.Context) {
	entries, err := c.service.GetDocumentClassifications(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
