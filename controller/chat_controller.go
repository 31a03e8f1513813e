package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Chat forwards a question plus selected documents to the AI model and
// returns the reply with its parsed citations.
func (c *DocumentController) Chat(ctx *gin.Context) {
	var req struct {
		Message         string   `json:"message" binding:"required"`
		MatterID        string   `json:"matter_id" binding:"required"`
		SelectedSources []string `json:"selected_sources"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exchange, err := c.service.ChatWithDocuments(req.MatterID, req.Message, req.SelectedSources)
	if err != nil {
		log.Printf("[Chat] error: %v", err)
		respondError(ctx, err)
		return
	}

	var citations []string
	if len(exchange.Citations) > 0 {
		_ = json.Unmarshal(exchange.Citations, &citations)
	}
	ctx.JSON(http.StatusOK, gin.H{
		"response":  exchange.ResponseText,
		"citations": citations,
	})
}
