package controller

import (
	"net/http"

	service "github.com/turman-legal/tls-ediscovery/service"

	"github.com/gin-gonic/gin"
)

// DocumentController manages HTTP requests for the review platform.
type DocumentController struct {
	service *service.DocumentService
}

// NewDocumentController initializes the controller with the service.
func NewDocumentController(service *service.DocumentService) *DocumentController {
	return &DocumentController{service}
}

// GetMatters lists all matters.
func (c *DocumentController) GetMatters(ctx *gin.Context) {
	matters, err := c.service.GetAllMatters()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, matters)
}

// CreateMatter creates a matter from {name, bates_prefix, description}.
func (c *DocumentController) CreateMatter(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		BatesPrefix string `json:"bates_prefix" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matter, err := c.service.CreateMatter(req.Name, req.BatesPrefix, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, matter)
}
