package controller

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadDocument handles the multipart file upload request.
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
		return
	}
	defer file.Close()

	matterID := ctx.PostForm("matter_id")

	doc, err := c.service.IngestDocument(matterID, file, header)
	if err != nil {
		log.Printf("[UploadDocument] ingest failed: %v", err)
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Document uploaded successfully",
		"document": doc,
	})
}

// GetDocuments lists documents for a matter (?matter_id=).
func (c *DocumentController) GetDocuments(ctx *gin.Context) {
	matterID := ctx.Query("matter_id")
	if matterID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'matter_id' is required"})
		return
	}

	docs, err := c.service.GetDocumentsByMatter(matterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, docs)
}

// StreamDocument streams the stored original PDF.
func (c *DocumentController) StreamDocument(ctx *gin.Context) {
	doc, body, size, err := c.service.OpenDocumentBlob(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer body.Close()

	ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Filename))
	ctx.DataFromReader(http.StatusOK, size, "application/pdf", body, nil)
}

// DeleteDocument removes a document and everything attached to it.
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	if err := c.service.DeleteDocument(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// CompleteTextExtraction accepts extracted page text posted back by the
// client after upload.
func (c *DocumentController) CompleteTextExtraction(ctx *gin.Context) {
	var req struct {
		Pages     []string `json:"pages"`
		FullText  string   `json:"full_text"`
		PageCount int      `json:"page_count"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fullText := req.FullText
	if fullText == "" && len(req.Pages) > 0 {
		for i, page := range req.Pages {
			if i > 0 {
				fullText += "\n\n"
			}
			fullText += page
		}
	}

	doc, err := c.service.CompleteTextExtraction(ctx.Param("id"), fullText)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":  "Text extraction recorded",
		"document": doc,
	})
}

// SearchDocuments runs the full-text search (?q=).
func (c *DocumentController) SearchDocuments(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := c.service.SearchDocuments(query)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"results": results,
	})
}
