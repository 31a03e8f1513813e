package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetNotes lists all notes.
func (c *DocumentController) GetNotes(ctx *gin.Context) {
	notes, err := c.service.GetAllNotes()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, notes)
}

// CreateNote stores an annotation from {note_text, bates_references, source}.
func (c *DocumentController) CreateNote(ctx *gin.Context) {
	var req struct {
		NoteText        string   `json:"note_text" binding:"required"`
		BatesReferences []string `json:"bates_references"`
		Source          string   `json:"source"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := c.service.CreateNote(req.NoteText, req.BatesReferences, req.Source)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, note)
}
