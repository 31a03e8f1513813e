package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Note sources.
const (
	NoteSourceManual = "manual"
	NoteSourceChat   = "chat"
)

// Note is a free-text annotation. It is not owned by a document; it may carry
// Bates references extracted from its text by pattern match.
type Note struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	NoteText string `gorm:"not null" json:"note_text"`

	// BatesReferences is a JSON array of formatted Bates numbers mentioned in
	// the note text.
	BatesReferences datatypes.JSON `json:"bates_references"`

	// Source is "manual" or "chat" (saved chat output).
	Source string `gorm:"default:manual" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
