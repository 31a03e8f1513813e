package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatExchange is one question/answer pair in a matter's append-only chat log.
type ChatExchange struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`

	UserMessage  string `gorm:"not null" json:"user_message"`
	ResponseText string `json:"response_text"`

	// Citations is a JSON array of the Bates tokens parsed out of the model's
	// reply. They are stored as returned; cross-checking against the document
	// list is a presentation concern.
	Citations datatypes.JSON `json:"citations"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *ChatExchange) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
