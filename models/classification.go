package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Classification kinds are a closed set. Adding a kind is a code change, not a
// runtime insert.
const (
	KindHotDocument = "Hot Document"
	KindPrivileged  = "Privileged"
	KindBadDocument = "Bad Document"
	KindKeyWitness  = "Key Witness"
	KindExhibit     = "Exhibit"
	KindNeedsReview = "Needs Review"
)

// ClassificationKind describes one member of the fixed kind set, including the
// presentation metadata the dashboard renders.
type ClassificationKind struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// ClassificationKinds lists every kind in display order.
var ClassificationKinds = []ClassificationKind{
	{Name: KindHotDocument, Description: "Litigation-significant evidence critical to case strategy", Color: "#ef4444", Icon: "flame"},
	{Name: KindPrivileged, Description: "Attorney-client privilege or work product protection", Color: "#8b5cf6", Icon: "shield"},
	{Name: KindBadDocument, Description: "Evidence potentially harmful to client position", Color: "#f59e0b", Icon: "alert-triangle"},
	{Name: KindKeyWitness, Description: "Documents authored by or referencing critical witnesses", Color: "#10b981", Icon: "user"},
	{Name: KindExhibit, Description: "Likely trial or deposition exhibit", Color: "#3b82f6", Icon: "file-text"},
	{Name: KindNeedsReview, Description: "Requires senior attorney examination", Color: "#6b7280", Icon: "eye"},
}

// ValidClassificationKind reports whether kind is a member of the closed set.
func ValidClassificationKind(kind string) bool {
	for _, k := range ClassificationKinds {
		if k.Name == kind {
			return true
		}
	}
	return false
}

// DocumentClassification links a document to a classification kind. The same
// kind may be attached more than once; no uniqueness is enforced.
type DocumentClassification struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID string `gorm:"type:uuid;not null;index" json:"document_id"`

	// Kind is one of the ClassificationKinds names, validated before insert.
	Kind string `gorm:"not null" json:"kind"`

	// Confidence is optional; AI-suggested classifications carry one.
	Confidence    *float64 `json:"confidence,omitempty"`
	Justification string   `json:"justification,omitempty"`

	AISuggested       bool `gorm:"default:false" json:"ai_suggested"`
	AttorneyConfirmed bool `gorm:"default:false" json:"attorney_confirmed"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *DocumentClassification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
