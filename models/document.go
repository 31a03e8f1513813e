package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review status values for the two-phase document lifecycle. A document is
// created as "uploaded" and moves to "text-extracted" when the extraction
// bridge posts the page text back.
const (
	ReviewStatusUploaded      = "uploaded"
	ReviewStatusTextExtracted = "text-extracted"
)

// Document is one produced PDF under a matter. Its Bates range is fixed at
// ingest time and never reassigned.
type Document struct {
	// ID is a unique identifier for the document, stored as a UUID.
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	// MatterID references the owning matter.
	MatterID string `gorm:"type:uuid;not null;index" json:"matter_id"`

	// Filename is the original upload name.
	Filename string `gorm:"not null" json:"filename"`

	// BatesStart and BatesEnd are the formatted endpoints of the contiguous
	// range stamped on this document, e.g. "VQ-000001".."VQ-000003".
	// Invariant: the numeric span width equals PageCount.
	BatesStart string `gorm:"not null" json:"bates_start"`
	BatesEnd   string `gorm:"not null" json:"bates_end"`

	// PageCount is computed server-side from the uploaded PDF.
	PageCount int `gorm:"not null;default:1" json:"page_count"`

	// FileSize is the byte size of the original upload.
	FileSize int64 `gorm:"not null" json:"file_size"`

	// StoragePath is the blob store key holding the original bytes.
	StoragePath string `gorm:"not null" json:"storage_path"`

	// TextExtracted flips when the client posts extracted text back.
	TextExtracted bool   `gorm:"default:false" json:"text_extracted"`
	ExtractedText string `json:"extracted_text,omitempty"`

	ReviewStatus string    `gorm:"default:uploaded" json:"review_status"`
	UploadDate   time.Time `json:"upload_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return nil
}
