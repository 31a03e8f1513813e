package services

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"

	"gorm.io/datatypes"
)

// batesReferencePattern finds Bates numbers mentioned anywhere in free text.
var batesReferencePattern = regexp.MustCompile(`\b[A-Z]{2,6}-\d{6,}\b`)

// ExtractBatesReferences pulls distinct Bates numbers out of note text.
func ExtractBatesReferences(text string) []string {
	matches := batesReferencePattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		refs = append(refs, m)
	}
	return refs
}

// CreateNote stores an annotation. When the caller does not supply Bates
// references they are extracted from the note text.
func (s *DocumentService) CreateNote(noteText string, batesReferences []string, source string) (*model.Note, error) {
	if noteText == "" {
		return nil, newValidationError("note_text is required")
	}
	if source == "" {
		source = model.NoteSourceManual
	}
	if source != model.NoteSourceManual && source != model.NoteSourceChat {
		return nil, newValidationError("note source must be %q or %q, got %q", model.NoteSourceManual, model.NoteSourceChat, source)
	}

	if len(batesReferences) == 0 {
		batesReferences = ExtractBatesReferences(noteText)
	}
	refsJSON, err := json.Marshal(batesReferences)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bates references: %w", err)
	}

	note := model.Note{
		NoteText:        noteText,
		BatesReferences: datatypes.JSON(refsJSON),
		Source:          source,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.db.Create(&note).Error; err != nil {
		log.Printf("[CreateNote] insert failed: %v", err)
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &note, nil
}

// GetAllNotes lists notes, newest first.
func (s *DocumentService) GetAllNotes() ([]model.Note, error) {
	var notes []model.Note
	if err := s.db.Order("created_at DESC").Find(&notes).Error; err != nil {
		log.Printf("[GetAllNotes] query error: %v", err)
		return nil, fmt.Errorf("failed to fetch notes: %w", err)
	}
	return notes, nil
}

// removeNoteReferences strips references to the document's Bates range from
// every note, so a deleted document leaves no dangling citations.
func (s *DocumentService) removeNoteReferences(doc *model.Document) error {
	prefix, start, err := model.ParseBates(doc.BatesStart)
	if err != nil {
		return fmt.Errorf("document %s has malformed bates_start: %w", doc.ID, err)
	}
	_, end, err := model.ParseBates(doc.BatesEnd)
	if err != nil {
		return fmt.Errorf("document %s has malformed bates_end: %w", doc.ID, err)
	}

	var notes []model.Note
	if err := s.db.Find(&notes).Error; err != nil {
		return fmt.Errorf("failed to fetch notes for cleanup: %w", err)
	}

	for _, note := range notes {
		var refs []string
		if len(note.BatesReferences) > 0 {
			if err := json.Unmarshal(note.BatesReferences, &refs); err != nil {
				log.Printf("[removeNoteReferences] note %s has malformed references: %v", note.ID, err)
				continue
			}
		}

		kept := refs[:0]
		for _, ref := range refs {
			refPrefix, refNum, err := model.ParseBates(ref)
			if err != nil || refPrefix != prefix || refNum < start || refNum > end {
				kept = append(kept, ref)
			}
		}
		if len(kept) == len(refs) {
			continue
		}

		updated, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("failed to marshal cleaned references: %w", err)
		}
		if err := s.db.Model(&model.Note{}).Where("id = ?", note.ID).Updates(map[string]interface{}{
			"bates_references": datatypes.JSON(updated),
			"updated_at":       time.Now(),
		}).Error; err != nil {
			log.Printf("[removeNoteReferences] update failed for note %s: %v", note.ID, err)
			return fmt.Errorf("failed to clean note references: %w", err)
		}
	}
	return nil
}
