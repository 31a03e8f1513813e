package services

import (
	"fmt"
	"log"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"
)

// AttachClassification links a document to one of the fixed classification
// kinds. The same kind may be attached more than once.
func (s *DocumentService) AttachClassification(documentID, kind string, confidence *float64, justification string, aiSuggested bool) (*model.DocumentClassification, error) {
	if !model.ValidClassificationKind(kind) {
		return nil, newValidationError("unknown classification kind %q", kind)
	}
	if confidence != nil && (*confidence < 0 || *confidence > 1) {
		return nil, newValidationError("confidence must be between 0 and 1, got %f", *confidence)
	}

	if _, err := s.GetDocument(documentID); err != nil {
		return nil, err
	}

	entry := model.DocumentClassification{
		DocumentID:    documentID,
		Kind:          kind,
		Confidence:    confidence,
		Justification: justification,
		AISuggested:   aiSuggested,
		CreatedAt:     time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("[AttachClassification] insert failed: %v", err)
		return nil, fmt.Errorf("failed to attach classification: %w", err)
	}
	log.Printf("[AttachClassification] document %s tagged %q", documentID, kind)
	return &entry, nil
}

// GetDocumentClassifications lists the classification rows for one document.
func (s *DocumentService) GetDocumentClassifications(documentID string) ([]model.DocumentClassification, error) {
	var entries []model.DocumentClassification
	if err := s.db.Where("document_id = ?", documentID).Order("created_at").Find(&entries).Error; err != nil {
		log.Printf("[GetDocumentClassifications] query error: %v", err)
		return nil, fmt.Errorf("failed to fetch classifications: %w", err)
	}
	return entries, nil
}

// classifiedDocument pairs a document with the classification row that
// selected it; report generators consume this joined shape.
type classifiedDocument struct {
	Document       model.Document
	Classification model.DocumentClassification
}

// listByMatterAndKind joins a matter's documents through their classification
// rows for one kind.
func (s *DocumentService) listByMatterAndKind(matterID, kind string) ([]classifiedDocument, error) {
	var docs []model.Document
	if err := s.db.Where("matter_id = ?", matterID).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}

	byID := make(map[string]model.Document, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var entries []model.DocumentClassification
	if err := s.db.Where("document_id IN ? AND kind = ?", ids, kind).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch classification rows: %w", err)
	}

	joined := make([]classifiedDocument, 0, len(entries))
	for _, e := range entries {
		joined = append(joined, classifiedDocument{Document: byID[e.DocumentID], Classification: e})
	}
	return joined, nil
}
