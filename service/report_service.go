package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"
)

// batesSeq returns the numeric sequence of a document's starting Bates number
// for ordering. Malformed values sort last.
func batesSeq(doc model.Document) int64 {
	_, n, err := model.ParseBates(doc.BatesStart)
	if err != nil {
		return 1<<62 - 1
	}
	return n
}

// documentLink is the synthetic link column report consumers click through.
func documentLink(doc model.Document) string {
	return fmt.Sprintf("/api/document/%s", doc.ID)
}

// PrivilegeLogCSV renders the privilege log for a matter: every document
// tagged Privileged, in Bates order. Returns the CSV bytes and the row count;
// zero rows means the caller should answer with a message instead of a file.
func (s *DocumentService) PrivilegeLogCSV(matterID string) ([]byte, int, error) {
	if _, err := s.GetMatter(matterID); err != nil {
		return nil, 0, err
	}

	entries, err := s.listByMatterAndKind(matterID, model.KindPrivileged)
	if err != nil {
		log.Printf("[PrivilegeLogCSV] query error: %v", err)
		return nil, 0, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return batesSeq(entries[i].Document) < batesSeq(entries[j].Document)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Bates Number", "Date", "Filename", "Privilege Type", "Justification", "Document Link"})
	for _, e := range entries {
		_ = w.Write([]string{
			e.Document.BatesStart,
			e.Document.UploadDate.Format("2006-01-02"),
			e.Document.Filename,
			e.Classification.Kind,
			e.Classification.Justification,
			documentLink(e.Document),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to write privilege log: %w", err)
	}
	return buf.Bytes(), len(entries), nil
}

// HotDocumentsCSV renders the hot-document report: documents tagged Hot
// Document, sorted by descending confidence then Bates order.
func (s *DocumentService) HotDocumentsCSV(matterID string) ([]byte, int, error) {
	if _, err := s.GetMatter(matterID); err != nil {
		return nil, 0, err
	}

	entries, err := s.listByMatterAndKind(matterID, model.KindHotDocument)
	if err != nil {
		log.Printf("[HotDocumentsCSV] query error: %v", err)
		return nil, 0, err
	}
	sort.Slice(entries, func(i, j int) bool {
		ci, cj := 0.0, 0.0
		if entries[i].Classification.Confidence != nil {
			ci = *entries[i].Classification.Confidence
		}
		if entries[j].Classification.Confidence != nil {
			cj = *entries[j].Classification.Confidence
		}
		if ci != cj {
			return ci > cj
		}
		return batesSeq(entries[i].Document) < batesSeq(entries[j].Document)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Bates Number", "Date", "Filename", "Confidence", "Justification", "Document Link"})
	for _, e := range entries {
		confidence := ""
		if e.Classification.Confidence != nil {
			confidence = fmt.Sprintf("%.2f", *e.Classification.Confidence)
		}
		_ = w.Write([]string{
			e.Document.BatesStart,
			e.Document.UploadDate.Format("2006-01-02"),
			e.Document.Filename,
			confidence,
			e.Classification.Justification,
			documentLink(e.Document),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to write hot-document report: %w", err)
	}
	return buf.Bytes(), len(entries), nil
}

// TimelineEntry is one row of the chronological matter timeline: either a
// document upload or a chat exchange that carried Bates citations.
type TimelineEntry struct {
	Type       string    `json:"type"` // "document" or "chat"
	Date       time.Time `json:"date"`
	DocumentID string    `json:"document_id,omitempty"`
	BatesStart string    `json:"bates_start,omitempty"`
	BatesEnd   string    `json:"bates_end,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	Message    string    `json:"message,omitempty"`
	Citations  []string  `json:"citations,omitempty"`
}

// Timeline lists a matter's documents interleaved chronologically with the
// chat exchanges that cited documents.
func (s *DocumentService) Timeline(matterID string) ([]TimelineEntry, error) {
	if _, err := s.GetMatter(matterID); err != nil {
		return nil, err
	}

	docs, err := s.GetDocumentsByMatter(matterID)
	if err != nil {
		return nil, err
	}

	var exchanges []model.ChatExchange
	if err := s.db.Where("matter_id = ?", matterID).Find(&exchanges).Error; err != nil {
		log.Printf("[Timeline] chat query error: %v", err)
		return nil, fmt.Errorf("failed to fetch chat exchanges: %w", err)
	}

	entries := make([]TimelineEntry, 0, len(docs)+len(exchanges))
	for _, doc := range docs {
		entries = append(entries, TimelineEntry{
			Type:       "document",
			Date:       doc.UploadDate,
			DocumentID: doc.ID,
			BatesStart: doc.BatesStart,
			BatesEnd:   doc.BatesEnd,
			Filename:   doc.Filename,
		})
	}
	for _, ex := range exchanges {
		var citations []string
		if len(ex.Citations) > 0 {
			if err := json.Unmarshal(ex.Citations, &citations); err != nil {
				log.Printf("[Timeline] exchange %s has malformed citations: %v", ex.ID, err)
			}
		}
		// Only cited exchanges belong on the evidence timeline.
		if len(citations) == 0 {
			continue
		}
		entries = append(entries, TimelineEntry{
			Type:      "chat",
			Date:      ex.CreatedAt,
			Message:   ex.UserMessage,
			Citations: citations,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}
