package services

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"

	"github.com/elastic/go-elasticsearch/v8"
	lpdf "github.com/ledongthuc/pdf"
	"gorm.io/gorm"
)

// DocumentService handles matters, document ingest, classifications, chat and
// reports. Controllers stay thin and delegate here.
type DocumentService struct {
	db       *gorm.DB
	blobs    BlobStore
	esClient *elasticsearch.Client

	// Chat proxy configuration. httpClient and retryBaseDelay are fields so
	// tests can point the proxy at a local server and shrink the backoff.
	chatEndpoint   string
	chatModel      string
	chatAPIKey     string
	httpClient     *http.Client
	retryBaseDelay time.Duration

	// contextCharBudget caps how much of each selected document's extracted
	// text is forwarded to the model.
	contextCharBudget int
}

// NewDocumentService initializes the service with the S3 blob store and an
// optional Elasticsearch client.
func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	blobs, err := newS3BlobStore()
	if err != nil {
		return nil, err
	}

	esURL := os.Getenv("ELASTICSEARCH_URL")
	var esClient *elasticsearch.Client
	if esURL != "" {
		esClient, err = elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{esURL},
		})
		if err != nil {
			log.Printf("Warning: Failed to create Elasticsearch client: %v", err)
			esClient = nil
		}
	}

	endpoint := os.Getenv("CHAT_API_URL")
	if endpoint == "" {
		endpoint = "https://api.groq.com/openai/v1/chat/completions"
	}
	chatModel := os.Getenv("CHAT_MODEL")
	if chatModel == "" {
		chatModel = "llama-3.3-70b-versatile"
	}

	return &DocumentService{
		db:                db,
		blobs:             blobs,
		esClient:          esClient,
		chatEndpoint:      endpoint,
		chatModel:         chatModel,
		chatAPIKey:        os.Getenv("CHAT_API_KEY"),
		httpClient:        &http.Client{Timeout: 60 * time.Second},
		retryBaseDelay:    2 * time.Second,
		contextCharBudget: 10000,
	}, nil
}

// countPDFPages parses the uploaded bytes and returns the real page count. The
// client is never trusted for Bates range width.
func countPDFPages(fileBytes []byte) (int, error) {
	reader, err := lpdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	n := reader.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return n, nil
}

// storageKey derives the blob key from the matter and the file content. The
// content hash keeps concurrent uploads of identically named files apart.
func storageKey(matterID string, filename string, fileBytes []byte) string {
	sum := sha256.Sum256(fileBytes)
	return fmt.Sprintf("matters/%s/%x-%s", matterID, sum[:8], filename)
}

// IngestDocument validates and stores an uploaded PDF, allocates its Bates
// range and records the document row.
//
// Ordering matters here: the blob is written before the Bates range is
// allocated, so a storage failure advances nothing. A database failure after
// allocation leaves a gap in the numbering sequence; gaps are tolerated in
// Bates practice and are accepted here rather than compensated.
func (s *DocumentService) IngestDocument(matterID string, file multipart.File, header *multipart.FileHeader) (*model.Document, error) {
	log.Printf("[IngestDocument] file=%s size=%d matter=%s", header.Filename, header.Size, matterID)

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		return nil, newValidationError("unsupported content type %q: only application/pdf is accepted", contentType)
	}
	if matterID == "" {
		return nil, newValidationError("matter_id is required")
	}

	matter, err := s.GetMatter(matterID)
	if err != nil {
		return nil, err
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(fileBytes) == 0 {
		return nil, newValidationError("uploaded file is empty")
	}

	pageCount, err := countPDFPages(fileBytes)
	if err != nil {
		return nil, newValidationError("not a readable PDF: %v", err)
	}

	key := storageKey(matter.ID, header.Filename, fileBytes)
	if err := s.blobs.Put(key, contentType, fileBytes); err != nil {
		log.Printf("[IngestDocument] blob write failed: %v", err)
		return nil, newUpstreamError("blob storage write failed", err)
	}
	log.Printf("[IngestDocument] stored blob at %s", key)

	start, end, err := s.AllocateBatesRange(matter.ID, pageCount)
	if err != nil {
		return nil, err
	}

	doc := model.Document{
		MatterID:     matter.ID,
		Filename:     header.Filename,
		BatesStart:   model.FormatBates(matter.BatesPrefix, start),
		BatesEnd:     model.FormatBates(matter.BatesPrefix, end),
		PageCount:    pageCount,
		FileSize:     int64(len(fileBytes)),
		StoragePath:  key,
		ReviewStatus: model.ReviewStatusUploaded,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.db.Create(&doc).Error; err != nil {
		// The allocated range is now a permanent gap; see note above.
		log.Printf("[IngestDocument] document insert failed after allocation %d-%d: %v", start, end, err)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}
	log.Printf("[IngestDocument] document %s assigned %s..%s", doc.ID, doc.BatesStart, doc.BatesEnd)

	return &doc, nil
}

// GetDocumentsByMatter lists a matter's documents, newest upload first.
func (s *DocumentService) GetDocumentsByMatter(matterID string) ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.Where("matter_id = ?", matterID).Order("upload_date DESC").Find(&docs).Error; err != nil {
		log.Printf("[GetDocumentsByMatter] query error: %v", err)
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

// GetDocument fetches one document by id.
func (s *DocumentService) GetDocument(documentID string) (*model.Document, error) {
	var doc model.Document
	if err := s.db.First(&doc, "id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newNotFoundError("document %s not found", documentID)
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &doc, nil
}

// OpenDocumentBlob streams the stored original PDF.
func (s *DocumentService) OpenDocumentBlob(documentID string) (*model.Document, io.ReadCloser, int64, error) {
	doc, err := s.GetDocument(documentID)
	if err != nil {
		return nil, nil, 0, err
	}
	body, size, err := s.blobs.Get(doc.StoragePath)
	if err != nil {
		return nil, nil, 0, newUpstreamError("blob storage read failed", err)
	}
	return doc, body, size, nil
}

// CompleteTextExtraction records extracted page text posted back by the
// client and moves the document to the text-extracted phase. Safe to call
// more than once; the latest text wins.
func (s *DocumentService) CompleteTextExtraction(documentID, fullText string) (*model.Document, error) {
	doc, err := s.GetDocument(documentID)
	if err != nil {
		return nil, err
	}

	doc.ExtractedText = fullText
	doc.TextExtracted = true
	doc.ReviewStatus = model.ReviewStatusTextExtracted
	doc.UpdatedAt = time.Now()

	if err := s.db.Model(doc).Updates(map[string]interface{}{
		"extracted_text": doc.ExtractedText,
		"text_extracted": true,
		"review_status":  doc.ReviewStatus,
		"updated_at":     doc.UpdatedAt,
	}).Error; err != nil {
		log.Printf("[CompleteTextExtraction] update failed for %s: %v", documentID, err)
		return nil, fmt.Errorf("failed to store extracted text: %w", err)
	}

	// Indexing is best-effort; a search outage never fails the extraction.
	if err := s.indexDocumentText(doc); err != nil {
		log.Printf("[CompleteTextExtraction] indexing error for %s: %v", documentID, err)
	}

	return doc, nil
}

// DeleteDocument removes the document row, its blob, its classifications and
// any note references to its Bates range. Deleting an unknown id reports
// NotFoundError, so a second delete of the same id is a clean 404.
func (s *DocumentService) DeleteDocument(documentID string) error {
	doc, err := s.GetDocument(documentID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(doc.StoragePath); err != nil {
		// The row cleanup still proceeds; an orphaned blob is recoverable,
		// a dangling document row is not.
		log.Printf("[DeleteDocument] blob delete failed for %s: %v", doc.StoragePath, err)
	}

	if err := s.db.Where("document_id = ?", documentID).Delete(&model.DocumentClassification{}).Error; err != nil {
		log.Printf("[DeleteDocument] classification cleanup failed: %v", err)
		return fmt.Errorf("failed to delete classifications: %w", err)
	}

	if err := s.removeNoteReferences(doc); err != nil {
		return err
	}

	if err := s.db.Delete(&model.Document{}, "id = ?", documentID).Error; err != nil {
		log.Printf("[DeleteDocument] row delete failed: %v", err)
		return fmt.Errorf("failed to delete document: %w", err)
	}
	log.Printf("[DeleteDocument] removed document %s (%s..%s)", doc.ID, doc.BatesStart, doc.BatesEnd)
	return nil
}

// trimToBudget truncates text to at most budget characters.
func trimToBudget(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	return strings.TrimSpace(text[:budget])
}
