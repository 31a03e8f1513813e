package services

import (
	"errors"
	"testing"

	model "github.com/turman-legal/tls-ediscovery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestDocumentAssignsBatesRange(t *testing.T) {
	s, blobs := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 3))
	doc, err := s.IngestDocument(matter.ID, file, header)
	require.NoError(t, err)

	assert.Equal(t, "VQ-000001", doc.BatesStart)
	assert.Equal(t, "VQ-000003", doc.BatesEnd)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, model.ReviewStatusUploaded, doc.ReviewStatus)
	assert.Equal(t, 1, blobs.len())

	updated, err := s.GetMatter(matter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.NextBatesNumber)

	// Second upload continues the sequence.
	file2, header2 := newUpload(t, "email.pdf", "application/pdf", makePDF(t, 1))
	doc2, err := s.IngestDocument(matter.ID, file2, header2)
	require.NoError(t, err)
	assert.Equal(t, "VQ-000004", doc2.BatesStart)
	assert.Equal(t, "VQ-000004", doc2.BatesEnd)
}

func TestIngestDocumentRejectsNonPDF(t *testing.T) {
	s, blobs := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")

	file, header := newUpload(t, "notes.txt", "text/plain", []byte("plain text"))
	_, err := s.IngestDocument(matter.ID, file, header)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// Rejection happens before any write: no cursor advance, no row, no blob.
	updated, err := s.GetMatter(matter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.NextBatesNumber)

	var count int64
	require.NoError(t, s.db.Model(&model.Document{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, blobs.len())
}

func TestIngestDocumentUnknownMatter(t *testing.T) {
	s, _ := newTestService(t)

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 1))
	_, err := s.IngestDocument("11111111-2222-3333-4444-555555555555", file, header)
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestIngestDocumentBlobFailureAdvancesNothing(t *testing.T) {
	s, blobs := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")
	blobs.putErr = errors.New("storage offline")

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 2))
	_, err := s.IngestDocument(matter.ID, file, header)
	var uErr *UpstreamError
	require.ErrorAs(t, err, &uErr)

	// The blob write precedes allocation, so a storage failure leaves the
	// cursor untouched and no document row behind.
	updated, err := s.GetMatter(matter.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.NextBatesNumber)

	var count int64
	require.NoError(t, s.db.Model(&model.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCompleteTextExtraction(t *testing.T) {
	s, _ := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 1))
	doc, err := s.IngestDocument(matter.ID, file, header)
	require.NoError(t, err)

	updated, err := s.CompleteTextExtraction(doc.ID, "This agreement is confidential.")
	require.NoError(t, err)
	assert.True(t, updated.TextExtracted)
	assert.Equal(t, model.ReviewStatusTextExtracted, updated.ReviewStatus)
	assert.Equal(t, "This agreement is confidential.", updated.ExtractedText)

	// Idempotent completion: a repeat call simply wins with the latest text.
	updated, err = s.CompleteTextExtraction(doc.ID, "This agreement is confidential. Page 2.")
	require.NoError(t, err)
	assert.Equal(t, model.ReviewStatusTextExtracted, updated.ReviewStatus)
	assert.Equal(t, "This agreement is confidential. Page 2.", updated.ExtractedText)

	_, err = s.CompleteTextExtraction("11111111-2222-3333-4444-555555555555", "text")
	var nfErr *NotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestDeleteDocumentCascades(t *testing.T) {
	s, blobs := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 3))
	doc, err := s.IngestDocument(matter.ID, file, header)
	require.NoError(t, err)

	confidence := 0.9
	_, err = s.AttachClassification(doc.ID, model.KindPrivileged, &confidence, "attorney-client email", true)
	require.NoError(t, err)

	note, err := s.CreateNote("Key admission at VQ-000002; compare VQ-000099.", nil, model.NoteSourceManual)
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocument(doc.ID))

	// Document row, blob and classification rows are gone.
	_, err = s.GetDocument(doc.ID)
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Zero(t, blobs.len())

	var clsCount int64
	require.NoError(t, s.db.Model(&model.DocumentClassification{}).Where("document_id = ?", doc.ID).Count(&clsCount).Error)
	assert.Zero(t, clsCount)

	// The in-range note reference is stripped; the out-of-range one stays.
	var kept model.Note
	require.NoError(t, s.db.First(&kept, "id = ?", note.ID).Error)
	assert.JSONEq(t, `["VQ-000099"]`, string(kept.BatesReferences))

	// Idempotent delete: the second call reports NotFound, not a crash.
	err = s.DeleteDocument(doc.ID)
	assert.ErrorAs(t, err, &nfErr)
}

func TestCountPDFPages(t *testing.T) {
	for _, pages := range []int{1, 3, 12} {
		got, err := countPDFPages(makePDF(t, pages))
		require.NoError(t, err)
		assert.Equal(t, pages, got)
	}

	_, err := countPDFPages([]byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestStorageKeyVariesWithContent(t *testing.T) {
	a := storageKey("m1", "contract.pdf", []byte("one"))
	b := storageKey("m1", "contract.pdf", []byte("two"))
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "matters/m1/")
	assert.Contains(t, a, "contract.pdf")
}
