package services

import (
	"testing"

	model "github.com/turman-legal/tls-ediscovery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachClassification(t *testing.T) {
	s, _ := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 1))
	doc, err := s.IngestDocument(matter.ID, file, header)
	require.NoError(t, err)

	confidence := 0.85
	entry, err := s.AttachClassification(doc.ID, model.KindHotDocument, &confidence, "admits liability", true)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.True(t, entry.AISuggested)

	// A document can carry several tags, including a repeat of the same kind.
	_, err = s.AttachClassification(doc.ID, model.KindHotDocument, nil, "reviewer agrees", false)
	require.NoError(t, err)
	_, err = s.AttachClassification(doc.ID, model.KindNeedsReview, nil, "", false)
	require.NoError(t, err)

	entries, err := s.GetDocumentClassifications(doc.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestAttachClassificationValidation(t *testing.T) {
	s, _ := newTestService(t)
	matter := mustCreateMatter(t, s, "VitaQuest", "VQ")

	file, header := newUpload(t, "contract.pdf", "application/pdf", makePDF(t, 1))
	doc, err := s.IngestDocument(matter.ID, file, header)
	require.NoError(t, err)

	var vErr *ValidationError

	_, err = s.AttachClassification(doc.ID, "Mildly Interesting", nil, "", false)
	assert.ErrorAs(t, err, &vErr)

	for _, bad := range []float64{-0.1, 1.5} {
		c := bad
		_, err = s.AttachClassification(doc.ID, model.KindExhibit, &c, "", false)
		assert.ErrorAs(t, err, &vErr, "confidence %v", bad)
	}

	var nfErr *NotFoundError
	_, err = s.AttachClassification("11111111-2222-3333-4444-555555555555", model.KindExhibit, nil, "", false)
	assert.ErrorAs(t, err, &nfErr)
}

func TestListByMatterAndKindScopedToMatter(t *testing.T) {
	s, _ := newTestService(t)
	matterA := mustCreateMatter(t, s, "VitaQuest", "VQ")
	matterB := mustCreateMatter(t, s, "Acme Dispute", "ACME")

	fileA, headerA := newUpload(t, "a.pdf", "application/pdf", makePDF(t, 1))
	docA, err := s.IngestDocument(matterA.ID, fileA, headerA)
	require.NoError(t, err)
	fileB, headerB := newUpload(t, "b.pdf", "application/pdf", makePDF(t, 1))
	docB, err := s.IngestDocument(matterB.ID, fileB, headerB)
	require.NoError(t, err)

	_, err = s.AttachClassification(docA.ID, model.KindPrivileged, nil, "", false)
	require.NoError(t, err)
	_, err = s.AttachClassification(docB.ID, model.KindPrivileged, nil, "", false)
	require.NoError(t, err)

	entries, err := s.listByMatterAndKind(matterA.ID, model.KindPrivileged)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, docA.ID, entries[0].Document.ID)
}
