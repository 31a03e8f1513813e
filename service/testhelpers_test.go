package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"sync"
	"testing"
	"time"

	model "github.com/turman-legal/tls-ediscovery/models"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService builds a DocumentService over a throwaway SQLite database
// and an in-memory blob store.
func newTestService(t *testing.T) (*DocumentService, *memBlobStore) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("ediscovery_%d.db", time.Now().UnixNano())) +
		"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(
		&model.Matter{},
		&model.Document{},
		&model.DocumentClassification{},
		&model.Note{},
		&model.ChatExchange{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	blobs := newMemBlobStore()
	return &DocumentService{
		db:                db,
		blobs:             blobs,
		chatEndpoint:      "http://invalid.test/chat",
		chatModel:         "test-model",
		chatAPIKey:        "test-key",
		httpClient:        http.DefaultClient,
		retryBaseDelay:    20 * time.Millisecond,
		contextCharBudget: 10000,
	}, blobs
}

// memBlobStore is an in-memory BlobStore with fault injection for Put.
type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string][]byte)}
}

func (m *memBlobStore) Put(key, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobStore) Get(key string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, 0, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *memBlobStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// makePDF generates a small but structurally valid PDF with the given page
// count. Cross-reference offsets are computed while writing, so the output
// always parses.
func makePDF(t *testing.T, pages int) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	}
	for i := 0; i < pages; i++ {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return buf.Bytes()
}

// uploadFile wraps bytes as the multipart pair IngestDocument consumes.
type uploadFile struct {
	*bytes.Reader
}

func (uploadFile) Close() error { return nil }

func newUpload(t *testing.T, filename, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
	return uploadFile{bytes.NewReader(data)}, header
}

// mustCreateMatter seeds a matter or fails the test.
func mustCreateMatter(t *testing.T, s *DocumentService, name, prefix string) *model.Matter {
	t.Helper()
	matter, err := s.CreateMatter(name, prefix, "test matter")
	if err != nil {
		t.Fatalf("create matter: %v", err)
	}
	return matter
}
