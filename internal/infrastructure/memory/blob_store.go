package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/jhoicas/dental-ops-api/internal/application/ports"
	"github.com/jhoicas/dental-ops-api/internal/domain"
)

var _ ports.AttachmentStore = (*BlobStore)(nil)

type blob struct {
	contentType string
	data        []byte
}

// BlobStore adjuntos en memoria del proceso. Los enlaces usan el esquema memory://.
type BlobStore struct {
	mu   sync.RWMutex
	objs map[string]blob
}

// NewBlobStore construye el almacenamiento vacío.
func NewBlobStore() *BlobStore {
	return &BlobStore{objs: make(map[string]blob)}
}

func (s *BlobStore) Put(_ context.Context, key, contentType string, body io.Reader, size int64) error {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("put %s: se esperaban %d bytes, llegaron %d", key, size, n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objs[key] = blob{contentType: contentType, data: buf.Bytes()}
	return nil
}

// PresignGet devuelve un enlace memory:// con la expiración en la query.
func (s *BlobStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return "", domain.ErrNotFound
	}
	u := url.URL{Scheme: "memory", Path: "/" + key, RawQuery: url.Values{"expires": {time.Now().Add(ttl).UTC().Format(time.RFC3339)}}.Encode()}
	return u.String(), nil
}

func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

// Get contenido y tipo guardados (tests).
func (s *BlobStore) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objs[key]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(b.data), b.contentType, true
}

// Len cantidad de objetos guardados.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objs)
}
