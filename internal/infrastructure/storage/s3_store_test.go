package storage_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dental-ops-api/internal/infrastructure/storage"
	"github.com/jhoicas/dental-ops-api/pkg/config"
)

func TestNewS3Store_RequiereBucket(t *testing.T) {
	_, err := storage.NewS3Store(context.Background(), config.StorageConfig{}, nil)
	assert.Error(t, err)
}

func TestPresignGet_PathStyle(t *testing.T) {
	s, err := storage.NewS3Store(context.Background(), config.StorageConfig{
		Endpoint:     "http://minio.local:9000",
		Region:       "us-east-1",
		Bucket:       "adjuntos",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		UsePathStyle: true,
	}, nil)
	require.NoError(t, err)

	raw, err := s.PresignGet(context.Background(), "contract/c-1/factura.pdf", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.Equal(t, "/adjuntos/contract/c-1/factura.pdf", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
