package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/konveksi/backend-go/internal/config"
)

func TestNewMinioClientValidation(t *testing.T) {
	valid := config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "konveksi"}

	_, err := NewMinioClient(valid)
	require.NoError(t, err)

	missing := map[string]config.StorageConfig{
		"endpoint": {AccessKey: "ak", SecretKey: "sk", Bucket: "b"},
		"secret":   {Endpoint: "localhost:9000", AccessKey: "ak", Bucket: "b"},
		"bucket":   {Endpoint: "localhost:9000", AccessKey: "ak", SecretKey: "sk"},
	}
	for name, cfg := range missing {
		t.Run(name, func(t *testing.T) {
			_, err := NewMinioClient(cfg)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in         string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://minio:9000", true, "minio:9000", false},
		{"minio:9000", true, "minio:9000", true},
		{"//minio:9000", false, "minio:9000", false},
	}
	for _, tt := range tests {
		host, secure := normalizeEndpoint(tt.in, tt.useSSL)
		assert.Equal(t, tt.wantHost, host, tt.in)
		assert.Equal(t, tt.wantSecure, secure, tt.in)
	}
}
