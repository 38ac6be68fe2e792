package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JKevinXu/NewsAgent/internal/config"
	"github.com/JKevinXu/NewsAgent/internal/ports"
)

// HTTPStore persists byte payloads via keyed PUT requests against an
// S3-compatible endpoint and returns the public retrieval URL.
type HTTPStore struct {
	endpoint string
	public   string
	apiKey   string
	http     *http.Client
}

var _ ports.ObjectStore = (*HTTPStore)(nil)

// New builds an object-store adapter from configuration.
func New(cfg config.StorageConfig) *HTTPStore {
	public := cfg.PublicBaseURL
	if public == "" {
		public = cfg.Endpoint
	}
	return &HTTPStore{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		public:   strings.TrimSuffix(public, "/"),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Put uploads data under key and returns its stable URL.
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("object store misconfigured")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("refusing to store empty object %s", key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint+"/"+key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("object store error for %s: %s", key, resp.Status)
	}

	return s.public + "/" + key, nil
}
