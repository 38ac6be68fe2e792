package blobstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JKevinXu/NewsAgent/internal/config"
)

func TestPutUploadsAndReturnsPublicURL(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotType, gotAuth string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(config.StorageConfig{
		Endpoint:      server.URL + "/",
		PublicBaseURL: "https://cdn.example.com/",
		APIKey:        "store-key",
	})

	url, err := s.Put(context.Background(), "audio/2026-08-29/item-1.mp3", []byte("mp3"), "audio/mpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "https://cdn.example.com/audio/2026-08-29/item-1.mp3" {
		t.Fatalf("unexpected url: %q", url)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/audio/2026-08-29/item-1.mp3" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotType != "audio/mpeg" {
		t.Fatalf("content type = %q", gotType)
	}
	if gotAuth != "Bearer store-key" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if string(gotBody) != "mp3" {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestPutFallsBackToEndpointURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := New(config.StorageConfig{Endpoint: server.URL})

	url, err := s.Put(context.Background(), "objects/a.bin", []byte("x"), "application/octet-stream")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != server.URL+"/objects/a.bin" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestPutRejectsEmptyData(t *testing.T) {
	t.Parallel()

	s := New(config.StorageConfig{Endpoint: "http://store.invalid"})

	if _, err := s.Put(context.Background(), "k", nil, "audio/mpeg"); err == nil {
		t.Fatal("expected error storing empty object")
	}
}

func TestPutServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	s := New(config.StorageConfig{Endpoint: server.URL})

	if _, err := s.Put(context.Background(), "k", []byte("x"), "audio/mpeg"); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestPutMisconfigured(t *testing.T) {
	t.Parallel()

	s := New(config.StorageConfig{})

	if _, err := s.Put(context.Background(), "k", []byte("x"), "audio/mpeg"); err == nil {
		t.Fatal("expected error when endpoint unset")
	}
}
