package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/thesisvault/backend/pkg/config"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(config.StorageConfig{
		BaseURL:     baseURL,
		Buckets:     []string{"thesis_files", "thesis-files"},
		Folders:     []string{"thesis-pdfs", ""},
		HeadTimeout: 2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestPublicURL(t *testing.T) {
	client := newTestClient(t, "https://project.supabase.co/")

	got := client.PublicURL("thesis_files", "thesis-pdfs", "ML_Healthcare_2023.pdf")
	want := "https://project.supabase.co/storage/v1/object/public/thesis_files/thesis-pdfs/ML_Healthcare_2023.pdf"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}

	rootGot := client.PublicURL("thesis_files", "", "a.pdf")
	if strings.Contains(rootGot, "//a.pdf") {
		t.Errorf("root folder URL has empty segment: %q", rootGot)
	}
}

func TestResolvePDFProbesUntilHit(t *testing.T) {
	var probed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed = append(probed, r.URL.Path)
		if strings.Contains(r.URL.Path, "/thesis-files/thesis-pdfs/") {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	url, err := client.ResolvePDF(context.Background(), "paper.pdf")
	if err != nil {
		t.Fatalf("ResolvePDF: %v", err)
	}
	if !strings.Contains(url, "/thesis-files/thesis-pdfs/paper.pdf") {
		t.Errorf("unexpected resolved url %q", url)
	}
	if len(probed) < 2 {
		t.Errorf("expected multiple probes before hit, got %d", len(probed))
	}
}

func TestResolvePDFNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.ResolvePDF(context.Background(), "missing.pdf"); err == nil {
		t.Fatal("expected error for missing object")
	}
}

func TestResolvePDFCollectsProbeFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.ResolvePDF(context.Background(), "paper.pdf")
	if err == nil {
		t.Fatal("expected aggregated probe error")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("expected probe failures in error, got %v", err)
	}
}

func TestCandidatesCoverAllCombinations(t *testing.T) {
	client := newTestClient(t, "https://project.supabase.co")
	urls := client.Candidates("x.pdf")
	if len(urls) != 4 {
		t.Fatalf("expected 4 candidates (2 buckets x 2 folders), got %d", len(urls))
	}
}
