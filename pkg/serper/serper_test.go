package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{APIKey: "key"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClient(Config{URL: "https://google.serper.dev"}); err == nil {
		t.Fatal("expected error for empty api key")
	}
	if _, err := NewClient(Config{URL: "https://google.serper.dev", APIKey: "key"}); err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
}

func TestSearchSendsRequest(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotContentType string
	var gotBody map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-KEY")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"organic":[{"title":"Iron-rich foods","link":"https://example.com/iron","snippet":"spinach, red meat"}]}`))
	}))
	defer ts.Close()

	client, err := NewClient(Config{URL: ts.URL, APIKey: "test-key", MaxResults: 3})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	results, err := client.Search(context.Background(), "foods for low hemoglobin")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotPath != "/search" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api key header: %s", gotKey)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %s", gotContentType)
	}
	if gotBody["q"] != "foods for low hemoglobin" {
		t.Fatalf("unexpected query: %v", gotBody["q"])
	}
	if gotBody["num"] != float64(3) {
		t.Fatalf("unexpected num: %v", gotBody["num"])
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "Iron-rich foods" || results[0].Link != "https://example.com/iron" {
		t.Fatalf("unexpected result: %+v", results[0])
	}
}

func TestSearchCapsResults(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"organic":[{"title":"a"},{"title":"b"},{"title":"c"}]}`))
	}))
	defer ts.Close()

	client, err := NewClient(Config{URL: ts.URL, APIKey: "test-key", MaxResults: 2})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	results, err := client.Search(context.Background(), "cholesterol diet")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected capped results, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{URL: "https://google.serper.dev", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Search(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchNonSuccessStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer ts.Close()

	client, err := NewClient(Config{URL: ts.URL, APIKey: "bad-key"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Search(context.Background(), "cholesterol diet")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "status=403") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestSearchMalformedResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	client, err := NewClient(Config{URL: ts.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.Search(context.Background(), "cholesterol diet"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
