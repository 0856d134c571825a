package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campusvault/CampusVault/internal/services"
)

func TestListFilesSendsNormalizedFilters(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "data": []interface{}{},
			"pagination": services.Pagination{Page: 1, Limit: 20, Total: 0, Pages: 1},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SearchFiles(context.Background(), "CSC101", Filters{
		Category:  "past-questions",
		SortBy:    "fileName",
		SortOrder: "asc",
		Page:      7, // a new search always resets to page 1
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	want := map[string]string{
		"category":  "past-questions",
		"search":    "CSC101",
		"sortBy":    "fileName",
		"sortOrder": "asc",
		"page":      "1",
	}
	for k, v := range want {
		if got := gotQuery[k]; len(got) != 1 || got[0] != v {
			t.Errorf("query %s = %v, want %q", k, got, v)
		}
	}
	for k := range gotQuery {
		if _, ok := want[k]; !ok {
			t.Errorf("unexpected query parameter %s=%v", k, gotQuery[k])
		}
	}
}

func TestListFilesNormalizesEnvelopeShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"original_name":"a.pdf"},{"original_name":"b.pdf"}],"pagination":{"page":2,"limit":2,"total":10,"pages":5}}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListFiles(context.Background(), Filters{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(got.Files))
	}
	if got.Pagination.Pages != 5 || got.Pagination.Total != 10 {
		t.Fatalf("pagination not carried through: %+v", got.Pagination)
	}
}

func TestListFilesNormalizesBareArrayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"original_name":"a.pdf"},{"original_name":"b.pdf"},{"original_name":"c.pdf"}]`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).ListFiles(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(got.Files))
	}
	// A bare array means one page holding everything.
	if got.Pagination.Page != 1 || got.Pagination.Pages != 1 || got.Pagination.Total != 3 {
		t.Fatalf("expected single-page pagination, got %+v", got.Pagination)
	}
}

func TestErrorMessageExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"File size exceeds the 20 MB limit for Images"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteFile(context.Background(), "abc")
	if err == nil || err.Error() != "File size exceeds the 20 MB limit for Images" {
		t.Fatalf("expected the server's message verbatim, got %v", err)
	}
}

func TestErrorFallbackWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteFile(context.Background(), "abc")
	if err == nil || !strings.Contains(err.Error(), "request failed with status 502") {
		t.Fatalf("expected generic fallback, got %v", err)
	}
}

func TestUploadRequiresClassificationFields(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	_, err := New(srv.URL).UploadFile(context.Background(), UploadRequest{
		FileName: "notes.pdf",
		Content:  strings.NewReader("x"),
		Category: "lecture-notes",
		// department/level/semester missing
	})
	if err == nil {
		t.Fatal("expected an error for missing required fields")
	}
	if hit {
		t.Fatal("gateway must not be invoked with an incomplete required-field set")
	}
}

func TestUploadSendsMultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not a multipart request: %v", err)
		}
		for key, want := range map[string]string{
			"category": "past-questions", "department": "CSC",
			"level": "300", "semester": "first", "tags": "exam,2024",
		} {
			if got := r.FormValue(key); got != want {
				t.Errorf("form field %s = %q, want %q", key, got, want)
			}
		}
		if _, header, err := r.FormFile("file"); err != nil || header.Filename != "csc101.pdf" {
			t.Errorf("file part missing or misnamed: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "File uploaded successfully",
			"file":    map[string]interface{}{"original_name": "csc101.pdf"},
		})
	}))
	defer srv.Close()

	file, err := New(srv.URL).UploadFile(context.Background(), UploadRequest{
		FileName:   "csc101.pdf",
		Content:    strings.NewReader("%PDF-1.4"),
		Category:   "past-questions",
		Department: "CSC",
		Level:      "300",
		Semester:   "first",
		Tags:       []string{"exam", "2024"},
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if file.OriginalName != "csc101.pdf" {
		t.Fatalf("created file not decoded: %+v", file)
	}
}

func TestCompletePasswordReset2FAMismatchNeverHitsNetwork(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	err := New(srv.URL).CompletePasswordReset2FA(context.Background(),
		"token", "123456", "654321", "newpassword", "different")
	if err == nil || err.Error() != "Passwords do not match" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if hit {
		t.Fatal("mismatched passwords must block the network call entirely")
	}

	err = New(srv.URL).CompletePasswordReset2FA(context.Background(),
		"token", "123456", "654321", "abc", "abc")
	if err == nil || !strings.Contains(err.Error(), "at least 6 characters") {
		t.Fatalf("expected short-password error, got %v", err)
	}
	if hit {
		t.Fatal("short password must block the network call entirely")
	}
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"session store unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession(Session{Token: "stale-token"})

	if err := c.Logout(context.Background()); err == nil {
		t.Fatal("expected the server error to surface")
	}
	if got := c.Session(); got.Token != "" {
		t.Fatalf("logout must clear the session regardless of the response, still have %q", got.Token)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetSession(Session{Token: "abc123"})
	if _, err := c.ListFiles(context.Background(), Filters{}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestContextCancellationDiscardsStaleRequest(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // superseded before it even starts
	if _, err := New(srv.URL).ListFiles(ctx, Filters{Search: "stale"}); err == nil {
		t.Fatal("expected a cancellation error for the superseded request")
	}
}
