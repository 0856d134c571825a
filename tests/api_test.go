package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"
)

// These tests exercise a running server (plus MongoDB and MinIO) end to end
// and are skipped when none is listening on apiBase. Unit coverage for the
// validator, registry, gate, preview dispatch and gateway lives next to
// those packages.

const (
	apiBase      = "http://localhost:8080"
	testEmail    = "test@example.com"
	testPassword = "password123"
)

type authResponse struct {
	Token string `json:"token"`
}

type fileResponse struct {
	Message string `json:"message"`
	File    struct {
		ID string `json:"id"`
	} `json:"file"`
}

type listResponse struct {
	Success    bool              `json:"success"`
	Data       []json.RawMessage `json:"data"`
	Pagination struct {
		Page  int `json:"page"`
		Pages int `json:"pages"`
	} `json:"pagination"`
}

// TestAPIEndpoints runs tests against the API endpoints
func TestAPIEndpoints(t *testing.T) {
	resp, err := http.Get(apiBase + "/api/categories")
	if err != nil {
		t.Skipf("API server is not running at %s: %v", apiBase, err)
	}
	resp.Body.Close()

	// Register a new user
	t.Run("Register User", func(t *testing.T) {
		payload := map[string]string{
			"email":     testEmail,
			"password":  testPassword,
			"full_name": "Test Student",
		}
		jsonPayload, _ := json.Marshal(payload)

		resp, err := http.Post(apiBase+"/auth/register", "application/json", bytes.NewBuffer(jsonPayload))
		if err != nil {
			t.Fatalf("Failed to register user: %v", err)
		}
		defer resp.Body.Close()

		// We don't fail if user already exists
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Fatalf("Failed to register user. Status: %d, Response: %s", resp.StatusCode, string(bodyBytes))
		}
	})

	// Login and get token. Requires the test account to be verified and
	// approved out of band (admin console or a seed script).
	var token string
	t.Run("Login", func(t *testing.T) {
		payload := map[string]string{
			"email":    testEmail,
			"password": testPassword,
		}
		jsonPayload, _ := json.Marshal(payload)

		resp, err := http.Post(apiBase+"/auth/login", "application/json", bytes.NewBuffer(jsonPayload))
		if err != nil {
			t.Fatalf("Failed to login: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Skipf("Login unavailable (account not verified/approved?). Status: %d, Response: %s", resp.StatusCode, string(bodyBytes))
		}

		var authResp authResponse
		if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		token = authResp.Token
		if token == "" {
			t.Fatal("No token received")
		}
	})

	// Upload a file
	var fileID string
	t.Run("Upload File", func(t *testing.T) {
		if token == "" {
			t.Skip("Skipping test due to no auth token")
		}

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "csc101-exam.pdf")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err = part.Write([]byte("%PDF-1.4 test payload")); err != nil {
			t.Fatalf("Failed to write to form file: %v", err)
		}
		for k, v := range map[string]string{
			"category":    "past-questions",
			"department":  "CSC",
			"level":       "100",
			"semester":    "first",
			"course_code": "CSC101",
		} {
			writer.WriteField(k, v)
		}
		writer.Close()

		req, err := http.NewRequest("POST", apiBase+"/api/files/", body)
		if err != nil {
			t.Fatalf("Failed to create request: %v", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Fatalf("Failed to upload file. Status: %d, Response: %s", resp.StatusCode, string(bodyBytes))
		}

		var fileResp fileResponse
		if err := json.NewDecoder(resp.Body).Decode(&fileResp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		fileID = fileResp.File.ID
		if fileID == "" {
			t.Fatal("No file ID received")
		}
		t.Logf("Uploaded file ID: %s", fileID)
	})

	// Search for the uploaded file
	t.Run("Search Files", func(t *testing.T) {
		if token == "" {
			t.Skip("Skipping test due to no auth token")
		}

		req, _ := http.NewRequest("GET", apiBase+"/api/files/?search=CSC101&category=past-questions&sortBy=fileName&sortOrder=asc&page=1", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Failed to list files: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Fatalf("Failed to list files. Status: %d, Response: %s", resp.StatusCode, string(bodyBytes))
		}

		var listResp listResponse
		if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(listResp.Data) == 0 {
			t.Fatal("Expected at least one match for CSC101")
		}
		if listResp.Pagination.Page != 1 {
			t.Fatalf("Expected page 1, got %d", listResp.Pagination.Page)
		}
	})

	// Request a download link
	t.Run("Download File", func(t *testing.T) {
		if token == "" || fileID == "" {
			t.Skip("Skipping test due to no auth token or file ID")
		}

		req, _ := http.NewRequest("GET", apiBase+"/api/files/"+fileID+"/download", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Failed to request download: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Fatalf("Failed to get download link. Status: %d, Response: %s", resp.StatusCode, string(bodyBytes))
		}

		var dl struct {
			DownloadURL string `json:"download_url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&dl); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if dl.DownloadURL == "" {
			t.Fatal("No download URL received")
		}
	})

	// Delete the uploaded file
	t.Run("Delete File", func(t *testing.T) {
		if token == "" || fileID == "" {
			t.Skip("Skipping test due to no auth token or file ID")
		}

		req, _ := http.NewRequest("DELETE", apiBase+"/api/files/"+fileID, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Failed to delete file: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			t.Fatalf("Failed to delete file. Status: %d, Response: %s", resp.StatusCode, string(bodyBytes))
		}
	})
}
