// Package client is the repository data gateway: it translates each
// repository and auth operation into exactly one REST call against a
// CampusVault server, normalizes the two listing response shapes (bare array
// and {data, pagination}) into one, and converts every transport failure
// into a returned error so "no matches" and "fetch failed" are never
// conflated. All calls take a context; cancelling it is how callers discard
// responses from superseded requests (rapid search typing, page flips).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/services"
	"github.com/campusvault/CampusVault/internal/validation"
)

// Session is the explicit auth state a gateway carries. It replaces ambient
// token storage: construct a Client, log in (or inject a session), and every
// later call attaches the bearer token. Logout tears it down.
type Session struct {
	Token string
	User  models.User
}

// Client is a CampusVault API client. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu      sync.Mutex
	session Session
}

// New creates a gateway against the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
	}
}

// NewWithHTTPClient injects a custom http.Client (timeouts, transports, fakes).
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	c.httpc = hc
	return c
}

// Session returns a copy of the current auth state.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetSession injects an existing session (e.g. restored from disk).
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token
}

// apiError digs the server's error message out of a non-2xx body. A body
// that is not parseable JSON falls back to a generic message.
func apiError(resp *http.Response) error {
	defer resp.Body.Close()
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return errors.New(payload.Error)
		}
		if payload.Message != "" {
			return errors.New(payload.Message)
		}
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Filters are the accepted listing parameters. Zero values are omitted from
// the query; Page defaults to 1 server-side.
type Filters struct {
	Category   string
	Department string
	Level      string
	Semester   string
	FileType   string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

func (f Filters) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("category", f.Category)
	set("department", f.Department)
	set("level", f.Level)
	set("semester", f.Semester)
	set("fileType", f.FileType)
	set("search", f.Search)
	set("sortBy", f.SortBy)
	set("sortOrder", f.SortOrder)
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// FileList is the uniform result every listing call resolves to.
type FileList struct {
	Files      []models.RepositoryFile
	Pagination services.Pagination
}

// decodeFileList accepts both response shapes the API has historically used:
// a bare array of files, and {success, data, pagination}.
func decodeFileList(r io.Reader) (FileList, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return FileList{}, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var files []models.RepositoryFile
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return FileList{}, err
		}
		return FileList{
			Files: files,
			Pagination: services.Pagination{
				Page: 1, Limit: len(files), Total: int64(len(files)), Pages: 1,
			},
		}, nil
	}
	var envelope struct {
		Data       []models.RepositoryFile `json:"data"`
		Pagination *services.Pagination    `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return FileList{}, err
	}
	result := FileList{Files: envelope.Data}
	if envelope.Pagination != nil {
		result.Pagination = *envelope.Pagination
	} else {
		result.Pagination = services.Pagination{
			Page: 1, Limit: len(result.Files), Total: int64(len(result.Files)), Pages: 1,
		}
	}
	return result, nil
}

// ListFiles fetches one page of the repository listing.
func (c *Client) ListFiles(ctx context.Context, f Filters) (FileList, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/files/?"+f.values().Encode(), nil, "")
	if err != nil {
		return FileList{}, err
	}
	defer resp.Body.Close()
	return decodeFileList(resp.Body)
}

// SearchFiles runs a text search combined with filters. Pagination resets to
// page 1, matching the UI contract that a new query starts from the top.
func (c *Client) SearchFiles(ctx context.Context, query string, f Filters) (FileList, error) {
	f.Search = query
	f.Page = 1
	return c.ListFiles(ctx, f)
}

// UploadRequest carries a repository upload. File, Category, Department,
// Level and Semester are required; the rest is optional metadata.
type UploadRequest struct {
	FileName string
	Content  io.Reader

	Category   string
	Department string
	Level      string
	Semester   string

	CourseCode  string
	CourseTitle string
	Description string
	Tags        []string

	IsPublic     bool
	RequiresAuth bool
	AllowedRoles []string

	Size int64 // used for pre-flight validation when known
}

// Validate runs the same pre-flight checks the server enforces, without any
// network traffic. UI code calls this before invoking UploadFile.
func (r UploadRequest) Validate() []string {
	errs := validation.ValidateUpload(r.FileName, r.Size, r.Category)
	errs = append(errs, validation.ValidateClassification(r.Department, r.Level, r.Semester)...)
	if r.Content == nil {
		errs = append(errs, "No file selected")
	}
	return errs
}

// UploadFile performs the multipart upload and returns the created record.
func (c *Client) UploadFile(ctx context.Context, r UploadRequest) (models.RepositoryFile, error) {
	if r.Content == nil || r.Category == "" || r.Department == "" || r.Level == "" || r.Semester == "" {
		return models.RepositoryFile{}, errors.New("file, category, department, level and semester are required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", r.FileName)
	if err != nil {
		return models.RepositoryFile{}, err
	}
	if _, err = io.Copy(part, r.Content); err != nil {
		return models.RepositoryFile{}, err
	}

	fields := map[string]string{
		"category":      r.Category,
		"department":    r.Department,
		"level":         r.Level,
		"semester":      r.Semester,
		"course_code":   r.CourseCode,
		"course_title":  r.CourseTitle,
		"description":   r.Description,
		"tags":          strings.Join(r.Tags, ","),
		"allowed_roles": strings.Join(r.AllowedRoles, ","),
		"is_public":     strconv.FormatBool(r.IsPublic),
		"requires_auth": strconv.FormatBool(r.RequiresAuth),
	}
	for k, v := range fields {
		if v != "" {
			if err = w.WriteField(k, v); err != nil {
				return models.RepositoryFile{}, err
			}
		}
	}
	if err = w.Close(); err != nil {
		return models.RepositoryFile{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/files/", &buf, w.FormDataContentType())
	if err != nil {
		return models.RepositoryFile{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		File models.RepositoryFile `json:"file"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.RepositoryFile{}, err
	}
	return payload.File, nil
}

// GetFile fetches one file's metadata (and counts a view server-side).
func (c *Client) GetFile(ctx context.Context, id string) (models.RepositoryFile, error) {
	var payload struct {
		Data models.RepositoryFile `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/"+id, nil, &payload); err != nil {
		return models.RepositoryFile{}, err
	}
	return payload.Data, nil
}

// GetPreview fetches the viewer payload for a file.
func (c *Client) GetPreview(ctx context.Context, id string) (services.PreviewInfo, error) {
	var payload struct {
		Data services.PreviewInfo `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/"+id+"/preview", nil, &payload); err != nil {
		return services.PreviewInfo{}, err
	}
	return payload.Data, nil
}

// DownloadFile resolves the file's short-lived download URL and streams the
// binary. The caller owns the ReadCloser and must Close it after saving.
func (c *Client) DownloadFile(ctx context.Context, id string) (io.ReadCloser, error) {
	var payload struct {
		DownloadURL string `json:"download_url"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/"+id+"/download", nil, &payload); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.DownloadURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// UpdateFile patches mutable metadata on a file.
func (c *Client) UpdateFile(ctx context.Context, id string, upd services.FileUpdate) (models.RepositoryFile, error) {
	var payload struct {
		File models.RepositoryFile `json:"file"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/api/files/"+id, upd, &payload); err != nil {
		return models.RepositoryFile{}, err
	}
	return payload.File, nil
}

// DeleteFile removes a file. Succeeds or returns an error; callers remove
// the entry from their local list on success without a refetch.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/files/"+id, nil, nil)
}

// LikeFile bumps the like counter.
func (c *Client) LikeFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/files/"+id+"/like", nil, nil)
}

// GetStats fetches the per-category aggregates.
func (c *Client) GetStats(ctx context.Context) ([]services.CategoryStats, error) {
	var payload struct {
		Data []services.CategoryStats `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/stats", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}
