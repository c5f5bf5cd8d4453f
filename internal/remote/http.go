package remote

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
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"github.com/aoralabs/aora/internal/common"
	"github.com/aoralabs/aora/internal/logging"
)

// Options configures an HTTPClient.
type Options struct {
	Endpoint   string // base API URL, e.g. https://cloud.appwrite.io/v1
	ProjectID  string
	DatabaseID string
	BucketID   string

	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            logging.Logger
}

// HTTPClient talks to the backend over its HTTP/JSON API.
//
// Transient failures (network errors, 429, 5xx) on idempotent requests are
// retried with exponential backoff; all outbound calls pass through a
// client-side rate limiter.
type HTTPClient struct {
	endpoint   string
	projectID  string
	databaseID string
	bucketID   string

	hc      *http.Client
	limiter *rate.Limiter
	log     logging.Logger

	mu      sync.RWMutex
	session string
}

var _ Client = (*HTTPClient)(nil)

const maxRetries = 2

// newID generates a unique resource ID for documents, files and accounts.
// Test seam: overridable for deterministic IDs.
var newID = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	return &HTTPClient{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		projectID:  opts.ProjectID,
		databaseID: opts.DatabaseID,
		bucketID:   opts.BucketID,
		hc:         &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:        opts.Logger,
	}
}

func (c *HTTPClient) SetSession(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = secret
}

func (c *HTTPClient) SessionSecret() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// --- accounts and sessions ---

func (c *HTTPClient) CreateAccount(ctx context.Context, email, password, username string) (*Account, error) {
	payload := map[string]string{
		"userId":   newID(),
		"email":    email,
		"password": password,
		"name":     username,
	}
	var out Account
	if err := c.doJSON(ctx, http.MethodPost, "/account", payload, &out, false); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	var out Session
	if err := c.doJSON(ctx, http.MethodPost, "/account/sessions/email", payload, &out, false); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.SetSession(out.Secret)
	return &out, nil
}

func (c *HTTPClient) CurrentAccount(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.doJSON(ctx, http.MethodGet, "/account", nil, &out, true); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, sessionID string) error {
	path := "/account/sessions/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, true); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	c.SetSession("")
	return nil
}

func (c *HTTPClient) InitialsAvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("project", c.projectID)
	return c.endpoint + "/avatars/initials?" + q.Encode()
}

// --- documents ---

func (c *HTTPClient) collectionPath(collectionID string) string {
	return "/databases/" + url.PathEscape(c.databaseID) +
		"/collections/" + url.PathEscape(collectionID) + "/documents"
}

func (c *HTTPClient) CreateDocument(ctx context.Context, collectionID string, fields any) (*Document, error) {
	payload := map[string]any{
		"documentId": newID(),
		"data":       fields,
	}
	var out Document
	if err := c.doJSON(ctx, http.MethodPost, c.collectionPath(collectionID), payload, &out, false); err != nil {
		return nil, fmt.Errorf("create document in %s: %w", collectionID, err)
	}
	return &out, nil
}

func (c *HTTPClient) GetDocument(ctx context.Context, collectionID, documentID string) (*Document, error) {
	path := c.collectionPath(collectionID) + "/" + url.PathEscape(documentID)
	var out Document
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	return &out, nil
}

func (c *HTTPClient) ListDocuments(ctx context.Context, collectionID string, queries ...Query) ([]*Document, error) {
	path := c.collectionPath(collectionID)
	if len(queries) > 0 {
		q := url.Values{}
		for _, query := range queries {
			q.Add("queries[]", query.String())
		}
		path += "?" + q.Encode()
	}

	var out struct {
		Total     int         `json:"total"`
		Documents []*Document `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collectionID, err)
	}
	return out.Documents, nil
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	path := c.collectionPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, true); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

// --- stored objects ---

func (c *HTTPClient) filePath(fileID string) string {
	return "/storage/buckets/" + url.PathEscape(c.bucketID) + "/files/" + url.PathEscape(fileID)
}

// CreateFile streams the object to the bucket as a multipart upload. The
// request body is produced through a pipe so r is consumed as bytes go out
// on the wire, which lets callers wrap r to observe transfer progress.
// Uploads are not retried: the reader cannot be replayed.
func (c *HTTPClient) CreateFile(ctx context.Context, name string, size int64, mime string, r io.Reader) (*File, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			if err := mw.WriteField("fileId", newID()); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", name)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, r); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/storage/buckets/"+url.PathEscape(c.bucketID)+"/files", pr)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create file: %w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("create file: %w", c.statusError(resp))
	}

	var out File
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("create file: decode response: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) GetFile(ctx context.Context, fileID string) (*File, error) {
	var out File
	if err := c.doJSON(ctx, http.MethodGet, c.filePath(fileID), nil, &out, true); err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return &out, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.filePath(fileID), nil, nil, true); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}

// FileViewURL returns the direct download/view resolver URL of a stored
// object. The object ID is the second-to-last path segment; the deletion
// orchestrator's legacy URL parsing relies on that shape.
func (c *HTTPClient) FileViewURL(fileID string) string {
	return c.endpoint + c.filePath(fileID) + "/view?project=" + url.QueryEscape(c.projectID)
}

// FilePreviewURL returns a transforming preview resolver URL for an image.
func (c *HTTPClient) FilePreviewURL(fileID string, width, height int, gravity string, quality int) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("gravity", gravity)
	q.Set("quality", strconv.Itoa(quality))
	q.Set("project", c.projectID)
	return c.endpoint + c.filePath(fileID) + "/preview?" + q.Encode()
}

// --- plumbing ---

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("X-Appwrite-Project", c.projectID)
	req.Header.Set("X-Appwrite-Response-Format", "1.6.0")
	if s := c.SessionSecret(); s != "" {
		req.Header.Set("X-Appwrite-Session", s)
	}
}

// doJSON performs a JSON request. When retryable is true, transient failures
// are retried with exponential backoff; mutating POSTs are not retried to
// avoid duplicate resources.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, out any, retryable bool) error {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return err
		}
	}

	attempt := func(ctx context.Context) error {
		err := c.roundTrip(ctx, method, path, body, out)
		if retryable && errors.Is(err, common.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	}

	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, attempt)
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.log != nil {
		c.log.Debug(ctx, "api request", "method", method, "path", path)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError converts an API error response into a sentinel-wrapped error.
func (c *HTTPClient) statusError(resp *http.Response) error {
	var apiErr struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)
	msg := apiErr.Message
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, msg)
	default:
		return fmt.Errorf("api error %d: %s", resp.StatusCode, msg)
	}
}
