package filemapper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

const (
	// ProdBaseURL is the API host for production accounts
	ProdBaseURL = "https://api.hubapi.com"
	// QABaseURL is the API host for QA accounts
	QABaseURL = "https://api.hubapiqa.com"

	uploadPath = "/content/filemapper/v1/upload"
	deletePath = "/content/filemapper/v1/delete"
)

// BaseURLForEnv returns the API host for an account environment
func BaseURLForEnv(env string) string {
	if strings.EqualFold(env, "qa") {
		return QABaseURL
	}
	return ProdBaseURL
}

// Credentials authenticates requests. AccessToken wins over APIKey.
type Credentials struct {
	APIKey      string
	AccessToken string
}

// Client talks to the file mapper API
type Client struct {
	baseURL     string
	credentials Credentials
	userAgent   string
	httpClient  *http.Client
	fs          afero.Fs
	logger      *slog.Logger
	sanitizer   *Sanitizer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFs sets the filesystem local files are read from
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// WithLogger sets the logger used for request traces
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new file mapper client
func NewClient(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: creds,
		userAgent:   "hs-cli/1.0",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		fs:        afero.NewOsFs(),
		logger:    slog.Default(),
		sanitizer: NewSanitizer(creds.APIKey, creds.AccessToken),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload sends a local file to destPath in the account's file mapper
func (c *Client) Upload(ctx context.Context, accountID int, localPath, destPath string, opts UploadOptions) error {
	f, err := c.fs.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	size, err := io.Copy(part, f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	query := QueryFromMode(opts.Mode)
	reqURL := c.buildURL(uploadPath, destPath, accountID, query)

	c.logger.Debug("uploading file",
		slog.String("path", localPath),
		slog.String("dest", destPath),
		slog.String("size", humanize.Bytes(uint64(size))),
	)

	req, err := c.newRequest(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, destPath)
}

// Delete removes remotePath from the account's file mapper
func (c *Client) Delete(ctx context.Context, accountID int, remotePath string) error {
	reqURL := c.buildURL(deletePath, remotePath, accountID, url.Values{})

	req, err := c.newRequest(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		return err
	}

	return c.do(req, remotePath)
}

// buildURL joins the endpoint and an escaped remote path, adding the
// account and auth query parameters
func (c *Client) buildURL(endpoint, remotePath string, accountID int, query url.Values) string {
	segments := strings.Split(strings.Trim(remotePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	query.Set("portalId", strconv.Itoa(accountID))
	if c.credentials.AccessToken == "" && c.credentials.APIKey != "" {
		query.Set("hapikey", c.credentials.APIKey)
	}

	return c.baseURL + endpoint + "/" + strings.Join(segments, "/") + "?" + query.Encode()
}

func (c *Client) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.credentials.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.credentials.AccessToken)
	}

	return req, nil
}

// do executes a request and converts non-2xx responses into *APIError
func (c *Client) do(req *http.Request, remotePath string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error carries the full URL, including hapikey
		return c.sanitizer.SanitizeError(fmt.Errorf("%s %s: %w", req.Method, remotePath, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return NewAPIError(resp.StatusCode, req.Method, remotePath, c.sanitizer.Sanitize(readErrorMessage(resp.Body)))
}

// readErrorMessage extracts the "message" field of a JSON error body
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}

	return payload.Message
}
