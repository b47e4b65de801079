// Package societyapi is the HTTP client for the society's member and loan
// records service. Error bodies from the upstream are carried as opaque
// messages; callers map them to their own error codes.
package societyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"society-dashboard/internal/models"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FileUpload is one file part attached to a multipart member write.
type FileUpload struct {
	Field    string
	Filename string
	Content  []byte
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	return req, nil
}

// GetMembers fetches the full member list.
func (c *Client) GetMembers(ctx context.Context) ([]models.Member, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/members", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list members (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []models.Member `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}

// GetMember fetches one member record by id.
func (c *Client) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/members/"+url.PathEscape(memberID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("member %s not found", memberID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get member (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data models.Member `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result.Data, nil
}

// CreateMember posts a new member record. File-bearing payloads go up as
// multipart with the record JSON in a "data" field; plain records post as
// application/json.
func (c *Client) CreateMember(ctx context.Context, record map[string]interface{}, files []FileUpload) (string, error) {
	return c.writeMember(ctx, http.MethodPost, "/members", record, files)
}

// UpdateMember replaces an existing member record, multipart when files are
// attached.
func (c *Client) UpdateMember(ctx context.Context, memberID string, record map[string]interface{}, files []FileUpload) error {
	_, err := c.writeMember(ctx, http.MethodPut, "/members/"+url.PathEscape(memberID), record, files)
	return err
}

func (c *Client) writeMember(ctx context.Context, method, path string, record map[string]interface{}, files []FileUpload) (string, error) {
	var body io.Reader
	contentType := "application/json"

	if len(files) > 0 {
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)

		recordJSON, err := json.Marshal(record)
		if err != nil {
			return "", fmt.Errorf("failed to marshal member record: %w", err)
		}
		if err := writer.WriteField("data", string(recordJSON)); err != nil {
			return "", fmt.Errorf("failed to write record field: %w", err)
		}
		for _, f := range files {
			part, err := writer.CreateFormFile(f.Field, f.Filename)
			if err != nil {
				return "", fmt.Errorf("failed to create file part %s: %w", f.Field, err)
			}
			if _, err := part.Write(f.Content); err != nil {
				return "", fmt.Errorf("failed to write file part %s: %w", f.Field, err)
			}
		}
		if err := writer.Close(); err != nil {
			return "", fmt.Errorf("failed to finalize multipart body: %w", err)
		}
		body = buf
		contentType = writer.FormDataContentType()
	} else {
		jsonData, err := json.Marshal(record)
		if err != nil {
			return "", fmt.Errorf("failed to marshal member record: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to save member (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Data.ID, nil
}

// DeleteMember removes a member record.
func (c *Client) DeleteMember(ctx context.Context, memberID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/members/"+url.PathEscape(memberID), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete member (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// GetGuarantorRelations lists the members a given member stands surety for.
func (c *Client) GetGuarantorRelations(ctx context.Context, memberID string) ([]models.GuarantorEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/members/"+url.PathEscape(memberID)+"/guarantors", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get guarantor relations (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []models.GuarantorEntry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}

// CreateLoan posts the assembled wizard payload and returns the created
// loan's identifiers.
func (c *Client) CreateLoan(ctx context.Context, payload map[string]interface{}) (*models.CreatedLoan, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal loan payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/loans", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to create loan (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data models.CreatedLoan `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result.Data, nil
}

// GetLoans fetches all loan records.
func (c *Client) GetLoans(ctx context.Context) ([]map[string]interface{}, error) {
	return c.listLoans(ctx, "/loans")
}

// GetLoansByMember fetches the loans held by one member.
func (c *Client) GetLoansByMember(ctx context.Context, memberID string) ([]map[string]interface{}, error) {
	return c.listLoans(ctx, "/members/"+url.PathEscape(memberID)+"/loans")
}

func (c *Client) listLoans(ctx context.Context, path string) ([]map[string]interface{}, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list loans (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}
