package backlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAirtableAPIBase is the public Airtable REST endpoint.
const DefaultAirtableAPIBase = "https://api.airtable.com/v0"

// APIError is a non-2xx answer from Airtable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Type != "" && e.Message != "":
		return fmt.Sprintf("airtable: HTTP %d %s: %s", e.StatusCode, e.Type, e.Message)
	case e.Type != "":
		return fmt.Sprintf("airtable: HTTP %d %s", e.StatusCode, e.Type)
	default:
		return fmt.Sprintf("airtable: HTTP %d: %s", e.StatusCode, e.Message)
	}
}

// AirtableClient implements Store against one Airtable base.
type AirtableClient struct {
	apiKey     string
	apiBase    string
	baseID     string
	httpClient *http.Client
	// pages gates follow-up page requests of List; nil disables it.
	pages *RateLimiter
}

// NewAirtableClient creates a client for baseID. apiBase defaults to
// DefaultAirtableAPIBase. pages may be nil.
func NewAirtableClient(apiKey, baseID, apiBase string, pages *RateLimiter) *AirtableClient {
	if apiBase == "" {
		apiBase = DefaultAirtableAPIBase
	}
	return &AirtableClient{
		apiKey:     apiKey,
		apiBase:    strings.TrimRight(apiBase, "/"),
		baseID:     baseID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pages:      pages,
	}
}

func (c *AirtableClient) Create(ctx context.Context, table string, fields Fields) (Record, error) {
	var rec Record
	err := c.do(ctx, http.MethodPost, c.tableURL(table), map[string]any{"fields": fields}, &rec)
	if err != nil {
		return Record{}, fmt.Errorf("create record in %s: %w", table, err)
	}
	return rec, nil
}

type listPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

func (c *AirtableClient) List(ctx context.Context, table string) ([]Record, error) {
	records := make([]Record, 0)
	offset := ""
	for {
		u := c.tableURL(table)
		if offset != "" {
			if c.pages != nil {
				if err := c.pages.Wait(ctx); err != nil {
					return nil, err
				}
			}
			u += "?" + url.Values{"offset": {offset}}.Encode()
		}

		var page listPage
		if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, fmt.Errorf("list records in %s: %w", table, err)
		}
		records = append(records, page.Records...)

		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

func (c *AirtableClient) Update(ctx context.Context, table, id string, fields Fields, replace bool) (Record, error) {
	method := http.MethodPatch
	if replace {
		method = http.MethodPut
	}
	var rec Record
	if err := c.do(ctx, method, c.recordURL(table, id), map[string]any{"fields": fields}, &rec); err != nil {
		return Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	return rec, nil
}

func (c *AirtableClient) Delete(ctx context.Context, table, id string) (DeleteResult, error) {
	var res DeleteResult
	if err := c.do(ctx, http.MethodDelete, c.recordURL(table, id), nil, &res); err != nil {
		return DeleteResult{}, fmt.Errorf("delete record %s: %w", id, err)
	}
	return res, nil
}

func (c *AirtableClient) tableURL(table string) string {
	return c.apiBase + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

func (c *AirtableClient) recordURL(table, id string) string {
	return c.tableURL(table) + "/" + url.PathEscape(id)
}

func (c *AirtableClient) do(ctx context.Context, method, u string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// parseAPIError accepts both error shapes Airtable uses:
// {"error":"NOT_FOUND"} and {"error":{"type":"…","message":"…"}}.
func parseAPIError(code int, raw []byte) error {
	apiErr := &APIError{StatusCode: code}

	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Error) > 0 {
		var s string
		if json.Unmarshal(body.Error, &s) == nil {
			apiErr.Type = s
			return apiErr
		}
		var obj struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body.Error, &obj) == nil {
			apiErr.Type = obj.Type
			apiErr.Message = obj.Message
			return apiErr
		}
	}

	msg := strings.TrimSpace(string(raw))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	apiErr.Message = msg
	return apiErr
}
