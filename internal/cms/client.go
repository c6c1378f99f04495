// Package cms reads vehicle listings out of the headless content store. The
// store owns every record; this package never writes to it.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kaido-imports/kaido/internal/domain"
)

// ErrUnavailable wraps transport failures and 5xx answers from the content
// store. It is the only retryable error class this package produces.
var ErrUnavailable = errors.New("content store unavailable")

type Client interface {
	// GetRecord fetches one catalog record. ok=false means the id does not
	// resolve (not an error).
	GetRecord(ctx context.Context, id string) (domain.CatalogRecord, bool, error)

	// ListRecords fetches the full catalog, paginating internally.
	ListRecords(ctx context.Context) ([]domain.CatalogRecord, error)
}

type HTTPClient struct {
	BaseURL string
	Dataset string
	Token   string

	// PageSize bounds list pages. Zero means the server default.
	PageSize int

	HTTP *http.Client
}

func NewHTTPClient(baseURL, dataset, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL:  baseURL,
		Dataset:  dataset,
		Token:    token,
		PageSize: 100,
		HTTP: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *HTTPClient) GetRecord(ctx context.Context, id string) (domain.CatalogRecord, bool, error) {
	u := fmt.Sprintf("%s/v1/data/%s/records/%s", c.BaseURL, url.PathEscape(c.Dataset), url.PathEscape(id))

	resp, err := c.do(ctx, u)
	if err != nil {
		return domain.CatalogRecord{}, false, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.CatalogRecord{}, false, nil
	case resp.StatusCode >= 500:
		return domain.CatalogRecord{}, false, fmt.Errorf("get record %s: status %d: %w", id, resp.StatusCode, ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return domain.CatalogRecord{}, false, fmt.Errorf("get record %s: unexpected status %d", id, resp.StatusCode)
	}

	var rec domain.CatalogRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.CatalogRecord{}, false, fmt.Errorf("get record %s: decode: %w", id, err)
	}

	return rec, true, nil
}

type listPage struct {
	Records []domain.CatalogRecord `json:"records"`
	Total   int                    `json:"total"`
}

func (c *HTTPClient) ListRecords(ctx context.Context) ([]domain.CatalogRecord, error) {
	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	var out []domain.CatalogRecord

	for offset := 0; ; offset += pageSize {
		u := fmt.Sprintf("%s/v1/data/%s/records?offset=%d&limit=%d",
			c.BaseURL, url.PathEscape(c.Dataset), offset, pageSize)

		resp, err := c.do(ctx, u)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("list records: status %d: %w", resp.StatusCode, ErrUnavailable)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("list records: unexpected status %d", resp.StatusCode)
		}

		var page listPage
		err = json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("list records: decode: %w", err)
		}

		out = append(out, page.Records...)

		if len(page.Records) < pageSize {
			return out, nil
		}
	}
}

func (c *HTTPClient) do(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are retryable.
		return nil, fmt.Errorf("content store request failed: %v: %w", err, ErrUnavailable)
	}

	return resp, nil
}
