// Package rest implements backend.Backend on top of Supabase PostgREST.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kaliroot-admin/internal/platform/backend"
)

var _ backend.Backend = (*Client)(nil)

// Client talks to <baseURL>/rest/v1 with the project API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *Client) Select(ctx context.Context, q backend.Query, dest any) error {
	params, err := queryParams(q)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodGet, q.Table, params, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", q.Table, err)
	}
	return nil
}

func (c *Client) Count(ctx context.Context, q backend.Query) (int64, error) {
	q.Orders = nil
	q.Max = 0
	params, err := queryParams(q)
	if err != nil {
		return 0, err
	}
	headers := map[string]string{"Prefer": "count=exact"}
	resp, err := c.do(ctx, http.MethodHead, q.Table, params, nil, headers)
	if err != nil {
		// HEAD answers carry no body, so the error code is fetched again
		// with an empty GET page.
		var be *backend.Error
		if !errors.As(err, &be) || be.Code != "" {
			return 0, err
		}
		params.Set("limit", "0")
		resp, err = c.do(ctx, http.MethodGet, q.Table, params, nil, headers)
		if err != nil {
			return 0, err
		}
	}
	defer resp.Body.Close()

	return parseContentRange(resp.Header.Get("Content-Range"))
}

func (c *Client) Insert(ctx context.Context, table string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", table, err)
	}
	headers := map[string]string{"Prefer": "return=minimal"}
	resp, err := c.do(ctx, http.MethodPost, table, nil, body, headers)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) Update(ctx context.Context, table string, values any, filters ...backend.Filter) error {
	if err := backend.ValidateFilters(filters, true); err != nil {
		return err
	}
	body, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s update: %w", table, err)
	}
	params := url.Values{}
	addFilters(params, filters)
	headers := map[string]string{"Prefer": "return=minimal"}
	resp, err := c.do(ctx, http.MethodPatch, table, params, body, headers)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) Delete(ctx context.Context, table string, filters ...backend.Filter) error {
	if err := backend.ValidateFilters(filters, true); err != nil {
		return err
	}
	params := url.Values{}
	addFilters(params, filters)
	resp, err := c.do(ctx, http.MethodDelete, table, params, nil, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// do sends the request and turns non-2xx answers into *backend.Error.
// The caller closes the body of a successful response.
func (c *Client) do(ctx context.Context, method, table string, params url.Values, body []byte, headers map[string]string) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) error {
	be := &backend.Error{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(data) > 0 && json.Unmarshal(data, be) == nil && be.Message != "" {
		return be
	}
	be.Message = strings.TrimSpace(string(data))
	if be.Message == "" {
		be.Message = http.StatusText(resp.StatusCode)
	}
	return be
}

func queryParams(q backend.Query) (url.Values, error) {
	if err := backend.ValidateFilters(q.Filters, false); err != nil {
		return nil, err
	}
	params := url.Values{}
	cols := q.ColumnList()
	if len(cols) == 0 {
		params.Set("select", "*")
	} else {
		params.Set("select", strings.Join(cols, ","))
	}
	addFilters(params, q.Filters)
	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Max > 0 {
		params.Set("limit", strconv.Itoa(q.Max))
	}
	return params, nil
}

func addFilters(params url.Values, filters []backend.Filter) {
	var ors []string
	for _, f := range filters {
		if f.Op != backend.OpIsDistinct {
			params.Add(f.Column, string(f.Op)+"."+backend.FormatValue(f.Value))
			continue
		}
		if f.Value == nil {
			params.Add(f.Column, "not.is.null")
			continue
		}
		ors = append(ors, fmt.Sprintf("%s.neq.%s,%s.is.null", f.Column, backend.FormatValue(f.Value), f.Column))
	}
	// PostgREST takes a single or parameter, several are nested in and
	switch len(ors) {
	case 0:
	case 1:
		params.Set("or", "("+ors[0]+")")
	default:
		parts := make([]string, len(ors))
		for i, o := range ors {
			parts[i] = "or(" + o + ")"
		}
		params.Set("and", "("+strings.Join(parts, ",")+")")
	}
}

// parseContentRange reads the total from "0-24/3573" or "*/0".
func parseContentRange(header string) (int64, error) {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0, fmt.Errorf("missing count in Content-Range %q", header)
	}
	total := header[idx+1:]
	if total == "*" {
		return 0, fmt.Errorf("backend did not return an exact count")
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid Content-Range %q: %w", header, err)
	}
	return n, nil
}
