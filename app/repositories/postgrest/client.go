// Package postgrest implements the repository ports against a hosted
// PostgREST endpoint (Supabase-style: apikey plus bearer token).
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inkpot/app/repositories"
)

const (
	postSelect    = "*,author:author_id(username,avatar_url),tags:post_tags(tag:tag_id(id,name,slug))"
	commentSelect = "*,author:author_id(username,avatar_url)"
	tagSelect     = "*,post_tags(count)"
)

// APIError is a non-2xx answer from PostgREST.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("postgrest %d: %s", e.Status, e.Message)
}

// Client talks to one PostgREST base URL, e.g. https://project.supabase.co/rest/v1.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// request describes one PostgREST call.
type request struct {
	method string
	table  string
	query  url.Values
	body   any
	header http.Header
}

// response carries the decoded total from Content-Range, or -1 when absent.
type response struct {
	status int
	total  int
}

func (c *Client) do(ctx context.Context, r request, out any) (response, error) {
	res := response{total: -1}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return res, fmt.Errorf("encode %s body: %w", r.table, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.BaseURL + "/" + r.table
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return res, err
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()
	res.status = resp.StatusCode
	res.total = parseContentRangeTotal(resp.Header.Get("Content-Range"))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return res, err
	}
	if resp.StatusCode == http.StatusRequestedRangeNotSatisfiable {
		return res, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return res, apiErr
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return res, fmt.Errorf("decode %s: %w", r.table, err)
		}
	}
	return res, nil
}

// parseContentRangeTotal reads the total from "0-5/13" or "*/0".
func parseContentRangeTotal(v string) int {
	i := strings.LastIndexByte(v, '/')
	if i < 0 || v[i+1:] == "*" {
		return -1
	}
	n, err := strconv.Atoi(v[i+1:])
	if err != nil {
		return -1
	}
	return n
}

// isForeignKeyViolation reports a 23503 error, raised when a row points at a missing parent.
func isForeignKeyViolation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "23503"
}

func eq(v string) string { return "eq." + v }

func in(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

func notFoundIfEmpty[T any](rows []T) (*T, error) {
	if len(rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	return &rows[0], nil
}
