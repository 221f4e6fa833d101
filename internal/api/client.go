// Package api provides the HTTP client for the site's collection endpoints.
//
// The server's behavior varies between deployments: some return the full
// collection as a bare JSON array, others return a paginated envelope with
// an items/data array and optional total metadata. FetchPage decodes both
// and reports which shape it saw, so the caller can pick a pagination
// strategy.
package api

import (
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

	"golang.org/x/time/rate"

	"github.com/mbegonja/plusview/internal/model"
)

const userAgent = "plusview/1.0 (+https://github.com/mbegonja/plusview)"

// maxBodyBytes caps response reads. The full-collection shape is unbounded
// on the server side; 16 MiB is far beyond any real deployment.
const maxBodyBytes = 16 << 20

// ErrBadShape indicates a response that is neither a record array nor a
// recognized paginated envelope.
var ErrBadShape = errors.New("unrecognized response shape")

// ErrNotFound indicates the server returned 404 for the requested record.
var ErrNotFound = errors.New("record not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}

// Shape describes which response form the server produced.
type Shape int

const (
	// ShapeEnvelope means the server paginates: an object carrying an
	// items/data array and optionally total/totalPages metadata.
	ShapeEnvelope Shape = iota
	// ShapeBareArray means the server returned the entire collection.
	ShapeBareArray
)

// Query carries the listing parameters serialized into the request.
type Query struct {
	Page   int
	Limit  int
	Search string
	Sort   string
	Tags   []string // display values, comma-joined on the wire
}

// Page is one decoded response.
type Page struct {
	Shape      Shape
	Items      []model.Item
	TotalPages int // 0 = unknown/unbounded (envelope without metadata)
}

// Client fetches collection pages. Safe for concurrent use.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the given base URL ("https://site.example").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		// Polite ceiling; scroll-triggered fetches arrive in bursts.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}
}

// FetchPage requests one page of the named collection.
func (c *Client) FetchPage(ctx context.Context, collection string, q Query) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(collection, q), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", collection, err)
	}

	return decodePage(body, q.Limit)
}

// Delete removes a record. Admin collaborator operation; callers confirm
// with the user before issuing it.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/api/%s/%s", c.base, url.PathEscape(collection), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) pageURL(collection string, q Query) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("q", s)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if len(q.Tags) > 0 {
		params.Set("tags", strings.Join(q.Tags, ","))
	}
	return fmt.Sprintf("%s/api/%s?%s", c.base, url.PathEscape(collection), params.Encode())
}

// decodePage applies the shape heuristic: a JSON array is the full
// collection; an object with an items/data array (or total metadata) is a
// paginated envelope. Anything else is ErrBadShape.
func decodePage(body []byte, limit int) (*Page, error) {
	trimmed := strings.TrimLeftFunc(string(body), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	if strings.HasPrefix(trimmed, "[") {
		var raws []map[string]any
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		return &Page{
			Shape:      ShapeBareArray,
			Items:      model.NormalizeAll(raws),
			TotalPages: 0, // caller computes from the full count
		}, nil
	}

	var envelope struct {
		Items      []map[string]any `json:"items"`
		Data       []map[string]any `json:"data"`
		Articles   []map[string]any `json:"articles"`
		Total      *float64         `json:"total"`
		TotalPages *float64         `json:"totalPages"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
	}

	switch {
	case envelope.Items != nil || envelope.Data != nil || envelope.Total != nil || envelope.TotalPages != nil:
		raws := envelope.Items
		if raws == nil {
			raws = envelope.Data
		}
		return &Page{
			Shape:      ShapeEnvelope,
			Items:      model.NormalizeAll(raws),
			TotalPages: totalPagesFrom(envelope.TotalPages, envelope.Total, limit),
		}, nil
	case envelope.Articles != nil:
		// Legacy single-object shape wrapping the whole collection.
		return &Page{
			Shape: ShapeBareArray,
			Items: model.NormalizeAll(envelope.Articles),
		}, nil
	default:
		return nil, ErrBadShape
	}
}

// totalPagesFrom derives the page bound from envelope metadata.
// Returns 0 (unknown/unbounded) when neither field is present.
func totalPagesFrom(totalPages, total *float64, limit int) int {
	if totalPages != nil && *totalPages > 0 {
		return int(*totalPages)
	}
	if total != nil && *total > 0 && limit > 0 {
		return (int(*total) + limit - 1) / limit
	}
	return 0
}
