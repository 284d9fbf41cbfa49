package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrBadStatus   = errors.New("api bad status")
	ErrUnavailable = errors.New("api unavailable")
)

// Client issues the four catalog calls against {BaseURL}/products. Each call
// is a single round trip: no retries, no request fencing.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

// ListProducts fetches the whole collection. The list endpoint wraps its
// payload in a {"data": [...]} envelope.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, c.BaseURL+"/products", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, badStatus(resp)
	}

	var env struct {
		Data []Product `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateProduct posts a draft and returns the server-assigned record. Unlike
// list and update, the create endpoint returns the bare record with no
// envelope.
func (c *Client) CreateProduct(ctx context.Context, d Draft) (Product, error) {
	resp, err := c.do(ctx, http.MethodPost, c.BaseURL+"/products", d)
	if err != nil {
		return Product{}, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return Product{}, badStatus(resp)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdateProduct puts a draft at the item endpoint and unwraps the
// {"data": Product} envelope from the response.
func (c *Client) UpdateProduct(ctx context.Context, id string, d Draft) (Product, error) {
	resp, err := c.do(ctx, http.MethodPut, c.BaseURL+"/products/"+url.PathEscape(id), d)
	if err != nil {
		return Product{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return Product{}, ErrNotFound
	case !success(resp.StatusCode):
		return Product{}, badStatus(resp)
	}

	var env struct {
		Data Product `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Product{}, err
	}
	return env.Data, nil
}

// DeleteProduct removes the record and hands the id back so the caller can
// drop it from local state without another round trip. The response body is
// ignored.
func (c *Client) DeleteProduct(ctx context.Context, id string) (string, error) {
	resp, err := c.do(ctx, http.MethodDelete, c.BaseURL+"/products/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", ErrNotFound
	case !success(resp.StatusCode):
		return "", badStatus(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return id, nil
}

func (c *Client) do(ctx context.Context, method, u string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func success(code int) bool {
	return code >= 200 && code <= 299
}

func badStatus(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)
	return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
}
