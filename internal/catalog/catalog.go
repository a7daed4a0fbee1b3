// Package catalog looks up packaged food products by barcode in the
// Open Food Facts database.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"

	// UnnamedProduct is used for catalog entries without a product name.
	UnnamedProduct = "Unnamed Product"

	userAgent          = "shramba/1.0 (pantry tracker)"
	maxResponseBytes   = 4 << 20
	errorBodyReadLimit = 512
)

// ErrProductNotFound is returned when the catalog has no entry for a barcode.
var ErrProductNotFound = errors.New("product not found")

// Product is the subset of a catalog entry the pantry uses.
type Product struct {
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
	Brands  string `json:"brands,omitempty"`
}

// Client queries the Open Food Facts product API. Concurrent lookups of
// the same barcode share a single upstream request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	group      singleflight.Group
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Open Food Facts base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a catalog client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type productResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
	} `json:"product"`
}

// Lookup fetches the product with the given barcode.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, errors.New("barcode is required")
	}

	v, err, _ := c.group.Do(barcode, func() (any, error) {
		return c.fetch(ctx, barcode)
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*Product)
	return &p, nil
}

func (c *Client) fetch(ctx context.Context, barcode string) (*Product, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building product request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting product %s: %w", barcode, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, fmt.Errorf("product lookup returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload productResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding product response: %w", err)
	}
	if payload.Status != 1 {
		return nil, ErrProductNotFound
	}

	name := strings.TrimSpace(payload.Product.ProductName)
	if name == "" {
		name = UnnamedProduct
	}
	return &Product{
		Barcode: barcode,
		Name:    name,
		Brands:  strings.TrimSpace(payload.Product.Brands),
	}, nil
}
