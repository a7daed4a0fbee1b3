// Package recipes suggests recipes for the ingredients in a pantry using
// the Spoonacular API.
package recipes

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
)

const (
	DefaultBaseURL = "https://api.spoonacular.com"

	// SuggestionLimit is how many recipes Suggest asks for.
	SuggestionLimit = 30

	maxResponseBytes   = 8 << 20
	errorBodyReadLimit = 512
)

var (
	errAPIKeyRequired = errors.New("spoonacular api key is required")

	// ErrRecipeNotFound is returned when Spoonacular does not know a recipe id.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// Ingredient is one ingredient of a suggested recipe.
type Ingredient struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Image  string  `json:"image,omitempty"`
}

// Recipe is a suggestion ranked by how many pantry ingredients it uses.
type Recipe struct {
	ID                    int64        `json:"id"`
	Title                 string       `json:"title"`
	Image                 string       `json:"image"`
	UsedIngredientCount   int          `json:"usedIngredientCount"`
	MissedIngredientCount int          `json:"missedIngredientCount"`
	UsedIngredients       []Ingredient `json:"usedIngredients"`
	MissedIngredients     []Ingredient `json:"missedIngredients"`
	Likes                 int          `json:"likes"`
}

// Info holds recipe details beyond the suggestion.
type Info struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl"`
}

// Client calls the Spoonacular recipe endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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

// WithBaseURL overrides the Spoonacular base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a Spoonacular client for apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, errAPIKeyRequired
	}
	c := &Client{
		apiKey:     key,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Suggest returns recipes that use the given ingredients, those using the
// most of them first. No ingredients means no suggestions and no request.
func (c *Client) Suggest(ctx context.Context, ingredients []string) ([]Recipe, error) {
	names := make([]string, 0, len(ingredients))
	for _, in := range ingredients {
		if in = strings.TrimSpace(in); in != "" {
			names = append(names, in)
		}
	}
	if len(names) == 0 {
		return []Recipe{}, nil
	}

	q := url.Values{}
	q.Set("ingredients", strings.Join(names, ","))
	q.Set("number", strconv.Itoa(SuggestionLimit))
	q.Set("ranking", "1")
	q.Set("ignorePantry", "true")

	var out []Recipe
	if err := c.get(ctx, "/recipes/findByIngredients", q, &out); err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	if out == nil {
		out = []Recipe{}
	}
	return out, nil
}

// Info fetches the details of a single recipe.
func (c *Client) Info(ctx context.Context, id int64) (*Info, error) {
	var info Info
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), url.Values{}, &info); err != nil {
		return nil, fmt.Errorf("fetching recipe %d: %w", id, err)
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key; report only the path.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrRecipeNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return fmt.Errorf("spoonacular returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
