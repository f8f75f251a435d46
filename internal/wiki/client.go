// Package wiki is a thin read-only client for the organizational wiki's REST
// API. It exposes pages at the granularity the ingestion pipeline needs and
// nothing else.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// pageLimit is the page-size for listing requests.
const pageLimit = 100

// Page is one wiki page as returned by the source, prior to normalization.
// Fields may be empty when the source record is incomplete; presentation-time
// defaulting is the caller's concern, the raw values are stored as-is.
type Page struct {
	ID          string
	Title       string
	Body        string // rich-text markup ("storage" representation)
	AuthorName  string
	AuthorEmail string
	AuthorID    string
	WebURL      string
	When        string // display-form last-modified from the source
}

// Client talks to the wiki REST API using basic auth (user email + API token).
type Client struct {
	BaseURL   string
	UserEmail string
	APIToken  string
	SpaceKey  string
	client    *http.Client
}

// NewClient creates a wiki client.
func NewClient(baseURL, userEmail, apiToken, spaceKey string) *Client {
	return &Client{
		BaseURL:   baseURL,
		UserEmail: userEmail,
		APIToken:  apiToken,
		SpaceKey:  spaceKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// contentResponse mirrors the slice of the REST payload we consume.
type contentResponse struct {
	Results []contentResult `json:"results"`
}

type contentResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Version struct {
		By struct {
			Email      string `json:"email"`
			PublicName string `json:"publicName"`
			AccountID  string `json:"accountId"`
		} `json:"by"`
		FriendlyWhen string `json:"friendlyWhen"`
	} `json:"version"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// ListPages fetches every page of the configured space, including body markup
// and version metadata. Pagination is followed until the source is exhausted.
func (c *Client) ListPages(ctx context.Context) ([]Page, error) {
	var pages []Page

	for start := 0; ; start += pageLimit {
		params := url.Values{}
		params.Set("spaceKey", c.SpaceKey)
		params.Set("expand", "body.storage,version")
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("start", strconv.Itoa(start))

		batch, err := c.fetch(ctx, fmt.Sprintf("%s/content?%s", c.BaseURL, params.Encode()))
		if err != nil {
			return nil, err
		}

		pages = append(pages, batch...)
		if len(batch) < pageLimit {
			break
		}
	}

	return pages, nil
}

// SearchPages runs a CQL query (e.g. `type = page`) and returns the matching
// pages with body markup and version metadata.
func (c *Client) SearchPages(ctx context.Context, cql string) ([]Page, error) {
	params := url.Values{}
	params.Set("cql", cql)
	params.Set("expand", "body.storage,version")

	return c.fetch(ctx, fmt.Sprintf("%s/content/search?%s", c.BaseURL, params.Encode()))
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]Page, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.UserEmail, c.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pages: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var payload contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode page listing: %w", err)
	}

	pages := make([]Page, 0, len(payload.Results))
	for _, r := range payload.Results {
		pages = append(pages, Page{
			ID:          r.ID,
			Title:       r.Title,
			Body:        r.Body.Storage.Value,
			AuthorName:  r.Version.By.PublicName,
			AuthorEmail: r.Version.By.Email,
			AuthorID:    r.Version.By.AccountID,
			WebURL:      r.Links.WebUI,
			When:        r.Version.FriendlyWhen,
		})
	}

	return pages, nil
}
