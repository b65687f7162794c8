package newsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Gem2005/crypto-weather-nexus/internal/domain"
)

const maxHeadlines = 6

// newsResponse mirrors the NewsData /news payload.
type newsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
}

// Client fetches crypto business headlines from NewsData.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a NewsData client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Headlines fetches up to 6 normalized news items for the fixed query
// (cryptocurrency / business / en). Item ids are ordinal within one
// fetch; the whole collection is replaced on each cycle.
func (c *Client) Headlines(ctx context.Context) ([]domain.NewsItem, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("q", "cryptocurrency")
	q.Set("language", "en")
	q.Set("category", "business")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/news?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data newsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	n := len(data.Results)
	if n > maxHeadlines {
		n = maxHeadlines
	}

	items := make([]domain.NewsItem, 0, n)
	for i := 0; i < n; i++ {
		r := data.Results[i]
		items = append(items, domain.NewsItem{
			ID:          strconv.Itoa(i),
			Title:       r.Title,
			Description: r.Description,
			URL:         r.Link,
			Source:      r.SourceID,
			PublishedAt: r.PubDate,
		})
	}
	return items, nil
}
