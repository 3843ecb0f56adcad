package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://date.nager.at/api/v3"

// Client reads public holidays from the Nager.Date API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PublicHoliday is one entry of /PublicHolidays/{year}/{countryCode}.
type PublicHoliday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// Day parses Date as a UTC civil date.
func (h PublicHoliday) Day() (time.Time, error) {
	return time.Parse("2006-01-02", h.Date)
}

// APIError represents a non-2xx response
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nager API error [%d] %s: %s", e.StatusCode, e.URL, e.Body)
}

// PublicHolidays fetches the public holidays of country in year.
func (c *Client) PublicHolidays(ctx context.Context, year int, country string) ([]PublicHoliday, error) {
	endpoint := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, url.PathEscape(strings.ToUpper(country)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays for %s/%d: %w", country, year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{StatusCode: resp.StatusCode, URL: endpoint, Body: strings.TrimSpace(string(body))}
	}
	// Unknown countries answer 204 No Content.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var holidays []PublicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays for %s/%d: %w", country, year, err)
	}
	return holidays, nil
}
