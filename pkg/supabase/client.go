package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Client represents a Supabase REST client authenticated with a service key
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// Error is a non-2xx response from the REST API
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (%d): %s", e.StatusCode, e.Body)
}

// NewClient creates a new Supabase client
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Query executes a filtered select on a table. Values are PostgREST
// filter expressions such as "eq.123".
func (c *Client) Query(ctx context.Context, table string, query map[string]string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, table, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	return c.do(req)
}

// Insert inserts a record into a table and returns the stored representation
func (c *Client) Insert(ctx context.Context, table string, data any) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal insert body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, table, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, method, table string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
