package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiBase = "https://api.github.com"

// Issue is the subset of the GitHub issue payload the profile pipeline needs.
type Issue struct {
	Number    int       `json:"number"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the GitHub REST API for one repository: profile submissions
// arrive as labeled issues, match results leave as issue comments.
type Client struct {
	httpClient HTTPClient
	repo       string
	token      string
}

func NewClient(repo, token string) *Client {
	return &Client{httpClient: &http.Client{Timeout: 30 * time.Second}, repo: repo, token: token}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// GetProfileIssues lists open issues carrying the given label.
func (c *Client) GetProfileIssues(ctx context.Context, label string) ([]Issue, error) {

	params := url.Values{}
	params.Set("labels", label)
	params.Set("state", "open")
	params.Set("per_page", "100")

	apiURL := fmt.Sprintf("%s/repos/%s/issues?%s", apiBase, c.repo, params.Encode())

	body, err := c.sendRequest(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&issues); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return issues, nil
}

// PostComment appends a comment to the given issue. Requires a token.
func (c *Client) PostComment(ctx context.Context, issueNumber int, comment string) error {

	if c.token == "" {
		return fmt.Errorf("can't post comment without a token")
	}

	apiURL := fmt.Sprintf("%s/repos/%s/issues/%s/comments", apiBase, c.repo, strconv.Itoa(issueNumber))

	payload, err := json.Marshal(map[string]string{"body": comment})
	if err != nil {
		return err
	}

	_, err = c.sendRequest(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	return err
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
