package redmine

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

	"github.com/rs/zerolog"

	"redminereport/internal/tree"
)

// IssuesLimit is the page size of the issues request. Only the first page is
// fetched.
const IssuesLimit = 100

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		log:     log,
	}
}

// CurrentUser resolves the account the API key belongs to.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	doc, err := c.getJSON(ctx, "/users/current.json", nil)
	if err != nil {
		return User{}, err
	}
	user := UserFromTree(tree.Lookup(doc, nil, "user"))
	if user.ID == 0 {
		return User{}, &APIError{
			Endpoint: "/users/current.json",
			Err:      errors.New("response has no user id"),
		}
	}
	c.log.Debug().Int64("user_id", user.ID).Str("login", user.Login).Msg("redmine current user")
	return user, nil
}

// Issues returns up to IssuesLimit issues assigned to userID.
func (c *Client) Issues(ctx context.Context, userID int64) ([]Issue, error) {
	q := url.Values{}
	q.Set("assigned_to_id", strconv.FormatInt(userID, 10))
	q.Set("limit", strconv.Itoa(IssuesLimit))

	doc, err := c.getJSON(ctx, "/issues.json", q)
	if err != nil {
		return nil, err
	}
	raw := tree.List(doc, "issues")
	issues := make([]Issue, 0, len(raw))
	for _, node := range raw {
		issues = append(issues, IssueFromTree(node))
	}
	c.log.Debug().Int64("user_id", userID).Int("count", len(issues)).Msg("redmine issues")
	return issues, nil
}

// TimeEntries returns the time logged on issueID on or after from.
func (c *Client) TimeEntries(ctx context.Context, issueID int64, from time.Time) ([]TimeEntry, error) {
	q := url.Values{}
	q.Set("issue_id", strconv.FormatInt(issueID, 10))
	q.Set("from", from.Format("2006-01-02"))

	doc, err := c.getJSON(ctx, "/time_entries.json", q)
	if err != nil {
		return nil, err
	}
	raw := tree.List(doc, "time_entries")
	entries := make([]TimeEntry, 0, len(raw))
	for _, node := range raw {
		entries = append(entries, TimeEntryFromTree(node))
	}
	c.log.Debug().Int64("issue_id", issueID).Int("count", len(entries)).Msg("redmine time entries")
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values) (any, error) {
	apiURL := strings.TrimRight(c.baseURL, "/") + path
	if len(q) > 0 {
		apiURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &APIError{Endpoint: path, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("X-Redmine-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: path, Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &APIError{Endpoint: path, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.log.Debug().Str("endpoint", path).Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("redmine request")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Endpoint: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &APIError{Endpoint: path, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return doc, nil
}
