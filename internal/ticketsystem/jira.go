package ticketsystem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// jiraStartedFormat is the timestamp layout Jira expects for worklog starts.
const jiraStartedFormat = "2006-01-02T15:04:05.000-0700"

// JiraClient talks to the Jira Cloud REST v3 worklog endpoints using basic
// auth (username + API token).
type JiraClient struct {
	baseURL  string
	username string
	token    string
	client   *http.Client
}

// NewJiraClient creates a Jira client from a ticket system configuration.
// Missing host or credentials fail fast: a half-configured integration must
// not silently fall back to local-only behavior.
func NewJiraClient(ts *models.TicketSystem) (*JiraClient, error) {
	host := strings.TrimRight(strings.TrimSpace(ts.URL), "/")
	if host == "" {
		return nil, fmt.Errorf("jira base URL is not configured for ticket system %q", ts.Name)
	}
	user := strings.TrimSpace(ts.Username)
	if user == "" || ts.Secret == "" {
		return nil, fmt.Errorf("jira credentials (username/secret) are not configured for ticket system %q", ts.Name)
	}
	return &JiraClient{
		baseURL:  host,
		username: user,
		token:    ts.Secret,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type jiraWorklog struct {
	ID               string         `json:"id,omitempty"`
	Started          string         `json:"started,omitempty"`
	TimeSpentSeconds int            `json:"timeSpentSeconds,omitempty"`
	Comment          map[string]any `json:"comment,omitempty"`
}

type jiraWorklogPage struct {
	Worklogs []jiraWorklog `json:"worklogs"`
}

// worklogBody builds the request payload. Jira rejects worklogs shorter than
// one minute, so durations are clamped to at least 60 seconds.
func worklogBody(startedAt time.Time, minutes int, comment string) jiraWorklog {
	seconds := minutes * 60
	if seconds < 60 {
		seconds = 60
	}
	wl := jiraWorklog{
		Started:          startedAt.Format(jiraStartedFormat),
		TimeSpentSeconds: seconds,
	}
	if comment != "" {
		// Jira Cloud v3 expects comments as an Atlassian Document Format body.
		wl.Comment = map[string]any{
			"type":    "doc",
			"version": 1,
			"content": []any{
				map[string]any{
					"type": "paragraph",
					"content": []any{
						map[string]any{"type": "text", "text": comment},
					},
				},
			},
		}
	}
	return wl
}

func (c *JiraClient) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

// CreateWorklog records time spent on the issue and returns the worklog id
func (c *JiraClient) CreateWorklog(ctx context.Context, issueKey string, startedAt time.Time, minutes int, comment string) (string, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog", url.PathEscape(issueKey))
	resp, err := c.do(ctx, http.MethodPost, path, worklogBody(startedAt, minutes, comment))
	if err != nil {
		return "", fmt.Errorf("jira worklog creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("jira worklog creation failed: %s", readError(resp))
	}

	var created jiraWorklog
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("jira worklog creation returned an unreadable response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("jira did not return a worklog id")
	}
	return created.ID, nil
}

// UpdateWorklog rewrites an existing worklog in place
func (c *JiraClient) UpdateWorklog(ctx context.Context, issueKey, worklogID string, startedAt time.Time, minutes int, comment string) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog/%s", url.PathEscape(issueKey), url.PathEscape(worklogID))
	resp, err := c.do(ctx, http.MethodPut, path, worklogBody(startedAt, minutes, comment))
	if err != nil {
		return fmt.Errorf("jira worklog update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jira worklog update failed: %s", readError(resp))
	}
	return nil
}

// DeleteWorklog removes a worklog. A missing worklog counts as deleted.
func (c *JiraClient) DeleteWorklog(ctx context.Context, issueKey, worklogID string) bool {
	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog/%s", url.PathEscape(issueKey), url.PathEscape(worklogID))
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		log.Printf("jira: delete worklog %s on %s failed: %v", worklogID, issueKey, err)
		return false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return true
	default:
		log.Printf("jira: delete worklog %s on %s failed: %s", worklogID, issueKey, readError(resp))
		return false
	}
}

// DeleteWorklogBySignature locates a worklog by start timestamp and duration
// and deletes it. Used for bookings persisted before a worklog id was stored.
func (c *JiraClient) DeleteWorklogBySignature(ctx context.Context, issueKey string, startedAt time.Time, minutes int) bool {
	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog", url.PathEscape(issueKey))
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		log.Printf("jira: list worklogs on %s failed: %v", issueKey, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("jira: list worklogs on %s failed: %s", issueKey, readError(resp))
		return false
	}

	var page jiraWorklogPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		log.Printf("jira: list worklogs on %s returned an unreadable response: %v", issueKey, err)
		return false
	}

	targetSeconds := minutes * 60
	if targetSeconds < 60 {
		targetSeconds = 60
	}
	for _, wl := range page.Worklogs {
		started, err := time.Parse(jiraStartedFormat, wl.Started)
		if err != nil {
			continue
		}
		if started.Unix() == startedAt.Unix() && wl.TimeSpentSeconds == targetSeconds && wl.ID != "" {
			return c.DeleteWorklog(ctx, issueKey, wl.ID)
		}
	}
	// No matching worklog: treat as already deleted.
	return true
}

func readError(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, msg)
}
