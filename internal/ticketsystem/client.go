// Package ticketsystem abstracts external worklog operations against
// ticket-tracking systems. The booking service orchestrates these calls
// around its local persistence; implementations must be safe to call from
// multiple requests.
package ticketsystem

import (
	"context"
	"time"
)

// Client performs worklog operations against one configured external system.
type Client interface {
	// CreateWorklog records time spent on the given issue and returns the
	// external worklog id.
	CreateWorklog(ctx context.Context, issueKey string, startedAt time.Time, minutes int, comment string) (string, error)

	// UpdateWorklog rewrites an existing worklog in place.
	UpdateWorklog(ctx context.Context, issueKey, worklogID string, startedAt time.Time, minutes int, comment string) error

	// DeleteWorklog removes a worklog. It returns true when the worklog was
	// deleted or did not exist remotely, false on failure.
	DeleteWorklog(ctx context.Context, issueKey, worklogID string) bool

	// DeleteWorklogBySignature locates a worklog by its start timestamp and
	// duration when the external id is unknown, and deletes it. It returns
	// true when deleted or when no matching worklog exists (treated as
	// already deleted), false on failure.
	DeleteWorklogBySignature(ctx context.Context, issueKey string, startedAt time.Time, minutes int) bool
}
