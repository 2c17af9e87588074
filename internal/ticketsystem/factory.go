package ticketsystem

import (
	"strings"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// Factory builds a concrete Client from a ticket system configuration.
type Factory interface {
	// ForTicketSystem returns a client for the configuration, or nil when no
	// implementation exists for its type. A nil client for a project that
	// references a ticket system is an integration misconfiguration; the
	// caller decides how to surface that.
	ForTicketSystem(ts *models.TicketSystem) (Client, error)
}

// ClientFactory is the default Factory keyed by the ticket system type.
type ClientFactory struct{}

// NewClientFactory creates the default client factory
func NewClientFactory() *ClientFactory {
	return &ClientFactory{}
}

// ForTicketSystem resolves the client implementation for a configuration
func (f *ClientFactory) ForTicketSystem(ts *models.TicketSystem) (Client, error) {
	if ts == nil {
		return nil, nil
	}
	switch strings.ToLower(ts.Type) {
	case "jira":
		return NewJiraClient(ts)
	default:
		return nil, nil
	}
}
