package models

// TicketSystem holds the connection configuration of an external ticket/worklog
// system (currently only Jira).
// Compatible with table `ticket_system`: id, type, name, username, secret, url
type TicketSystem struct {
	ID       int    `json:"id" db:"id"`
	Type     string `json:"type" db:"type"`
	Name     string `json:"name" db:"name"`
	Username string `json:"username" db:"username"`
	Secret   string `json:"-" db:"secret"` // never echoed to API clients
	URL      string `json:"url" db:"url"`
}

// TicketSystemRequest is the payload for creating or updating a ticket system
// configuration. Secret is write-only.
type TicketSystemRequest struct {
	Type     *string `json:"type"`
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Secret   *string `json:"secret"`
	URL      *string `json:"url"`
}
