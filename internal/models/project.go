package models

import "github.com/shopspring/decimal"

// Budget types for projects.
const (
	BudgetTypeNone       = "none"
	BudgetTypeFixedPrice = "fixed_price"
	BudgetTypeTM         = "tm"
)

// Project represents a billable project for a customer.
// Compatible with table `project`:
// id, name, customer_id, ticket_system_id, external_ticket_url,
// external_ticket_login, external_ticket_credentials, budget_type, budget,
// hourly_rate
type Project struct {
	ID             int     `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	CustomerID     int     `json:"customerId" db:"customer_id"`
	TicketSystemID *int    `json:"ticketSystemId" db:"ticket_system_id"`
	ExternalTicketURL         *string `json:"externalTicketUrl" db:"external_ticket_url"`
	ExternalTicketLogin       *string `json:"externalTicketLogin" db:"external_ticket_login"`
	ExternalTicketCredentials *string `json:"externalTicketCredentials" db:"external_ticket_credentials"`
	// Exactly one of Budget/HourlyRate is authoritative depending on BudgetType:
	// fixed_price holds the budget and derives the rate, tm holds the rate only,
	// none clears both.
	BudgetType string           `json:"budgetType" db:"budget_type"`
	Budget     *decimal.Decimal `json:"budget" db:"budget"`
	HourlyRate *decimal.Decimal `json:"hourlyRate" db:"hourly_rate"`
}

// HasTicketSystem reports whether the project is linked to an external ticket system.
func (p *Project) HasTicketSystem() bool {
	return p != nil && p.TicketSystemID != nil
}

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name                      string  `json:"name"`
	CustomerID                *int    `json:"customerId"`
	TicketSystemID            *int    `json:"ticketSystemId"`
	ExternalTicketURL         *string `json:"externalTicketUrl"`
	ExternalTicketLogin       *string `json:"externalTicketLogin"`
	ExternalTicketCredentials *string `json:"externalTicketCredentials"`
	BudgetType                *string `json:"budgetType"`
	Budget                    *string `json:"budget"`
	HourlyRate                *string `json:"hourlyRate"`
}

// UpdateProjectRequest carries partial updates for a project. Set flags mark
// keys that were present in the request body so null can clear a reference.
type UpdateProjectRequest struct {
	Name                      *string `json:"name"`
	CustomerID                *int    `json:"customerId"`
	TicketSystemID            *int    `json:"ticketSystemId"`
	TicketSystemSet           bool    `json:"-"`
	ExternalTicketURL         *string `json:"externalTicketUrl"`
	ExternalTicketURLSet      bool    `json:"-"`
	ExternalTicketLogin       *string `json:"externalTicketLogin"`
	ExternalTicketLoginSet    bool    `json:"-"`
	ExternalTicketCredentials *string `json:"externalTicketCredentials"`
	ExternalTicketCredsSet    bool    `json:"-"`
	BudgetType                *string `json:"budgetType"`
	Budget                    *string `json:"budget"`
	HourlyRate                *string `json:"hourlyRate"`
}

// ProjectResponse is the wire shape handed to API clients. Budget and rate are
// rendered as strings with two decimal places to avoid float formatting drift.
type ProjectResponse struct {
	ID                        int     `json:"id"`
	Name                      string  `json:"name"`
	CustomerID                int     `json:"customerId"`
	TicketSystemID            *int    `json:"ticketSystemId"`
	ExternalTicketURL         *string `json:"externalTicketUrl"`
	ExternalTicketLogin       *string `json:"externalTicketLogin"`
	ExternalTicketCredentials *string `json:"externalTicketCredentials"`
	BudgetType                string  `json:"budgetType"`
	Budget                    *string `json:"budget"`
	HourlyRate                *string `json:"hourlyRate"`
}

// ToResponse maps a project to its JSON representation.
func (p *Project) ToResponse() *ProjectResponse {
	resp := &ProjectResponse{
		ID:                        p.ID,
		Name:                      p.Name,
		CustomerID:                p.CustomerID,
		TicketSystemID:            p.TicketSystemID,
		ExternalTicketURL:         p.ExternalTicketURL,
		ExternalTicketLogin:       p.ExternalTicketLogin,
		ExternalTicketCredentials: p.ExternalTicketCredentials,
		BudgetType:                p.BudgetType,
	}
	if p.Budget != nil {
		s := p.Budget.StringFixed(2)
		resp.Budget = &s
	}
	if p.HourlyRate != nil {
		s := p.HourlyRate.StringFixed(2)
		resp.HourlyRate = &s
	}
	return resp
}
