package models

import "github.com/shopspring/decimal"

// ProjectMinutes is one aggregation row: booked minutes per project in a time
// range, with the billing fields needed for revenue derivation.
type ProjectMinutes struct {
	ProjectID   int              `json:"projectId" db:"project_id"`
	ProjectName string           `json:"projectName" db:"project_name"`
	Minutes     int              `json:"minutes" db:"minutes"`
	BudgetType  string           `json:"budgetType" db:"budget_type"`
	HourlyRate  *decimal.Decimal `json:"-" db:"hourly_rate"`
}

// ProjectStat is the API shape for one project's stats row. Revenue is only
// set for time & material projects (minutes/60 * hourlyRate).
type ProjectStat struct {
	ProjectID   int     `json:"projectId"`
	ProjectName string  `json:"projectName"`
	Minutes     int     `json:"minutes"`
	Hours       string  `json:"hours"`
	BudgetType  string  `json:"budgetType"`
	HourlyRate  *string `json:"hourlyRate"`
	Revenue     *string `json:"revenue"`
}
