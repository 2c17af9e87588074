package models

// Activity represents a kind of work that can be booked (development, review,
// meeting, ...).
// Compatible with table `activity`: id, name, needs_ticket, factor
type Activity struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	// Legacy columns carried from the first generation of the schema. Not used
	// by booking logic.
	NeedsTicket bool    `json:"needsTicket" db:"needs_ticket"`
	Factor      float64 `json:"factor" db:"factor"`
}

// ProjectActivity assigns an activity to a project, making it bookable there.
// Compatible with table `project_activity`: id, project_id, activity_id
type ProjectActivity struct {
	ID         int `json:"id" db:"id"`
	ProjectID  int `json:"projectId" db:"project_id"`
	ActivityID int `json:"activityId" db:"activity_id"`
}
