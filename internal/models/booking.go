package models

import "time"

// TimeBooking represents a single booked time interval for a user on a project.
// Compatible with table `time_booking`:
// id, project_id, activity_id, user_id, started_at, ended_at, ticket_number,
// duration_minutes, worklog_id
type TimeBooking struct {
	ID              int       `json:"id" db:"id"`
	ProjectID       int       `json:"projectId" db:"project_id"`
	ActivityID      *int      `json:"activityId" db:"activity_id"`
	UserID          *int      `json:"-" db:"user_id"`
	StartedAt       time.Time `json:"startedAt" db:"started_at"`
	EndedAt         time.Time `json:"endedAt" db:"ended_at"`
	TicketNumber    string    `json:"ticketNumber" db:"ticket_number"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"` // derived, never client-supplied
	WorklogID       *string   `json:"worklogId" db:"worklog_id"`
}

// CreateBookingRequest is the payload for creating a time booking.
// Duration is intentionally absent: it is always derived server-side.
type CreateBookingRequest struct {
	ProjectID    *int    `json:"projectId"`
	ActivityID   *int    `json:"activityId"`
	StartedAt    string  `json:"startedAt"`
	EndedAt      string  `json:"endedAt"`
	TicketNumber string  `json:"ticketNumber"`
	Comment      *string `json:"comment"`
}

// UpdateBookingRequest carries partial updates for a booking. Pointer fields
// distinguish "absent" from "set to null"; ActivitySet marks an explicit
// activityId key so null can clear the activity.
type UpdateBookingRequest struct {
	ProjectID    *int    `json:"projectId"`
	ActivityID   *int    `json:"activityId"`
	ActivitySet  bool    `json:"-"`
	StartedAt    *string `json:"startedAt"`
	EndedAt      *string `json:"endedAt"`
	TicketNumber *string `json:"ticketNumber"`
	Comment      *string `json:"comment"`
}

// BookingResponse is the wire shape handed to API clients.
type BookingResponse struct {
	ID              int     `json:"id"`
	ProjectID       int     `json:"projectId"`
	ActivityID      *int    `json:"activityId"`
	StartedAt       string  `json:"startedAt"`
	EndedAt         string  `json:"endedAt"`
	TicketNumber    string  `json:"ticketNumber"`
	DurationMinutes int     `json:"durationMinutes"`
	WorklogID       *string `json:"worklogId"`
}

// ToResponse maps a booking to its JSON representation with RFC 3339 timestamps.
func (b *TimeBooking) ToResponse() *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		ProjectID:       b.ProjectID,
		ActivityID:      b.ActivityID,
		StartedAt:       b.StartedAt.Format(time.RFC3339),
		EndedAt:         b.EndedAt.Format(time.RFC3339),
		TicketNumber:    b.TicketNumber,
		DurationMinutes: b.DurationMinutes,
		WorklogID:       b.WorklogID,
	}
}
