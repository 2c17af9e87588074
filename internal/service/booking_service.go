package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
	"github.com/trackwerk-io/trackwerk-ce/internal/ticketsystem"
)

// duration policy: bookings are billed in 15-minute increments, rounded up
const bookingIncrement = 15 * time.Minute

// BookingService orchestrates time-booking CRUD: input validation, overlap
// prevention, duration derivation, external worklog synchronization with
// compensation, and fixed-price rate recalculation.
type BookingService struct {
	bookings      repository.BookingRepository
	projects      repository.ProjectRepository
	activities    repository.ActivityRepository
	ticketSystems repository.TicketSystemRepository
	clients       ticketsystem.Factory
}

// NewBookingService creates a booking service.
func NewBookingService(
	bookings repository.BookingRepository,
	projects repository.ProjectRepository,
	activities repository.ActivityRepository,
	ticketSystems repository.TicketSystemRepository,
	clients ticketsystem.Factory,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		projects:      projects,
		activities:    activities,
		ticketSystems: ticketSystems,
		clients:       clients,
	}
}

// List returns the user's bookings, newest first. A nil user lists all
// bookings (unscoped administrative mode).
func (s *BookingService) List(ctx context.Context, user *models.User) ([]*models.BookingResponse, error) {
	bookings, err := s.bookings.List(ctx, userIDOf(user))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	responses := make([]*models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, b.ToResponse())
	}
	return responses, nil
}

// Get returns a single booking, scoped to the user when one is given.
func (s *BookingService) Get(ctx context.Context, user *models.User, id int) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return booking.ToResponse(), nil
}

// Create validates the request, books the time locally and, when the project
// is linked to a ticket system, records a worklog there first. If the local
// save fails after the worklog was created, the worklog is deleted again
// (best effort) before the error propagates.
func (s *BookingService) Create(ctx context.Context, user *models.User, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	if req.ProjectID == nil {
		return nil, NewValidationError("projectId is required")
	}
	ticket := strings.TrimSpace(req.TicketNumber)
	if ticket == "" {
		return nil, NewValidationError("ticketNumber is required")
	}
	startedAt, endedAt, minutes, err := s.parseWindow(req.StartedAt, req.EndedAt)
	if err != nil {
		return nil, err
	}

	project, err := s.getProject(ctx, *req.ProjectID)
	if err != nil {
		return nil, err
	}
	if req.ActivityID != nil {
		if _, err := s.getActivity(ctx, *req.ActivityID); err != nil {
			return nil, err
		}
	}

	if err := s.checkOverlap(ctx, user, project.ID, startedAt, endedAt, nil); err != nil {
		return nil, err
	}

	booking := &models.TimeBooking{
		ProjectID:       project.ID,
		ActivityID:      req.ActivityID,
		UserID:          userIDOf(user),
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		TicketNumber:    ticket,
		DurationMinutes: minutes,
	}

	client, err := s.clientForProject(ctx, project)
	if err != nil {
		return nil, err
	}

	if client != nil {
		worklogID, err := client.CreateWorklog(ctx, ticket, startedAt, minutes, commentOf(req.Comment))
		if err != nil {
			return nil, &IntegrationError{Message: "failed to create worklog", Err: err}
		}
		booking.WorklogID = &worklogID
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if client != nil && booking.WorklogID != nil {
			// Compensate: the worklog exists but the booking does not.
			client.DeleteWorklog(ctx, ticket, *booking.WorklogID)
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.recalcProjectRate(ctx, project)
	return booking.ToResponse(), nil
}

// Update applies partial changes to a booking. When the target ticket or
// project changes, the old worklog is deleted through the old project's
// client and a fresh one is created through the new project's client;
// otherwise the existing worklog is updated in place.
func (s *BookingService) Update(ctx context.Context, user *models.User, id int, req *models.UpdateBookingRequest) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}

	newProjectID := booking.ProjectID
	if req.ProjectID != nil {
		newProjectID = *req.ProjectID
	}
	newTicket := booking.TicketNumber
	if req.TicketNumber != nil {
		newTicket = strings.TrimSpace(*req.TicketNumber)
		if newTicket == "" {
			return nil, NewValidationError("ticketNumber must not be empty")
		}
	}

	startedRaw := booking.StartedAt.Format(time.RFC3339)
	if req.StartedAt != nil {
		startedRaw = *req.StartedAt
	}
	endedRaw := booking.EndedAt.Format(time.RFC3339)
	if req.EndedAt != nil {
		endedRaw = *req.EndedAt
	}
	startedAt, endedAt, minutes, err := s.parseWindow(startedRaw, endedRaw)
	if err != nil {
		return nil, err
	}

	newActivityID := booking.ActivityID
	if req.ActivitySet {
		newActivityID = req.ActivityID
	}
	if newActivityID != nil {
		if _, err := s.getActivity(ctx, *newActivityID); err != nil {
			return nil, err
		}
	}

	oldProject, err := s.getProject(ctx, booking.ProjectID)
	if err != nil {
		return nil, err
	}
	newProject := oldProject
	if newProjectID != oldProject.ID {
		if newProject, err = s.getProject(ctx, newProjectID); err != nil {
			return nil, err
		}
	}

	if err := s.checkOverlap(ctx, user, newProject.ID, startedAt, endedAt, &booking.ID); err != nil {
		return nil, err
	}

	ticketOrProjectChanged := newProject.ID != booking.ProjectID || newTicket != booking.TicketNumber

	// A retargeted booking must not leave its old worklog behind. Failing to
	// remove it is fatal: proceeding would orphan external state.
	if ticketOrProjectChanged && booking.WorklogID != nil {
		oldClient, err := s.clientForProject(ctx, oldProject)
		if err != nil {
			return nil, err
		}
		if oldClient != nil {
			if !oldClient.DeleteWorklog(ctx, booking.TicketNumber, *booking.WorklogID) {
				return nil, &IntegrationError{Message: fmt.Sprintf("failed to delete worklog %s for ticket %s", *booking.WorklogID, booking.TicketNumber)}
			}
		}
		booking.WorklogID = nil
	}

	client, err := s.clientForProject(ctx, newProject)
	if err != nil {
		return nil, err
	}

	var freshWorklogID string
	if client != nil {
		if booking.WorklogID != nil {
			if err := client.UpdateWorklog(ctx, newTicket, *booking.WorklogID, startedAt, minutes, commentOf(req.Comment)); err != nil {
				return nil, &IntegrationError{Message: "failed to update worklog", Err: err}
			}
		} else {
			worklogID, err := client.CreateWorklog(ctx, newTicket, startedAt, minutes, commentOf(req.Comment))
			if err != nil {
				return nil, &IntegrationError{Message: "failed to create worklog", Err: err}
			}
			booking.WorklogID = &worklogID
			freshWorklogID = worklogID
		}
	}

	booking.ProjectID = newProject.ID
	booking.ActivityID = newActivityID
	booking.StartedAt = startedAt
	booking.EndedAt = endedAt
	booking.TicketNumber = newTicket
	booking.DurationMinutes = minutes

	if err := s.bookings.Update(ctx, booking); err != nil {
		if client != nil && freshWorklogID != "" {
			client.DeleteWorklog(ctx, newTicket, freshWorklogID)
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.recalcProjectRate(ctx, oldProject)
	if newProject.ID != oldProject.ID {
		s.recalcProjectRate(ctx, newProject)
	}
	return booking.ToResponse(), nil
}

// Delete removes a booking. The external worklog is deleted first; if that
// fails the local record is kept, since it is the only remaining reference
// to the still-existing worklog.
func (s *BookingService) Delete(ctx context.Context, user *models.User, id int) error {
	booking, err := s.getBooking(ctx, user, id)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, booking.ProjectID)
	if err != nil {
		return err
	}

	client, err := s.clientForProject(ctx, project)
	if err != nil {
		return err
	}
	if client != nil {
		var deleted bool
		if booking.WorklogID != nil {
			deleted = client.DeleteWorklog(ctx, booking.TicketNumber, *booking.WorklogID)
		} else {
			// Bookings persisted before worklog ids were recorded are matched
			// by start timestamp and duration.
			deleted = client.DeleteWorklogBySignature(ctx, booking.TicketNumber, booking.StartedAt, booking.DurationMinutes)
		}
		if !deleted {
			return &IntegrationError{Message: fmt.Sprintf("failed to delete worklog for ticket %s, booking kept", booking.TicketNumber)}
		}
	}

	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.recalcProjectRate(ctx, project)
	return nil
}

// parseWindow parses and validates a start/end pair and derives the billed
// duration, rounded up to the next 15-minute increment.
func (s *BookingService) parseWindow(startedRaw, endedRaw string) (time.Time, time.Time, int, error) {
	startedAt, err := parseTimestamp("startedAt", startedRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	endedAt, err := parseTimestamp("endedAt", endedRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if !endedAt.After(startedAt) {
		return time.Time{}, time.Time{}, 0, NewValidationError("endedAt must be after startedAt")
	}
	return startedAt, endedAt, roundUpMinutes(startedAt, endedAt), nil
}

func parseTimestamp(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, NewValidationError("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, NewValidationError("%s must be an ISO-8601 timestamp with timezone, e.g. 2026-01-02T15:04:05+01:00", field)
	}
	return t, nil
}

// roundUpMinutes derives the billed duration: elapsed time rounded up to the
// next 15-minute increment, so any positive window, even a sub-second one,
// bills at least 15 minutes and an exact 15-minute booking stays at 15.
func roundUpMinutes(startedAt, endedAt time.Time) int {
	elapsed := endedAt.Sub(startedAt)
	increments := int((elapsed + bookingIncrement - 1) / bookingIncrement)
	return increments * 15
}

// checkOverlap rejects a booking whose half-open interval [start, end)
// intersects another booking of the same user on the same project. Without a
// user context (system mode) the check is skipped. The check is
// read-then-decide at the application layer; concurrent creates can race past
// it, there is no database exclusion constraint backing it.
func (s *BookingService) checkOverlap(ctx context.Context, user *models.User, projectID int, start, end time.Time, excludeID *int) error {
	if user == nil {
		return nil
	}
	overlaps, err := s.bookings.ExistsOverlap(ctx, user.ID, projectID, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check for overlapping bookings: %w", err)
	}
	if overlaps {
		return &OverlapError{Message: "booking overlaps an existing booking for this project"}
	}
	return nil
}

// clientForProject resolves the ticket-system client for a project. A project
// without a linked ticket system gets a nil client; a project whose linked
// system cannot produce a client is misconfigured and fails the operation.
func (s *BookingService) clientForProject(ctx context.Context, project *models.Project) (ticketsystem.Client, error) {
	if !project.HasTicketSystem() {
		return nil, nil
	}
	ts, err := s.ticketSystems.GetByID(ctx, *project.TicketSystemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &IntegrationError{Message: fmt.Sprintf("ticket system %d linked to project %q does not exist", *project.TicketSystemID, project.Name)}
		}
		return nil, fmt.Errorf("failed to load ticket system: %w", err)
	}
	client, err := s.clients.ForTicketSystem(ts)
	if err != nil {
		return nil, &IntegrationError{Message: fmt.Sprintf("ticket system %q is misconfigured", ts.Name), Err: err}
	}
	if client == nil {
		return nil, &IntegrationError{Message: fmt.Sprintf("no client available for ticket system %q (type %s)", ts.Name, ts.Type)}
	}
	return client, nil
}

// recalcProjectRate keeps a fixed-price project's hourly rate consistent with
// its booked effort: rate = budget / booked hours, or null with no bookings.
// The rate is a derived display value, so persistence failures are logged and
// swallowed rather than propagated.
func (s *BookingService) recalcProjectRate(ctx context.Context, project *models.Project) {
	if project.BudgetType != models.BudgetTypeFixedPrice || project.Budget == nil {
		return
	}
	minutes, err := s.bookings.SumMinutesByProject(ctx, project.ID)
	if err != nil {
		log.Printf("rate recalculation for project %d failed: %v", project.ID, err)
		return
	}
	if minutes == 0 {
		project.HourlyRate = nil
	} else {
		rate := project.Budget.Mul(decimal.NewFromInt(60)).Div(decimal.NewFromInt(int64(minutes))).Round(2)
		project.HourlyRate = &rate
	}
	if err := s.projects.Update(ctx, project); err != nil {
		log.Printf("rate recalculation for project %d failed: %v", project.ID, err)
	}
}

func (s *BookingService) getBooking(ctx context.Context, user *models.User, id int) (*models.TimeBooking, error) {
	var booking *models.TimeBooking
	var err error
	if user != nil {
		booking, err = s.bookings.GetByIDForUser(ctx, id, user.ID)
	} else {
		booking, err = s.bookings.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "booking", ID: id}
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return booking, nil
}

func (s *BookingService) getProject(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "project", ID: id}
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func (s *BookingService) getActivity(ctx context.Context, id int) (*models.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "activity", ID: id}
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	return activity, nil
}

func userIDOf(user *models.User) *int {
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

func commentOf(comment *string) string {
	if comment == nil {
		return ""
	}
	return strings.TrimSpace(*comment)
}
