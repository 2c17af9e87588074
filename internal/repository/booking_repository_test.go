package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// seedBookingDeps creates the rows a booking references: a customer, a
// project for it, a user and an activity. Returns the project, user and
// activity IDs.
func seedBookingDeps(t *testing.T, db *sql.DB, projectName string) (int, int, int) {
	t.Helper()
	ctx := context.Background()

	customer := &models.Customer{Name: "Acme Corp"}
	require.NoError(t, NewDBCustomerRepository(db).Create(ctx, customer))

	project := &models.Project{
		Name:       projectName,
		CustomerID: customer.ID,
		BudgetType: models.BudgetTypeNone,
	}
	require.NoError(t, NewDBProjectRepository(db).Create(ctx, project))

	user := &models.User{Login: projectName + "-user", Password: "x", ValidID: 1}
	require.NoError(t, NewDBUserRepository(db).Create(ctx, user))

	activity := &models.Activity{Name: "Development", Factor: 1}
	require.NoError(t, NewDBActivityRepository(db).Create(ctx, activity))

	return project.ID, user.ID, activity.ID
}

func newBooking(projectID, userID, activityID int, start time.Time, minutes int) *models.TimeBooking {
	return &models.TimeBooking{
		ProjectID:       projectID,
		ActivityID:      &activityID,
		UserID:          &userID,
		StartedAt:       start,
		EndedAt:         start.Add(time.Duration(minutes) * time.Minute),
		TicketNumber:    "ABC-123",
		DurationMinutes: minutes,
	}
}

func TestDBBookingCRUD(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewDBBookingRepository(db)
	ctx := context.Background()

	projectID, userID, activityID := seedBookingDeps(t, db, "Website")
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	booking := newBooking(projectID, userID, activityID, start, 60)
	wl := "wl-42"
	booking.WorklogID = &wl
	require.NoError(t, repo.Create(ctx, booking))
	require.NotZero(t, booking.ID)

	got, err := repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, projectID, got.ProjectID)
	assert.Equal(t, &activityID, got.ActivityID)
	assert.Equal(t, &userID, got.UserID)
	assert.True(t, got.StartedAt.Equal(start), "started_at survives the round trip")
	assert.True(t, got.EndedAt.Equal(start.Add(time.Hour)))
	assert.Equal(t, "ABC-123", got.TicketNumber)
	assert.Equal(t, 60, got.DurationMinutes)
	require.NotNil(t, got.WorklogID)
	assert.Equal(t, "wl-42", *got.WorklogID)

	t.Run("get scoped to user", func(t *testing.T) {
		got, err := repo.GetByIDForUser(ctx, booking.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)

		_, err = repo.GetByIDForUser(ctx, booking.ID, userID+1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		got.TicketNumber = "ABC-456"
		got.DurationMinutes = 75
		got.EndedAt = start.Add(75 * time.Minute)
		got.WorklogID = nil
		require.NoError(t, repo.Update(ctx, got))

		reloaded, err := repo.GetByID(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, "ABC-456", reloaded.TicketNumber)
		assert.Equal(t, 75, reloaded.DurationMinutes)
		assert.Nil(t, reloaded.WorklogID)
	})

	t.Run("update missing booking", func(t *testing.T) {
		missing := newBooking(projectID, userID, activityID, start, 15)
		missing.ID = 9999
		assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, booking.ID))
		_, err := repo.GetByID(ctx, booking.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, booking.ID), ErrNotFound)
	})
}

func TestDBBookingListOrdering(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewDBBookingRepository(db)
	ctx := context.Background()

	projectID, userID, activityID := seedBookingDeps(t, db, "Website")
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	early := newBooking(projectID, userID, activityID, base, 30)
	late := newBooking(projectID, userID, activityID, base.Add(4*time.Hour), 30)
	require.NoError(t, repo.Create(ctx, early))
	require.NoError(t, repo.Create(ctx, late))

	otherUser := &models.User{Login: "bob", Password: "x", ValidID: 1}
	require.NoError(t, NewDBUserRepository(db).Create(ctx, otherUser))
	other := newBooking(projectID, otherUser.ID, activityID, base.Add(2*time.Hour), 30)
	require.NoError(t, repo.Create(ctx, other))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, late.ID, all[0].ID, "newest first")
	assert.Equal(t, other.ID, all[1].ID)
	assert.Equal(t, early.ID, all[2].ID)

	mine, err := repo.List(ctx, &userID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, late.ID, mine[0].ID)
	assert.Equal(t, early.ID, mine[1].ID)
}

func TestDBBookingExistsOverlap(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewDBBookingRepository(db)
	ctx := context.Background()

	projectID, userID, activityID := seedBookingDeps(t, db, "Website")
	otherProjectID, _, _ := seedBookingDeps(t, db, "Backend")

	// Existing booking 09:00-10:00.
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	existing := newBooking(projectID, userID, activityID, start, 60)
	require.NoError(t, repo.Create(ctx, existing))

	check := func(s, e time.Time, projectID int, userID int, excludeID *int) bool {
		t.Helper()
		found, err := repo.ExistsOverlap(ctx, userID, projectID, s, e, excludeID)
		require.NoError(t, err)
		return found
	}

	t.Run("contained interval overlaps", func(t *testing.T) {
		assert.True(t, check(start.Add(15*time.Minute), start.Add(30*time.Minute), projectID, userID, nil))
	})

	t.Run("straddling interval overlaps", func(t *testing.T) {
		assert.True(t, check(start.Add(-30*time.Minute), start.Add(30*time.Minute), projectID, userID, nil))
	})

	t.Run("touching intervals do not overlap", func(t *testing.T) {
		assert.False(t, check(start.Add(-time.Hour), start, projectID, userID, nil))
		assert.False(t, check(start.Add(time.Hour), start.Add(2*time.Hour), projectID, userID, nil))
	})

	t.Run("other project does not overlap", func(t *testing.T) {
		assert.False(t, check(start, start.Add(time.Hour), otherProjectID, userID, nil))
	})

	t.Run("other user does not overlap", func(t *testing.T) {
		assert.False(t, check(start, start.Add(time.Hour), projectID, userID+100, nil))
	})

	t.Run("excluded id is ignored", func(t *testing.T) {
		assert.False(t, check(start, start.Add(time.Hour), projectID, userID, &existing.ID))
	})
}

func TestDBBookingSumMinutesByProject(t *testing.T) {
	db := database.NewTestDB(t)
	repo := NewDBBookingRepository(db)
	ctx := context.Background()

	projectID, userID, activityID := seedBookingDeps(t, db, "Website")
	otherProjectID, otherUserID, _ := seedBookingDeps(t, db, "Backend")

	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newBooking(projectID, userID, activityID, base, 45)))
	require.NoError(t, repo.Create(ctx, newBooking(projectID, userID, activityID, base.Add(2*time.Hour), 30)))
	require.NoError(t, repo.Create(ctx, newBooking(otherProjectID, otherUserID, activityID, base, 90)))

	minutes, err := repo.SumMinutesByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 75, minutes)

	t.Run("project without bookings sums to zero", func(t *testing.T) {
		customer := &models.Customer{Name: "Empty Inc"}
		require.NoError(t, NewDBCustomerRepository(db).Create(ctx, customer))
		empty := &models.Project{Name: "Empty", CustomerID: customer.ID, BudgetType: models.BudgetTypeNone}
		require.NoError(t, NewDBProjectRepository(db).Create(ctx, empty))

		minutes, err := repo.SumMinutesByProject(ctx, empty.ID)
		require.NoError(t, err)
		assert.Zero(t, minutes)
	})
}

func TestDBBookingAggregateByProjectInRange(t *testing.T) {
	db := database.NewTestDB(t)
	bookings := NewDBBookingRepository(db)
	projects := NewDBProjectRepository(db)
	ctx := context.Background()

	webID, userID, activityID := seedBookingDeps(t, db, "Website")
	apiID, _, _ := seedBookingDeps(t, db, "API")

	// Give the API project a t&m rate so the join carries billing fields.
	api, err := projects.GetByID(ctx, apiID)
	require.NoError(t, err)
	rate := decimal.RequireFromString("95.50")
	api.BudgetType = models.BudgetTypeTM
	api.HourlyRate = &rate
	require.NoError(t, projects.Update(ctx, api))

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, bookings.Create(ctx, newBooking(webID, userID, activityID, march.Add(26*time.Hour), 60)))
	require.NoError(t, bookings.Create(ctx, newBooking(webID, userID, activityID, march.Add(50*time.Hour), 30)))
	require.NoError(t, bookings.Create(ctx, newBooking(apiID, userID, activityID, march.Add(30*time.Hour), 120)))
	// Starts outside the range, must not be counted.
	require.NoError(t, bookings.Create(ctx, newBooking(webID, userID, activityID, april.Add(time.Hour), 480)))

	rows, err := bookings.AggregateByProjectInRange(ctx, march, april)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by project name.
	assert.Equal(t, "API", rows[0].ProjectName)
	assert.Equal(t, apiID, rows[0].ProjectID)
	assert.Equal(t, 120, rows[0].Minutes)
	assert.Equal(t, models.BudgetTypeTM, rows[0].BudgetType)
	require.NotNil(t, rows[0].HourlyRate)
	assert.True(t, rows[0].HourlyRate.Equal(rate))

	assert.Equal(t, "Website", rows[1].ProjectName)
	assert.Equal(t, 90, rows[1].Minutes)
	assert.Equal(t, models.BudgetTypeNone, rows[1].BudgetType)
	assert.Nil(t, rows[1].HourlyRate)
}
