package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

func TestTicketSystemCreate(t *testing.T) {
	svc := NewTicketSystemService(repository.NewMemoryTicketSystemRepository())
	ctx := context.Background()

	t.Run("requires name and type", func(t *testing.T) {
		var verr *ValidationError
		_, err := svc.Create(ctx, &models.TicketSystemRequest{Type: strPtr("jira")})
		require.ErrorAs(t, err, &verr)

		_, err = svc.Create(ctx, &models.TicketSystemRequest{Name: strPtr("Jira")})
		require.ErrorAs(t, err, &verr)
	})

	t.Run("normalizes the type", func(t *testing.T) {
		created, err := svc.Create(ctx, &models.TicketSystemRequest{
			Name:   strPtr("Company Jira"),
			Type:   strPtr(" Jira "),
			URL:    strPtr("https://example.atlassian.net"),
			Secret: strPtr("token"),
		})
		require.NoError(t, err)
		assert.Equal(t, "jira", created.Type)
		assert.Equal(t, "token", created.Secret)
	})
}

func TestTicketSystemUpdateKeepsSecretWhenAbsent(t *testing.T) {
	svc := NewTicketSystemService(repository.NewMemoryTicketSystemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.TicketSystemRequest{
		Name:   strPtr("Company Jira"),
		Type:   strPtr("jira"),
		Secret: strPtr("token"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, &models.TicketSystemRequest{
		Name: strPtr("Renamed Jira"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Jira", updated.Name)
	assert.Equal(t, "token", updated.Secret)
}

func TestTicketSystemDelete(t *testing.T) {
	svc := NewTicketSystemService(repository.NewMemoryTicketSystemRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.TicketSystemRequest{
		Name: strPtr("Company Jira"),
		Type: strPtr("jira"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	var nf *NotFoundError
	assert.ErrorAs(t, svc.Delete(ctx, created.ID), &nf)
}

func TestCustomerCRUD(t *testing.T) {
	svc := NewCustomerService(repository.NewMemoryCustomerRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, "  ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	created, err := svc.Create(ctx, " ACME ")
	require.NoError(t, err)
	assert.Equal(t, "ACME", created.Name)

	updated, err := svc.Update(ctx, created.ID, "ACME Corp")
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", updated.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	var nf *NotFoundError
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestActivityCRUD(t *testing.T) {
	svc := NewActivityService(repository.NewMemoryActivityRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Activity{Name: "Development"})
	require.NoError(t, err)
	assert.Equal(t, float64(1), created.Factor)

	updated, err := svc.Update(ctx, created.ID, &models.Activity{Name: "Code Review", NeedsTicket: true})
	require.NoError(t, err)
	assert.True(t, updated.NeedsTicket)
	assert.Equal(t, float64(1), updated.Factor)

	require.NoError(t, svc.Delete(ctx, created.ID))
}

func TestProjectActivityAssign(t *testing.T) {
	assignments := repository.NewMemoryProjectActivityRepository()
	projects := repository.NewMemoryProjectRepository()
	activities := repository.NewMemoryActivityRepository()
	svc := NewProjectActivityService(assignments, projects, activities)
	ctx := context.Background()

	project := &models.Project{Name: "Website", CustomerID: 1, BudgetType: models.BudgetTypeNone}
	require.NoError(t, projects.Create(ctx, project))
	activity := &models.Activity{Name: "Development"}
	require.NoError(t, activities.Create(ctx, activity))

	assigned, err := svc.Assign(ctx, project.ID, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, assigned.ProjectID)

	_, err = svc.Assign(ctx, project.ID, activity.ID)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Assign(ctx, 999, activity.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, svc.Unassign(ctx, assigned.ID))
	assert.ErrorAs(t, svc.Unassign(ctx, assigned.ID), &nf)
}
