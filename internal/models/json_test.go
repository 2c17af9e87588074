package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBookingRequestDistinguishesNullFromAbsent(t *testing.T) {
	var withNull UpdateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"activityId": null}`), &withNull))
	assert.True(t, withNull.ActivitySet)
	assert.Nil(t, withNull.ActivityID)

	var absent UpdateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ticketNumber": "ABC-1"}`), &absent))
	assert.False(t, absent.ActivitySet)

	var withValue UpdateBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"activityId": 3}`), &withValue))
	assert.True(t, withValue.ActivitySet)
	require.NotNil(t, withValue.ActivityID)
	assert.Equal(t, 3, *withValue.ActivityID)
}

func TestUpdateProjectRequestTracksPresentKeys(t *testing.T) {
	var req UpdateProjectRequest
	require.NoError(t, json.Unmarshal([]byte(`{"ticketSystemId": null, "externalTicketUrl": "https://example.com"}`), &req))
	assert.True(t, req.TicketSystemSet)
	assert.Nil(t, req.TicketSystemID)
	assert.True(t, req.ExternalTicketURLSet)
	require.NotNil(t, req.ExternalTicketURL)
	assert.False(t, req.ExternalTicketLoginSet)
	assert.False(t, req.ExternalTicketCredsSet)
}
