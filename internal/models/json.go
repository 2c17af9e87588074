package models

import "encoding/json"

// UnmarshalJSON records which keys were present in the request body, so a
// literal null can clear an optional reference while an absent key leaves it
// untouched.
func (r *UpdateBookingRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateBookingRequest
	var parsed alias
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, parsed.ActivitySet = keys["activityId"]

	*r = UpdateBookingRequest(parsed)
	return nil
}

func (r *UpdateProjectRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateProjectRequest
	var parsed alias
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, parsed.TicketSystemSet = keys["ticketSystemId"]
	_, parsed.ExternalTicketURLSet = keys["externalTicketUrl"]
	_, parsed.ExternalTicketLoginSet = keys["externalTicketLogin"]
	_, parsed.ExternalTicketCredsSet = keys["externalTicketCredentials"]

	*r = UpdateProjectRequest(parsed)
	return nil
}
