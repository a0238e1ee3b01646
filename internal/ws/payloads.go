package ws

import "errors"

// ErrMalformedRecord signals a feed event whose identity fields are
// missing; subscribers must reject it rather than guess.
var ErrMalformedRecord = errors.New("malformed feed record")

// ActivityEvent is the thin push sent on each new activity row. The
// receiver fetches the enriched record itself (thin event, fat fetch).
type ActivityEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
}

const EventActivity = "activity"

func (e *ActivityEvent) Validate() error {
	if e.ID == "" || e.ProjectID == "" {
		return ErrMalformedRecord
	}
	return nil
}
