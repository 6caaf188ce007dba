package audit

import "time"

// Denial is one refused authorization check.
type Denial struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId,omitempty"`
	Role       string    `json:"role"`
	Check      string    `json:"check"`
	Target     string    `json:"target"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	RequestID  string    `json:"requestId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Filters narrows a denial listing.
type Filters struct {
	ActorID string
	Check   string
	Limit   int
}
