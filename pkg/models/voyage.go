package models

import "time"

// Voyage represents one issued search: where the boat was asked to go
// and how the routing turned out.
type Voyage struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	StartQ    int       `json:"start_q"`
	StartR    int       `json:"start_r"`
	GoalQ     int       `json:"goal_q"`
	GoalR     int       `json:"goal_r"`
	Status    string    `json:"status"`
	Steps     int       `json:"steps"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
}
