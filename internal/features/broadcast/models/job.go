package models

import "time"

// Job states.
const (
	StateRunning   = "running"
	StateCompleted = "completed"
	StateStopped   = "stopped"
)

type Job struct {
	ID         string     `json:"id"`
	State      string     `json:"state"`
	Segment    string     `json:"segment"`
	Total      int        `json:"total"`
	Sent       int        `json:"sent"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type StartRequest struct {
	Segment   string `json:"segment"`
	Message   string `json:"message"`
	ParseMode string `json:"parse_mode"`
}

type StartResponse struct {
	JobID string `json:"job_id"`
	Total int    `json:"total"`
}
