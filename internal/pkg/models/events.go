package models

import "time"

type CaseEvent struct {
	EventID    string     `json:"eventId"`
	Type       string     `json:"type"`
	CaseID     string     `json:"caseId"`
	Status     CaseStatus `json:"status"`
	TeamMember string     `json:"teamMember"`
	Document   string     `json:"documentType,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}
