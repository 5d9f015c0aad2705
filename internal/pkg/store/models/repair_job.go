package models

import "time"

// RepairJob is a child write (history or document rows) whose parent case
// write already succeeded.
type RepairJob struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	CaseID     string            `json:"caseId"`
	History    []CaseHistoryRow  `json:"history,omitempty"`
	Documents  []CaseDocumentRow `json:"documents,omitempty"`
	Attempts   int               `json:"attempts"`
	LastError  string            `json:"lastError,omitempty"`
	EnqueuedAt time.Time         `json:"enqueuedAt"`
}
