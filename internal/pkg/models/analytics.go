package models

import (
	"strings"
	"time"
)

// CaseFilter is the dashboard list filter. Empty fields match everything.
type CaseFilter struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	Officer string `form:"officer"`
}

// Matches reports whether c passes the filter. Search is case-insensitive over
// applicant name, contact number and loan type.
func (f CaseFilter) Matches(c LoanCase) bool {
	if f.Status != "" && string(c.Status) != f.Status {
		return false
	}
	if f.Officer != "" && c.TeamMember != f.Officer {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	return strings.Contains(strings.ToLower(c.ApplicantName), term) ||
		strings.Contains(strings.ToLower(c.ContactNumber), term) ||
		strings.Contains(strings.ToLower(c.LoanType), term)
}

// DateRange bounds analytics by application date. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the range, inclusive.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type MonthlyAmount struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type OfficerTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

type AnalyticsSummary struct {
	Total            int             `json:"total"`
	Pending          int             `json:"pending"`
	Approved         int             `json:"approved"`
	Rejected         int             `json:"rejected"`
	ByStatus         []StatusCount   `json:"byStatus"`
	CasesOverTime    []MonthlyCount  `json:"casesOverTime"`
	DisbursedByMonth []MonthlyAmount `json:"disbursedByMonth"`
	Officers         []OfficerTotal  `json:"officers"`
}
