package lifecycle

import (
	"fmt"
	"time"

	"loan-case-tracker/internal/pkg/models"
)

// TransitionError is returned when a status change is not permitted.
type TransitionError struct {
	From models.CaseStatus
	To   models.CaseStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("status transition %q -> %q is not allowed", e.From, e.To)
}

// Machine decides which status changes are permitted and applies them.
// A nil transition table permits any change between recognised statuses.
type Machine struct {
	transitions map[models.CaseStatus][]models.CaseStatus
}

func NewMachine(transitions map[models.CaseStatus][]models.CaseStatus) *Machine {
	return &Machine{transitions: transitions}
}

// CanTransition reports whether a case in status from may move to status to.
func (m *Machine) CanTransition(from, to models.CaseStatus) bool {
	if m == nil || m.transitions == nil {
		return true
	}
	for _, next := range m.transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply returns a copy of c moved to update.Status, with a history entry
// appended. Approval fields are copied only when supplied and only for
// approval-like targets.
func (m *Machine) Apply(c models.LoanCase, update models.StatusUpdate, now time.Time) (models.LoanCase, models.StatusChange, error) {
	if !m.CanTransition(c.Status, update.Status) {
		return c, models.StatusChange{}, &TransitionError{From: c.Status, To: update.Status}
	}

	out := c.Clone()
	entry := models.HistoryEntry{Timestamp: now, Status: update.Status, Remarks: update.Remarks}
	out.Status = update.Status
	out.History = append(out.History, entry)
	out.UpdatedAt = now

	change := models.StatusChange{Status: update.Status, Entry: entry, UpdatedAt: now}
	if update.Status.IsApprovalLike() {
		change.Details = update.ApprovalDetails
		mergeApproval(&out.ApprovalDetails, update.ApprovalDetails)
	}
	return out, change, nil
}

func mergeApproval(dst *models.ApprovalDetails, src models.ApprovalDetails) {
	if src.ApprovedAmount != nil {
		dst.ApprovedAmount = src.ApprovedAmount
	}
	if src.ROI != nil {
		dst.ROI = src.ROI
	}
	if src.ApprovedTenure != nil {
		dst.ApprovedTenure = src.ApprovedTenure
	}
	if src.ProcessingFee != nil {
		dst.ProcessingFee = src.ProcessingFee
	}
	if src.InsuranceAmount != nil {
		dst.InsuranceAmount = src.InsuranceAmount
	}
}
