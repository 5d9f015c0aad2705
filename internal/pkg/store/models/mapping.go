package models

import (
	"sort"
	"time"

	appmodels "loan-case-tracker/internal/pkg/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// CaseToRow maps a case onto its loan_cases row. Empty optional fields become nulls.
func CaseToRow(c appmodels.LoanCase) LoanCaseRow {
	return LoanCaseRow{
		ID:              c.ID,
		ApplicantName:   c.ApplicantName,
		LoanAmount:      c.LoanAmount,
		LoanType:        c.LoanType,
		CaseType:        c.CaseType,
		ContactNumber:   c.ContactNumber,
		Email:           c.Email,
		Address:         c.Address,
		ApplicationDate: c.ApplicationDate,
		TeamMember:      c.TeamMember,
		Status:          string(c.Status),
		Notes:           c.Notes,
		Salary:          c.Salary,
		Location:        c.Location,
		DOB:             c.DOB,
		PANCardNumber:   c.PANCardNumber,
		JobProfile:      c.JobProfile,
		JobDesignation:  c.JobDesignation,
		ReferenceName:   c.ReferenceName,
		BankName:        c.BankName,
		OtherBankName:   nullableString(c.OtherBankName),
		BankOfficeSM:    c.BankOfficeSM,
		Tenure:          c.Tenure,
		Obligation:      c.Obligation,
		ApprovedAmount:  c.ApprovedAmount,
		ROI:             c.ROI,
		ApprovedTenure:  c.ApprovedTenure,
		ProcessingFee:   c.ProcessingFee,
		InsuranceAmount: c.InsuranceAmount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// RowToCase assembles one case from its row and child rows. History is
// ordered by timestamp; documents keep row order.
func RowToCase(row LoanCaseRow, history []CaseHistoryRow, documents []CaseDocumentRow) appmodels.LoanCase {
	sorted := append([]CaseHistoryRow(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return appmodels.LoanCase{
		ID:              row.ID,
		ApplicantName:   row.ApplicantName,
		LoanAmount:      row.LoanAmount,
		LoanType:        row.LoanType,
		CaseType:        row.CaseType,
		ContactNumber:   row.ContactNumber,
		Email:           row.Email,
		Address:         row.Address,
		ApplicationDate: row.ApplicationDate,
		TeamMember:      row.TeamMember,
		Status:          appmodels.CaseStatus(row.Status),
		Notes:           row.Notes,
		History:         lo.Map(sorted, func(h CaseHistoryRow, _ int) appmodels.HistoryEntry { return h.ToEntry() }),
		Salary:          row.Salary,
		Location:        row.Location,
		DOB:             row.DOB,
		PANCardNumber:   row.PANCardNumber,
		JobProfile:      row.JobProfile,
		JobDesignation:  row.JobDesignation,
		ReferenceName:   row.ReferenceName,
		BankName:        row.BankName,
		OtherBankName:   lo.FromPtr(row.OtherBankName),
		BankOfficeSM:    row.BankOfficeSM,
		Documents:       lo.Map(documents, func(d CaseDocumentRow, _ int) appmodels.CaseDocument { return d.ToDocument() }),
		Tenure:          row.Tenure,
		Obligation:      row.Obligation,
		ApprovalDetails: appmodels.ApprovalDetails{
			ApprovedAmount:  row.ApprovedAmount,
			ROI:             row.ROI,
			ApprovedTenure:  row.ApprovedTenure,
			ProcessingFee:   row.ProcessingFee,
			InsuranceAmount: row.InsuranceAmount,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// AssembleCases joins case rows with batch-fetched child rows, preserving the
// order of rows.
func AssembleCases(rows []LoanCaseRow, history []CaseHistoryRow, documents []CaseDocumentRow) []appmodels.LoanCase {
	historyByCase := lo.GroupBy(history, func(h CaseHistoryRow) string { return h.CaseID })
	documentsByCase := lo.GroupBy(documents, func(d CaseDocumentRow) string { return d.CaseID })
	return lo.Map(rows, func(row LoanCaseRow, _ int) appmodels.LoanCase {
		return RowToCase(row, historyByCase[row.ID], documentsByCase[row.ID])
	})
}

// CaseIDs returns the ids of rows in order.
func CaseIDs(rows []LoanCaseRow) []string {
	return lo.Map(rows, func(row LoanCaseRow, _ int) string { return row.ID })
}

func (h CaseHistoryRow) ToEntry() appmodels.HistoryEntry {
	return appmodels.HistoryEntry{
		Timestamp: h.Timestamp,
		Status:    appmodels.CaseStatus(h.Status),
		Remarks:   h.Remarks,
	}
}

func (d CaseDocumentRow) ToDocument() appmodels.CaseDocument {
	return appmodels.CaseDocument{
		Type:      d.DocumentType,
		Uploaded:  d.Uploaded,
		FileURL:   lo.FromPtr(d.FileURL),
		SizeBytes: d.SizeBytes,
	}
}

// NewHistoryRow builds a history row with a fresh id.
func NewHistoryRow(caseID string, entry appmodels.HistoryEntry, now time.Time) CaseHistoryRow {
	return CaseHistoryRow{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Timestamp: entry.Timestamp,
		Status:    string(entry.Status),
		Remarks:   entry.Remarks,
		CreatedAt: now,
	}
}

// NewDocumentRow builds a document row with a fresh id.
func NewDocumentRow(caseID string, doc appmodels.CaseDocument, now time.Time) CaseDocumentRow {
	return CaseDocumentRow{
		ID:           uuid.NewString(),
		CaseID:       caseID,
		DocumentType: doc.Type,
		Uploaded:     doc.Uploaded,
		FileURL:      nullableString(doc.FileURL),
		SizeBytes:    doc.SizeBytes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HistoryRows maps every entry of a case to a new history row.
func HistoryRows(caseID string, entries []appmodels.HistoryEntry, now time.Time) []CaseHistoryRow {
	return lo.Map(entries, func(e appmodels.HistoryEntry, _ int) CaseHistoryRow {
		return NewHistoryRow(caseID, e, now)
	})
}

// DocumentRows maps every slot of a case to a new document row.
func DocumentRows(caseID string, docs []appmodels.CaseDocument, now time.Time) []CaseDocumentRow {
	return lo.Map(docs, func(d appmodels.CaseDocument, _ int) CaseDocumentRow {
		return NewDocumentRow(caseID, d, now)
	})
}

// StatusUpdateFields lists the loan_cases columns written by a status change.
// Approval fields are included only when supplied.
func StatusUpdateFields(change appmodels.StatusChange) map[string]interface{} {
	fields := map[string]interface{}{
		"status":     string(change.Status),
		"updated_at": change.UpdatedAt,
	}
	if !change.Status.IsApprovalLike() {
		return fields
	}
	d := change.Details
	if d.ApprovedAmount != nil {
		fields["approved_amount"] = *d.ApprovedAmount
	}
	if d.ROI != nil {
		fields["roi"] = *d.ROI
	}
	if d.ApprovedTenure != nil {
		fields["approved_tenure"] = *d.ApprovedTenure
	}
	if d.ProcessingFee != nil {
		fields["processing_fee"] = *d.ProcessingFee
	}
	if d.InsuranceAmount != nil {
		fields["insurance_amount"] = *d.InsuranceAmount
	}
	return fields
}

func (r AppConfigurationRow) ToItem() appmodels.ConfigItem {
	return appmodels.ConfigItem{
		ID:           r.ID,
		Category:     r.Category,
		Value:        r.Value,
		IsActive:     r.IsActive,
		DisplayOrder: r.DisplayOrder,
		CreatedAt:    r.CreatedAt,
	}
}

// ConfigRowFromItem builds a row, assigning an id when the item has none.
func ConfigRowFromItem(item appmodels.ConfigItem, now time.Time) AppConfigurationRow {
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}
	return AppConfigurationRow{
		ID:           id,
		Category:     item.Category,
		Value:        item.Value,
		IsActive:     item.IsActive,
		DisplayOrder: item.DisplayOrder,
		CreatedAt:    now,
	}
}

// SeedRows builds one active row per default option, numbered per category
// from zero.
func SeedRows(options map[string][]string, categories []string, now time.Time) []AppConfigurationRow {
	var rows []AppConfigurationRow
	for _, category := range categories {
		for i, value := range options[category] {
			rows = append(rows, ConfigRowFromItem(appmodels.ConfigItem{
				Category:     category,
				Value:        value,
				IsActive:     true,
				DisplayOrder: i,
			}, now))
		}
	}
	return rows
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
