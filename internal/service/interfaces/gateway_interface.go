package interfaces

import (
	"context"

	appmodels "loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/store/models"
)

// CaseGateway is the persistence boundary of the case store.
type CaseGateway interface {
	ListCases(ctx context.Context) ([]appmodels.LoanCase, error)
	// GetCase returns nil, nil when no case has the id.
	GetCase(ctx context.Context, id string) (*appmodels.LoanCase, error)
	// CreateCase persists a new case with its history and document slots,
	// assigning an id when c has none.
	CreateCase(ctx context.Context, c appmodels.LoanCase) (appmodels.LoanCase, error)
	UpdateCaseStatus(ctx context.Context, id string, change appmodels.StatusChange) error
	UpsertDocument(ctx context.Context, caseID string, doc appmodels.CaseDocument) (appmodels.CaseDocument, error)
	RenameCaseField(ctx context.Context, field appmodels.RosterField, oldValue, newValue string) (int64, error)
	DistinctOfficers(ctx context.Context) ([]string, error)

	ListConfiguration(ctx context.Context) ([]appmodels.ConfigItem, error)
	AddConfigItem(ctx context.Context, category, value string) (appmodels.ConfigItem, error)
	RenameConfigItem(ctx context.Context, category, oldValue, newValue string) error
	DeleteConfigItem(ctx context.Context, category, value string) error
	SeedConfiguration(ctx context.Context, options map[string][]string) (int, error)
}

// CaseChildWriter reapplies child rows whose parent write already succeeded.
// Both operations are idempotent.
type CaseChildWriter interface {
	InsertHistory(ctx context.Context, rows []models.CaseHistoryRow) error
	UpsertDocuments(ctx context.Context, rows []models.CaseDocumentRow) error
}

type RepairQueue interface {
	Enqueue(ctx context.Context, job models.RepairJob) error
}
