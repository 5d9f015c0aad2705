package app

import (
	"context"

	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/service/interfaces"
)

type CaseService interface {
	Load(ctx context.Context) error
	GetByID(id string) (models.LoanCase, bool)
	Cases(filter models.CaseFilter) []models.LoanCase
	AddCase(ctx context.Context, draft models.CaseDraft, attachments []models.Attachment) (models.LoanCase, error)
	UpdateCaseStatus(ctx context.Context, id string, update models.StatusUpdate) (models.LoanCase, error)
	UpdateCaseDocument(ctx context.Context, id string, att models.Attachment) (models.CaseDocument, error)
	LastError() string
}

type ConfigService interface {
	Configuration() models.AppConfiguration
	AddConfigItem(ctx context.Context, item models.ConfigItem) (models.ConfigItem, error)
	DeleteConfigItem(ctx context.Context, category, value string) error
	InitConfiguration(ctx context.Context) (int, error)
	LastError() string
}

type RosterService interface {
	Officers() []string
	ReferencedOfficers() []string
	AddOfficer(ctx context.Context, name string) error
	UpdateOfficer(ctx context.Context, oldName, newName string) error
	RemoveOfficer(ctx context.Context, name string) error
	Banks() []string
	AddBank(ctx context.Context, name string) error
	UpdateBank(ctx context.Context, oldName, newName string) error
	RemoveBank(ctx context.Context, name string) error
}

type AnalyticsService interface {
	Summary(ctx context.Context, r models.DateRange) models.AnalyticsSummary
}

type SuggestionService interface {
	Suggest(ctx context.Context, input models.SuggestionInput) (models.SuggestionOutput, error)
}

type RepairService interface {
	Drain(ctx context.Context, writer interfaces.CaseChildWriter) (models.RepairReport, error)
	Pending(ctx context.Context) (int64, error)
	DeadLetters(ctx context.Context) (int64, error)
}
