package handlers

import (
	"context"

	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/stretchr/testify/mock"
)

type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCaseService) GetByID(id string) (models.LoanCase, bool) {
	args := m.Called(id)
	return args.Get(0).(models.LoanCase), args.Bool(1)
}

func (m *MockCaseService) Cases(filter models.CaseFilter) []models.LoanCase {
	args := m.Called(filter)
	cases, _ := args.Get(0).([]models.LoanCase)
	return cases
}

func (m *MockCaseService) AddCase(ctx context.Context, draft models.CaseDraft, attachments []models.Attachment) (models.LoanCase, error) {
	args := m.Called(ctx, draft, attachments)
	return args.Get(0).(models.LoanCase), args.Error(1)
}

func (m *MockCaseService) UpdateCaseStatus(ctx context.Context, id string, update models.StatusUpdate) (models.LoanCase, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(models.LoanCase), args.Error(1)
}

func (m *MockCaseService) UpdateCaseDocument(ctx context.Context, id string, att models.Attachment) (models.CaseDocument, error) {
	args := m.Called(ctx, id, att)
	return args.Get(0).(models.CaseDocument), args.Error(1)
}

func (m *MockCaseService) LastError() string {
	return m.Called().String(0)
}

type MockConfigService struct {
	mock.Mock
}

func (m *MockConfigService) Configuration() models.AppConfiguration {
	return m.Called().Get(0).(models.AppConfiguration)
}

func (m *MockConfigService) AddConfigItem(ctx context.Context, item models.ConfigItem) (models.ConfigItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(models.ConfigItem), args.Error(1)
}

func (m *MockConfigService) DeleteConfigItem(ctx context.Context, category, value string) error {
	return m.Called(ctx, category, value).Error(0)
}

func (m *MockConfigService) InitConfiguration(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockConfigService) LastError() string {
	return m.Called().String(0)
}

type MockRosterService struct {
	mock.Mock
}

func (m *MockRosterService) Officers() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockRosterService) ReferencedOfficers() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockRosterService) AddOfficer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockRosterService) UpdateOfficer(ctx context.Context, oldName, newName string) error {
	return m.Called(ctx, oldName, newName).Error(0)
}

func (m *MockRosterService) RemoveOfficer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockRosterService) Banks() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockRosterService) AddBank(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockRosterService) UpdateBank(ctx context.Context, oldName, newName string) error {
	return m.Called(ctx, oldName, newName).Error(0)
}

func (m *MockRosterService) RemoveBank(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Summary(ctx context.Context, r models.DateRange) models.AnalyticsSummary {
	return m.Called(ctx, r).Get(0).(models.AnalyticsSummary)
}

type MockSuggestionService struct {
	mock.Mock
}

func (m *MockSuggestionService) Suggest(ctx context.Context, input models.SuggestionInput) (models.SuggestionOutput, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.SuggestionOutput), args.Error(1)
}

type MockRepairService struct {
	mock.Mock
}

func (m *MockRepairService) Drain(ctx context.Context, writer interfaces.CaseChildWriter) (models.RepairReport, error) {
	args := m.Called(ctx, writer)
	return args.Get(0).(models.RepairReport), args.Error(1)
}

func (m *MockRepairService) Pending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepairService) DeadLetters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
