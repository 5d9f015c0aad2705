package casestore

import (
	"context"
	"sync"

	"loan-case-tracker/internal/pkg/models"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListCases(ctx context.Context) ([]models.LoanCase, error) {
	args := m.Called(ctx)
	cases, _ := args.Get(0).([]models.LoanCase)
	return cases, args.Error(1)
}

func (m *MockGateway) GetCase(ctx context.Context, id string) (*models.LoanCase, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.LoanCase)
	return c, args.Error(1)
}

func (m *MockGateway) CreateCase(ctx context.Context, c models.LoanCase) (models.LoanCase, error) {
	args := m.Called(ctx, c)
	if fn, ok := args.Get(0).(func(models.LoanCase) models.LoanCase); ok {
		return fn(c), args.Error(1)
	}
	return args.Get(0).(models.LoanCase), args.Error(1)
}

func (m *MockGateway) UpdateCaseStatus(ctx context.Context, id string, change models.StatusChange) error {
	args := m.Called(ctx, id, change)
	return args.Error(0)
}

func (m *MockGateway) UpsertDocument(ctx context.Context, caseID string, doc models.CaseDocument) (models.CaseDocument, error) {
	args := m.Called(ctx, caseID, doc)
	if args.Get(0) == nil {
		return doc, args.Error(1)
	}
	return args.Get(0).(models.CaseDocument), args.Error(1)
}

func (m *MockGateway) RenameCaseField(ctx context.Context, field models.RosterField, oldValue, newValue string) (int64, error) {
	args := m.Called(ctx, field, oldValue, newValue)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) DistinctOfficers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	officers, _ := args.Get(0).([]string)
	return officers, args.Error(1)
}

func (m *MockGateway) ListConfiguration(ctx context.Context) ([]models.ConfigItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.ConfigItem)
	return items, args.Error(1)
}

func (m *MockGateway) AddConfigItem(ctx context.Context, category, value string) (models.ConfigItem, error) {
	args := m.Called(ctx, category, value)
	return args.Get(0).(models.ConfigItem), args.Error(1)
}

func (m *MockGateway) RenameConfigItem(ctx context.Context, category, oldValue, newValue string) error {
	args := m.Called(ctx, category, oldValue, newValue)
	return args.Error(0)
}

func (m *MockGateway) DeleteConfigItem(ctx context.Context, category, value string) error {
	args := m.Called(ctx, category, value)
	return args.Error(0)
}

func (m *MockGateway) SeedConfiguration(ctx context.Context, options map[string][]string) (int, error) {
	args := m.Called(ctx, options)
	return args.Int(0), args.Error(1)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.CaseEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.CaseEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// countingStorage is an object store that records uploads.
type countingStorage struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (s *countingStorage) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.uploads = append(s.uploads, objectName)
	return "https://files.example.com/" + objectName, nil
}

func (s *countingStorage) Close(ctx context.Context) {}

func (s *countingStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}
