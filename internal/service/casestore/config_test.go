package casestore

import (
	"context"
	"errors"
	"testing"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/lifecycle"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/validation"
	"loan-case-tracker/internal/service/documents"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func rosterItems() []models.ConfigItem {
	return configItems(map[string][]string{
		consts.CategoryTeamMember:   {"John Doe", "Jane Smith"},
		consts.CategoryBankName:     {"HDFC Bank", "SBI"},
		consts.CategoryDocumentType: {"PAN Card"},
	})
}

func TestAddOfficerAppendsToRoster(t *testing.T) {
	f := newFixture(t, nil, rosterItems())
	f.gw.On("AddConfigItem", mock.Anything, consts.CategoryTeamMember, "Priya Nair").
		Return(models.ConfigItem{Category: consts.CategoryTeamMember, Value: "Priya Nair", IsActive: true}, nil).Once()

	require.NoError(t, f.store.AddOfficer(context.Background(), "  Priya Nair "))

	assert.Equal(t, []string{"John Doe", "Jane Smith", "Priya Nair"}, f.store.Officers())
	f.gw.AssertExpectations(t)
}

func TestAddOfficerRejectsDuplicateAndBlank(t *testing.T) {
	f := newFixture(t, nil, rosterItems())

	assert.ErrorIs(t, f.store.AddOfficer(context.Background(), "Jane Smith"), ErrDuplicateValue)

	var fields validation.FieldErrors
	require.ErrorAs(t, f.store.AddOfficer(context.Background(), "   "), &fields)
	assert.Contains(t, fields, "name")

	f.gw.AssertNotCalled(t, "AddConfigItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBankCascadesToCases(t *testing.T) {
	loaded := []models.LoanCase{
		{ID: "c1", BankName: "SBI"},
		{ID: "c2", BankName: "HDFC Bank"},
	}
	f := newFixture(t, loaded, rosterItems())
	f.gw.On("RenameConfigItem", mock.Anything, consts.CategoryBankName, "SBI", "State Bank of India").Return(nil).Once()
	f.gw.On("RenameCaseField", mock.Anything, models.RosterBankName, "SBI", "State Bank of India").Return(int64(1), nil).Once()

	require.NoError(t, f.store.UpdateBank(context.Background(), "SBI", "State Bank of India"))

	assert.Equal(t, []string{"HDFC Bank", "State Bank of India"}, f.store.Banks())
	c1, _ := f.store.GetByID("c1")
	assert.Equal(t, "State Bank of India", c1.BankName)
	c2, _ := f.store.GetByID("c2")
	assert.Equal(t, "HDFC Bank", c2.BankName)
	f.gw.AssertExpectations(t)
}

func TestUpdateOfficerCascadesToCases(t *testing.T) {
	loaded := []models.LoanCase{
		{ID: "c1", TeamMember: "John Doe"},
		{ID: "c2", TeamMember: "Jane Smith"},
	}
	f := newFixtureWithOfficers(t, loaded, rosterItems(), []string{"John Doe", "Jane Smith"})
	f.gw.On("RenameConfigItem", mock.Anything, consts.CategoryTeamMember, "John Doe", "Jon Doe").Return(nil).Once()
	f.gw.On("RenameCaseField", mock.Anything, models.RosterTeamMember, "John Doe", "Jon Doe").Return(int64(1), nil).Once()

	require.NoError(t, f.store.UpdateOfficer(context.Background(), "John Doe", "Jon Doe"))

	assert.Equal(t, []string{"Jon Doe", "Jane Smith"}, f.store.Officers())
	assert.Equal(t, []string{"Jon Doe", "Jane Smith"}, f.store.ReferencedOfficers())
	c1, _ := f.store.GetByID("c1")
	assert.Equal(t, "Jon Doe", c1.TeamMember)
	c2, _ := f.store.GetByID("c2")
	assert.Equal(t, "Jane Smith", c2.TeamMember)
	f.gw.AssertExpectations(t)
}

func TestUpdateOfficerErrors(t *testing.T) {
	f := newFixture(t, nil, rosterItems())

	assert.ErrorIs(t, f.store.UpdateOfficer(context.Background(), "Nobody", "Someone"), ErrValueNotFound)
	assert.ErrorIs(t, f.store.UpdateOfficer(context.Background(), "John Doe", "Jane Smith"), ErrDuplicateValue)
	assert.NoError(t, f.store.UpdateOfficer(context.Background(), "John Doe", "John Doe"))

	f.gw.AssertNotCalled(t, "RenameConfigItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOfficerCascadeFailureRecordsError(t *testing.T) {
	f := newFixture(t, []models.LoanCase{{ID: "c1", TeamMember: "John Doe"}}, rosterItems())
	f.gw.On("RenameConfigItem", mock.Anything, consts.CategoryTeamMember, "John Doe", "Jon Doe").Return(nil).Once()
	f.gw.On("RenameCaseField", mock.Anything, models.RosterTeamMember, "John Doe", "Jon Doe").
		Return(int64(0), errors.New("connection reset")).Once()

	err := f.store.UpdateOfficer(context.Background(), "John Doe", "Jon Doe")

	require.Error(t, err)
	assert.Equal(t, "connection reset", f.store.LastError())
	c1, _ := f.store.GetByID("c1")
	assert.Equal(t, "John Doe", c1.TeamMember)
}

func TestRemoveBankNotFound(t *testing.T) {
	f := newFixture(t, nil, rosterItems())
	f.gw.On("DeleteConfigItem", mock.Anything, consts.CategoryBankName, "Axis Bank").
		Return(gateway.ErrConfigItemNotFound).Once()

	assert.ErrorIs(t, f.store.RemoveBank(context.Background(), "Axis Bank"), ErrValueNotFound)
	assert.Empty(t, f.store.LastError())
}

func TestRemoveOfficerKeepsCases(t *testing.T) {
	loaded := []models.LoanCase{{ID: "c1", TeamMember: "John Doe"}}
	f := newFixtureWithOfficers(t, loaded, rosterItems(), []string{"John Doe"})
	f.gw.On("DeleteConfigItem", mock.Anything, consts.CategoryTeamMember, "John Doe").Return(nil).Once()

	require.NoError(t, f.store.RemoveOfficer(context.Background(), "John Doe"))

	assert.Equal(t, []string{"Jane Smith"}, f.store.Officers())
	assert.Equal(t, []string{"John Doe"}, f.store.ReferencedOfficers())
	c1, _ := f.store.GetByID("c1")
	assert.Equal(t, "John Doe", c1.TeamMember)
}

func TestReferencedOfficersStayOffTheRoster(t *testing.T) {
	loaded := []models.LoanCase{{ID: "c1", TeamMember: "Legacy Officer"}}
	items := configItems(map[string][]string{
		consts.CategoryLoanType:     consts.DefaultOptions[consts.CategoryLoanType],
		consts.CategoryCaseType:     consts.DefaultOptions[consts.CategoryCaseType],
		consts.CategoryJobProfile:   consts.DefaultOptions[consts.CategoryJobProfile],
		consts.CategoryCaseStatus:   consts.DefaultOptions[consts.CategoryCaseStatus],
		consts.CategoryDocumentType: consts.DefaultOptions[consts.CategoryDocumentType],
		consts.CategoryBankName:     consts.DefaultOptions[consts.CategoryBankName],
		consts.CategoryTeamMember:   {"Jane Smith"},
	})
	f := newFixtureWithOfficers(t, loaded, items, []string{"Legacy Officer"})

	assert.Equal(t, []string{"Jane Smith"}, f.store.Officers())
	assert.Equal(t, []string{"Legacy Officer"}, f.store.ReferencedOfficers())
	assert.ErrorIs(t, f.store.UpdateOfficer(context.Background(), "Legacy Officer", "Someone"), ErrValueNotFound)

	draft := validDraft()
	draft.TeamMember = "Legacy Officer"
	_, err := f.store.AddCase(context.Background(), draft, nil)
	fields, ok := validation.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "teamMember")

	f.gw.On("CreateCase", mock.Anything, mock.Anything).Return(assignID("c2"), nil).Once()
	_, err = f.store.AddCase(context.Background(), validDraft(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Legacy Officer", "Jane Smith"}, f.store.ReferencedOfficers())
}

func TestRemoveLastOfficerLeavesRosterEmpty(t *testing.T) {
	options := models.AppConfiguration(consts.DefaultOptions).Clone()
	options[consts.CategoryTeamMember] = []string{"Priya Nair"}
	f := newFixture(t, nil, configItems(options))
	f.gw.On("DeleteConfigItem", mock.Anything, consts.CategoryTeamMember, "Priya Nair").Return(nil).Once()

	require.NoError(t, f.store.RemoveOfficer(context.Background(), "Priya Nair"))

	assert.Empty(t, f.store.Officers())
	assert.Empty(t, f.store.Configuration()[consts.CategoryTeamMember])

	draft := validDraft()
	draft.TeamMember = "John Doe"
	_, err := f.store.AddCase(context.Background(), draft, nil)
	fields, ok := validation.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "teamMember")
	f.gw.AssertNotCalled(t, "CreateCase", mock.Anything, mock.Anything)
}

func TestAddToEmptyTableSeedsDefaultsFirst(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.gw.On("SeedConfiguration", mock.Anything, consts.DefaultOptions).Return(60, nil).Once()
	f.gw.On("AddConfigItem", mock.Anything, consts.CategoryTeamMember, "Priya Nair").
		Return(models.ConfigItem{Category: consts.CategoryTeamMember, Value: "Priya Nair", IsActive: true}, nil).Once()

	require.NoError(t, f.store.AddOfficer(context.Background(), "Priya Nair"))

	assert.Equal(t,
		append(append([]string(nil), consts.DefaultOptions[consts.CategoryTeamMember]...), "Priya Nair"),
		f.store.Officers(),
	)
	assert.Equal(t, consts.DefaultOptions[consts.CategoryLoanType], f.store.Configuration()[consts.CategoryLoanType])
	f.gw.AssertExpectations(t)
}

func TestAddToEmptyTableSeedFailure(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.gw.On("SeedConfiguration", mock.Anything, consts.DefaultOptions).Return(0, errors.New("insert failed")).Once()

	err := f.store.AddBank(context.Background(), "Axis Bank")

	require.EqualError(t, err, "insert failed")
	assert.Equal(t, "insert failed", f.store.LastError())
	assert.Equal(t, consts.DefaultOptions[consts.CategoryBankName], f.store.Banks())
	f.gw.AssertNotCalled(t, "AddConfigItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddDocumentTypeAddsSlots(t *testing.T) {
	f := newFixture(t, []models.LoanCase{{ID: "c1"}}, rosterItems())
	f.gw.On("AddConfigItem", mock.Anything, consts.CategoryDocumentType, "Salary Slip").
		Return(models.ConfigItem{Category: consts.CategoryDocumentType, Value: "Salary Slip", IsActive: true}, nil).Once()

	_, err := f.store.AddConfigItem(context.Background(), models.ConfigItem{Category: consts.CategoryDocumentType, Value: "Salary Slip"})
	require.NoError(t, err)

	c1, _ := f.store.GetByID("c1")
	assert.Equal(t, []models.CaseDocument{{Type: "PAN Card"}, {Type: "Salary Slip"}}, c1.Documents)
}

func TestAddConfigItemUnknownCategory(t *testing.T) {
	f := newFixture(t, nil, rosterItems())

	_, err := f.store.AddConfigItem(context.Background(), models.ConfigItem{Category: "COLOUR", Value: "Blue"})

	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "category")
	f.gw.AssertNotCalled(t, "AddConfigItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitConfigurationSeedsDefaults(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.gw.On("SeedConfiguration", mock.Anything, consts.DefaultOptions).Return(42, nil).Once()

	inserted, err := f.store.InitConfiguration(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, inserted)
	assert.Equal(t, consts.DefaultOptions[consts.CategoryLoanType], f.store.Configuration()[consts.CategoryLoanType])
}

func TestInitConfigurationAlreadySeeded(t *testing.T) {
	f := newFixture(t, nil, rosterItems())
	f.gw.On("SeedConfiguration", mock.Anything, consts.DefaultOptions).
		Return(0, gateway.ErrConfigurationInitialized).Once()

	_, err := f.store.InitConfiguration(context.Background())

	assert.ErrorIs(t, err, gateway.ErrConfigurationInitialized)
	assert.Equal(t, []string{"HDFC Bank", "SBI"}, f.store.Banks())
}

func TestRostersFallBackToDefaults(t *testing.T) {
	gw := new(MockGateway)
	uploader := documents.NewService(&countingStorage{}, gw, consts.CaseDocumentsFolder, consts.DefaultMaxCaseUploadBytes)
	store := NewStore(gw, uploader, validation.New(), lifecycle.NewMachine(nil), nil)

	gw.On("ListCases", mock.Anything).Return([]models.LoanCase{}, nil).Once()
	gw.On("ListConfiguration", mock.Anything).Return([]models.ConfigItem{}, nil).Once()
	gw.On("DistinctOfficers", mock.Anything).Return([]string{"Jane Smith", "Legacy Officer"}, nil).Once()
	require.NoError(t, store.Load(context.Background()))

	assert.Equal(t, consts.DefaultOptions[consts.CategoryBankName], store.Banks())
	assert.Equal(t, consts.DefaultOptions[consts.CategoryTeamMember], store.Officers())
	assert.Equal(t, []string{"Jane Smith", "Legacy Officer"}, store.ReferencedOfficers())
}
