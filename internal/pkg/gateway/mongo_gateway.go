package gateway

import (
	"context"
	"fmt"
	"sort"
	"time"

	"loan-case-tracker/internal/pkg/consts"
	mongodb "loan-case-tracker/internal/pkg/db/mongo"
	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	appmodels "loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/store/impl/app_configuration"
	"loan-case-tracker/internal/pkg/store/impl/case_documents"
	"loan-case-tracker/internal/pkg/store/impl/case_history"
	"loan-case-tracker/internal/pkg/store/impl/loan_cases"
	"loan-case-tracker/internal/pkg/store/models"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type caseRowStore interface {
	ListCases(ctx context.Context) ([]models.LoanCaseRow, error)
	GetCase(ctx context.Context, id string) (*models.LoanCaseRow, error)
	InsertCase(ctx context.Context, row models.LoanCaseRow) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	RenameFieldValue(ctx context.Context, field, oldValue, newValue string) (int64, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)
}

type historyRowStore interface {
	InsertMany(ctx context.Context, rows []models.CaseHistoryRow) error
	FindByCaseIDs(ctx context.Context, caseIDs []string) ([]models.CaseHistoryRow, error)
}

type documentRowStore interface {
	Upsert(ctx context.Context, row models.CaseDocumentRow) (models.CaseDocumentRow, error)
	UpsertMany(ctx context.Context, rows []models.CaseDocumentRow) error
	FindByCaseIDs(ctx context.Context, caseIDs []string) ([]models.CaseDocumentRow, error)
}

type configRowStore interface {
	ListActive(ctx context.Context) ([]models.AppConfigurationRow, error)
	NextDisplayOrder(ctx context.Context, category string) (int, error)
	Insert(ctx context.Context, row models.AppConfigurationRow) error
	InsertMany(ctx context.Context, rows []models.AppConfigurationRow) error
	Rename(ctx context.Context, category, oldValue, newValue string) error
	Delete(ctx context.Context, category, value string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// MongoGateway persists cases across four collections. Writes are
// sequential; a child write that fails after its parent succeeded is queued
// for repair instead of being rolled back.
type MongoGateway struct {
	cases     caseRowStore
	history   historyRowStore
	documents documentRowStore
	config    configRowStore
	repair    interfaces.RepairQueue
	now       func() time.Time
}

func NewMongoGateway(client *mongodb.MongoClient, repair interfaces.RepairQueue) *MongoGateway {
	return NewMongoGatewayWithStores(
		loan_cases.NewLoanCasesRepository(client),
		case_history.NewCaseHistoryRepository(client),
		case_documents.NewCaseDocumentsRepository(client),
		app_configuration.NewAppConfigurationRepository(client),
		repair,
	)
}

func NewMongoGatewayWithStores(
	cases caseRowStore,
	history historyRowStore,
	documents documentRowStore,
	config configRowStore,
	repair interfaces.RepairQueue,
) *MongoGateway {
	return &MongoGateway{
		cases:     cases,
		history:   history,
		documents: documents,
		config:    config,
		repair:    repair,
		now:       time.Now,
	}
}

func (g *MongoGateway) ListCases(ctx context.Context) ([]appmodels.LoanCase, error) {
	rows, err := g.cases.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return g.assemble(ctx, rows)
}

func (g *MongoGateway) GetCase(ctx context.Context, id string) (*appmodels.LoanCase, error) {
	row, err := g.cases.GetCase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case %s: %w", id, err)
	}
	if row == nil {
		return nil, nil
	}
	cases, err := g.assemble(ctx, []models.LoanCaseRow{*row})
	if err != nil {
		return nil, err
	}
	return &cases[0], nil
}

func (g *MongoGateway) assemble(ctx context.Context, rows []models.LoanCaseRow) ([]appmodels.LoanCase, error) {
	ids := models.CaseIDs(rows)

	history, err := g.history.FindByCaseIDs(ctx, ids)
	if err != nil {
		logger.CtxError(ctx, log_messages.HistoryFetchFailed, err)
		return nil, fmt.Errorf("fetch case history: %w", err)
	}
	documents, err := g.documents.FindByCaseIDs(ctx, ids)
	if err != nil {
		logger.CtxError(ctx, log_messages.DocumentsFetchFailed, err)
		return nil, fmt.Errorf("fetch case documents: %w", err)
	}
	return models.AssembleCases(rows, history, documents), nil
}

func (g *MongoGateway) CreateCase(ctx context.Context, c appmodels.LoanCase) (appmodels.LoanCase, error) {
	now := g.now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if err := g.cases.InsertCase(ctx, models.CaseToRow(c)); err != nil {
		return appmodels.LoanCase{}, fmt.Errorf("insert case: %w", err)
	}

	historyRows := models.HistoryRows(c.ID, c.History, now)
	documentRows := models.DocumentRows(c.ID, c.Documents, now)

	if err := g.history.InsertMany(ctx, historyRows); err != nil {
		return c, g.queueRepair(ctx, c.ID, consts.RepairKindHistory, historyRows, documentRows, err)
	}
	if err := g.documents.UpsertMany(ctx, documentRows); err != nil {
		return c, g.queueRepair(ctx, c.ID, consts.RepairKindDocuments, nil, documentRows, err)
	}
	return c, nil
}

func (g *MongoGateway) UpdateCaseStatus(ctx context.Context, id string, change appmodels.StatusChange) error {
	if err := g.cases.UpdateFields(ctx, id, models.StatusUpdateFields(change)); err != nil {
		return fmt.Errorf("update case %s: %w", id, err)
	}

	row := models.NewHistoryRow(id, change.Entry, g.now())
	if err := g.history.InsertMany(ctx, []models.CaseHistoryRow{row}); err != nil {
		return g.queueRepair(ctx, id, consts.RepairKindHistory, []models.CaseHistoryRow{row}, nil, err)
	}
	return nil
}

// queueRepair hands the unwritten child rows to the repair queue. It returns
// ErrPartialWrite when the job was queued and the original failure otherwise.
func (g *MongoGateway) queueRepair(
	ctx context.Context,
	caseID, kind string,
	history []models.CaseHistoryRow,
	documents []models.CaseDocumentRow,
	cause error,
) error {
	if g.repair == nil {
		return fmt.Errorf("write %s for case %s: %w", kind, caseID, cause)
	}

	job := models.RepairJob{
		ID:         uuid.NewString(),
		Kind:       kind,
		CaseID:     caseID,
		History:    history,
		Documents:  documents,
		LastError:  cause.Error(),
		EnqueuedAt: g.now(),
	}
	if err := g.repair.Enqueue(ctx, job); err != nil {
		logger.CtxError(ctx, log_messages.RepairEnqueueFailed, err,
			zap.String("case_id", caseID),
			zap.String("kind", kind),
		)
		return fmt.Errorf("write %s for case %s: %w", kind, caseID, cause)
	}

	logger.CtxWarn(ctx, log_messages.PartialWriteQueuedForRepair,
		zap.String("case_id", caseID),
		zap.String("kind", kind),
		zap.String("job_id", job.ID),
		zap.String("cause", cause.Error()),
	)
	return fmt.Errorf("%w: %s for case %s: %v", ErrPartialWrite, kind, caseID, cause)
}

func (g *MongoGateway) UpsertDocument(ctx context.Context, caseID string, doc appmodels.CaseDocument) (appmodels.CaseDocument, error) {
	stored, err := g.documents.Upsert(ctx, models.NewDocumentRow(caseID, doc, g.now()))
	if err != nil {
		return appmodels.CaseDocument{}, fmt.Errorf("upsert document %s for case %s: %w", doc.Type, caseID, err)
	}
	return stored.ToDocument(), nil
}

func (g *MongoGateway) RenameCaseField(ctx context.Context, field appmodels.RosterField, oldValue, newValue string) (int64, error) {
	n, err := g.cases.RenameFieldValue(ctx, string(field), oldValue, newValue)
	if err != nil {
		return 0, fmt.Errorf("rename %s: %w", field, err)
	}
	return n, nil
}

func (g *MongoGateway) DistinctOfficers(ctx context.Context) ([]string, error) {
	officers, err := g.cases.DistinctValues(ctx, string(appmodels.RosterTeamMember))
	if err != nil {
		return nil, fmt.Errorf("distinct officers: %w", err)
	}
	sort.Strings(officers)
	return officers, nil
}

func (g *MongoGateway) ListConfiguration(ctx context.Context) ([]appmodels.ConfigItem, error) {
	rows, err := g.config.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list configuration: %w", err)
	}
	return lo.Map(rows, func(r models.AppConfigurationRow, _ int) appmodels.ConfigItem { return r.ToItem() }), nil
}

func (g *MongoGateway) AddConfigItem(ctx context.Context, category, value string) (appmodels.ConfigItem, error) {
	order, err := g.config.NextDisplayOrder(ctx, category)
	if err != nil {
		return appmodels.ConfigItem{}, fmt.Errorf("add configuration item: %w", err)
	}
	row := models.ConfigRowFromItem(appmodels.ConfigItem{
		Category:     category,
		Value:        value,
		IsActive:     true,
		DisplayOrder: order,
	}, g.now())
	if err := g.config.Insert(ctx, row); err != nil {
		return appmodels.ConfigItem{}, fmt.Errorf("add configuration item: %w", err)
	}
	return row.ToItem(), nil
}

func (g *MongoGateway) RenameConfigItem(ctx context.Context, category, oldValue, newValue string) error {
	if err := g.config.Rename(ctx, category, oldValue, newValue); err != nil {
		return fmt.Errorf("rename configuration item: %w", err)
	}
	return nil
}

func (g *MongoGateway) DeleteConfigItem(ctx context.Context, category, value string) error {
	deleted, err := g.config.Delete(ctx, category, value)
	if err != nil {
		return fmt.Errorf("delete configuration item: %w", err)
	}
	if !deleted {
		return ErrConfigItemNotFound
	}
	return nil
}

func (g *MongoGateway) SeedConfiguration(ctx context.Context, options map[string][]string) (int, error) {
	count, err := g.config.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count configuration: %w", err)
	}
	if count > 0 {
		return 0, ErrConfigurationInitialized
	}
	rows := models.SeedRows(options, consts.Categories, g.now())
	if err := g.config.InsertMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed configuration: %w", err)
	}
	return len(rows), nil
}

func (g *MongoGateway) InsertHistory(ctx context.Context, rows []models.CaseHistoryRow) error {
	return g.history.InsertMany(ctx, rows)
}

func (g *MongoGateway) UpsertDocuments(ctx context.Context, rows []models.CaseDocumentRow) error {
	return g.documents.UpsertMany(ctx, rows)
}
