package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/db/postgres"
	appmodels "loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/pkg/store/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedBatchSize = 100

// SQLGateway persists cases in postgres. Multi-row writes run in a single
// transaction, so partial writes never reach the repair queue.
type SQLGateway struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLGateway(client *postgres.PostgresClient) *SQLGateway {
	return NewSQLGatewayWithDB(client.DB)
}

func NewSQLGatewayWithDB(db *gorm.DB) *SQLGateway {
	return &SQLGateway{db: db, now: time.Now}
}

func (g *SQLGateway) ListCases(ctx context.Context) ([]appmodels.LoanCase, error) {
	var rows []models.LoanCaseRow
	if err := g.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return g.assemble(ctx, rows)
}

func (g *SQLGateway) GetCase(ctx context.Context, id string) (*appmodels.LoanCase, error) {
	var row models.LoanCaseRow
	err := g.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get case %s: %w", id, err)
	}
	cases, err := g.assemble(ctx, []models.LoanCaseRow{row})
	if err != nil {
		return nil, err
	}
	return &cases[0], nil
}

func (g *SQLGateway) assemble(ctx context.Context, rows []models.LoanCaseRow) ([]appmodels.LoanCase, error) {
	if len(rows) == 0 {
		return []appmodels.LoanCase{}, nil
	}
	ids := models.CaseIDs(rows)

	var history []models.CaseHistoryRow
	if err := g.db.WithContext(ctx).Where("case_id IN ?", ids).Order("timestamp asc").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("fetch case history: %w", err)
	}
	var documents []models.CaseDocumentRow
	if err := g.db.WithContext(ctx).Where("case_id IN ?", ids).Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("fetch case documents: %w", err)
	}
	return models.AssembleCases(rows, history, documents), nil
}

func (g *SQLGateway) CreateCase(ctx context.Context, c appmodels.LoanCase) (appmodels.LoanCase, error) {
	now := g.now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	row := models.CaseToRow(c)
	historyRows := models.HistoryRows(c.ID, c.History, now)
	documentRows := models.DocumentRows(c.ID, c.Documents, now)

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert case: %w", err)
		}
		if len(historyRows) > 0 {
			if err := tx.Create(&historyRows).Error; err != nil {
				return fmt.Errorf("insert case history: %w", err)
			}
		}
		if len(documentRows) > 0 {
			if err := tx.Create(&documentRows).Error; err != nil {
				return fmt.Errorf("insert case documents: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return appmodels.LoanCase{}, err
	}
	return c, nil
}

func (g *SQLGateway) UpdateCaseStatus(ctx context.Context, id string, change appmodels.StatusChange) error {
	historyRow := models.NewHistoryRow(id, change.Entry, g.now())

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LoanCaseRow{}).Where("id = ?", id).Updates(models.StatusUpdateFields(change))
		if res.Error != nil {
			return fmt.Errorf("update case %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCaseNotFound
		}
		if err := tx.Create(&historyRow).Error; err != nil {
			return fmt.Errorf("insert case history: %w", err)
		}
		return nil
	})
}

func (g *SQLGateway) UpsertDocument(ctx context.Context, caseID string, doc appmodels.CaseDocument) (appmodels.CaseDocument, error) {
	row := models.NewDocumentRow(caseID, doc, g.now())
	if err := g.upsertDocuments(ctx, []models.CaseDocumentRow{row}); err != nil {
		return appmodels.CaseDocument{}, fmt.Errorf("upsert document %s for case %s: %w", doc.Type, caseID, err)
	}

	var stored models.CaseDocumentRow
	err := g.db.WithContext(ctx).
		Where("case_id = ? AND document_type = ?", caseID, doc.Type).
		Take(&stored).Error
	if err != nil {
		return appmodels.CaseDocument{}, fmt.Errorf("read document %s for case %s: %w", doc.Type, caseID, err)
	}
	return stored.ToDocument(), nil
}

func (g *SQLGateway) upsertDocuments(ctx context.Context, rows []models.CaseDocumentRow) error {
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "case_id"}, {Name: "document_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"uploaded", "file_url", "size_bytes", "updated_at"}),
	}).Create(&rows).Error
}

func (g *SQLGateway) RenameCaseField(ctx context.Context, field appmodels.RosterField, oldValue, newValue string) (int64, error) {
	column := string(field)
	res := g.db.WithContext(ctx).Model(&models.LoanCaseRow{}).
		Where(column+" = ?", oldValue).
		Update(column, newValue)
	if res.Error != nil {
		return 0, fmt.Errorf("rename %s: %w", field, res.Error)
	}
	return res.RowsAffected, nil
}

func (g *SQLGateway) DistinctOfficers(ctx context.Context) ([]string, error) {
	var officers []string
	err := g.db.WithContext(ctx).Model(&models.LoanCaseRow{}).
		Distinct(string(appmodels.RosterTeamMember)).
		Order(string(appmodels.RosterTeamMember)).
		Pluck(string(appmodels.RosterTeamMember), &officers).Error
	if err != nil {
		return nil, fmt.Errorf("distinct officers: %w", err)
	}
	return officers, nil
}

func (g *SQLGateway) ListConfiguration(ctx context.Context) ([]appmodels.ConfigItem, error) {
	var rows []models.AppConfigurationRow
	err := g.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category asc").Order("display_order asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list configuration: %w", err)
	}
	return lo.Map(rows, func(r models.AppConfigurationRow, _ int) appmodels.ConfigItem { return r.ToItem() }), nil
}

func (g *SQLGateway) AddConfigItem(ctx context.Context, category, value string) (appmodels.ConfigItem, error) {
	var maxOrder sql.NullInt64
	err := g.db.WithContext(ctx).Model(&models.AppConfigurationRow{}).
		Where("category = ?", category).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error
	if err != nil {
		return appmodels.ConfigItem{}, fmt.Errorf("add configuration item: %w", err)
	}

	order := 0
	if maxOrder.Valid {
		order = int(maxOrder.Int64) + 1
	}
	row := models.ConfigRowFromItem(appmodels.ConfigItem{
		Category:     category,
		Value:        value,
		IsActive:     true,
		DisplayOrder: order,
	}, g.now())
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return appmodels.ConfigItem{}, fmt.Errorf("add configuration item: %w", err)
	}
	return row.ToItem(), nil
}

func (g *SQLGateway) RenameConfigItem(ctx context.Context, category, oldValue, newValue string) error {
	err := g.db.WithContext(ctx).Model(&models.AppConfigurationRow{}).
		Where("category = ? AND value = ?", category, oldValue).
		Update("value", newValue).Error
	if err != nil {
		return fmt.Errorf("rename configuration item: %w", err)
	}
	return nil
}

func (g *SQLGateway) DeleteConfigItem(ctx context.Context, category, value string) error {
	res := g.db.WithContext(ctx).
		Where("category = ? AND value = ?", category, value).
		Delete(&models.AppConfigurationRow{})
	if res.Error != nil {
		return fmt.Errorf("delete configuration item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConfigItemNotFound
	}
	return nil
}

func (g *SQLGateway) SeedConfiguration(ctx context.Context, options map[string][]string) (int, error) {
	rows := models.SeedRows(options, consts.Categories, g.now())

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AppConfigurationRow{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count configuration: %w", err)
		}
		if count > 0 {
			return ErrConfigurationInitialized
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, seedBatchSize).Error; err != nil {
			return fmt.Errorf("seed configuration: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (g *SQLGateway) InsertHistory(ctx context.Context, rows []models.CaseHistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (g *SQLGateway) UpsertDocuments(ctx context.Context, rows []models.CaseDocumentRow) error {
	if len(rows) == 0 {
		return nil
	}
	return g.upsertDocuments(ctx, rows)
}
