package case_history

import (
	"context"

	"loan-case-tracker/internal/pkg/consts"
	mongodb "loan-case-tracker/internal/pkg/db/mongo"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/store/models"
	"loan-case-tracker/internal/pkg/store/repository"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type CaseHistoryRepository struct {
	repo interfaces.CaseHistoryStoreInterface
}

func NewCaseHistoryRepository(client *mongodb.MongoClient) *CaseHistoryRepository {
	collection := client.Database.Collection(consts.CaseHistoryCollection)
	repo := repository.NewMongoRepository[models.CaseHistoryRow](collection)
	return &CaseHistoryRepository{repo: repo}
}

func NewCaseHistoryRepositoryWithInterface(repo interfaces.CaseHistoryStoreInterface) *CaseHistoryRepository {
	return &CaseHistoryRepository{repo: repo}
}

// InsertMany writes rows unordered. Rows that already exist (same id) are
// skipped, so a repeated insert is harmless.
func (r *CaseHistoryRepository) InsertMany(ctx context.Context, rows []models.CaseHistoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := lo.Map(rows, func(row models.CaseHistoryRow, _ int) interface{} { return row })
	_, err := r.repo.CreateMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.CtxDebug(ctx, "History rows already present", zap.Int("count", len(rows)))
			return nil
		}
		logger.CtxError(ctx, "Error inserting case history", err, zap.String("case_id", rows[0].CaseID))
		return err
	}
	return nil
}

// FindByCaseIDs batch-fetches history for the given cases, oldest first.
func (r *CaseHistoryRepository) FindByCaseIDs(ctx context.Context, caseIDs []string) ([]models.CaseHistoryRow, error) {
	if len(caseIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	rows, err := r.repo.Find(ctx, bson.M{"case_id": bson.M{"$in": caseIDs}}, opts)
	if err != nil {
		logger.CtxError(ctx, "Error fetching case history", err, zap.Int("case_count", len(caseIDs)))
		return nil, err
	}
	return rows, nil
}
