package case_documents

import (
	"context"

	"loan-case-tracker/internal/pkg/consts"
	mongodb "loan-case-tracker/internal/pkg/db/mongo"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/store/models"
	"loan-case-tracker/internal/pkg/store/repository"
	"loan-case-tracker/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type CaseDocumentsRepository struct {
	repo interfaces.CaseDocumentsStoreInterface
}

func NewCaseDocumentsRepository(client *mongodb.MongoClient) *CaseDocumentsRepository {
	collection := client.Database.Collection(consts.CaseDocumentsCollection)
	repo := repository.NewMongoRepository[models.CaseDocumentRow](collection)
	return &CaseDocumentsRepository{repo: repo}
}

func NewCaseDocumentsRepositoryWithInterface(repo interfaces.CaseDocumentsStoreInterface) *CaseDocumentsRepository {
	return &CaseDocumentsRepository{repo: repo}
}

// Upsert writes the slot keyed by (case_id, document_type). The row id and
// created_at are only set when the slot is inserted.
func (r *CaseDocumentsRepository) Upsert(ctx context.Context, row models.CaseDocumentRow) (models.CaseDocumentRow, error) {
	filter := bson.M{"case_id": row.CaseID, "document_type": row.DocumentType}
	update := bson.M{
		"$set": bson.M{
			"uploaded":   row.Uploaded,
			"file_url":   row.FileURL,
			"size_bytes": row.SizeBytes,
			"updated_at": row.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        row.ID,
			"created_at": row.CreatedAt,
		},
	}
	if _, err := r.repo.Upsert(ctx, filter, update); err != nil {
		logger.CtxError(ctx, "Error upserting case document", err,
			zap.String("case_id", row.CaseID),
			zap.String("document_type", row.DocumentType),
		)
		return models.CaseDocumentRow{}, err
	}

	stored, err := r.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		logger.CtxError(ctx, "Error reading upserted case document", err, zap.String("case_id", row.CaseID))
		return models.CaseDocumentRow{}, err
	}
	return stored, nil
}

// UpsertMany upserts each row in order and stops at the first failure.
func (r *CaseDocumentsRepository) UpsertMany(ctx context.Context, rows []models.CaseDocumentRow) error {
	for _, row := range rows {
		if _, err := r.Upsert(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// FindByCaseIDs batch-fetches document slots for the given cases.
func (r *CaseDocumentsRepository) FindByCaseIDs(ctx context.Context, caseIDs []string) ([]models.CaseDocumentRow, error) {
	if len(caseIDs) == 0 {
		return nil, nil
	}
	rows, err := r.repo.Find(ctx, bson.M{"case_id": bson.M{"$in": caseIDs}})
	if err != nil {
		logger.CtxError(ctx, "Error fetching case documents", err, zap.Int("case_count", len(caseIDs)))
		return nil, err
	}
	return rows, nil
}
