package loan_cases

import (
	"context"
	"errors"
	"fmt"

	"loan-case-tracker/internal/pkg/consts"
	mongodb "loan-case-tracker/internal/pkg/db/mongo"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/pkg/store/models"
	"loan-case-tracker/internal/pkg/store/repository"
	"loan-case-tracker/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type LoanCasesRepository struct {
	repo interfaces.LoanCasesStoreInterface
}

func NewLoanCasesRepository(client *mongodb.MongoClient) *LoanCasesRepository {
	collection := client.Database.Collection(consts.LoanCasesCollection)
	repo := repository.NewMongoRepository[models.LoanCaseRow](collection)
	return &LoanCasesRepository{repo: repo}
}

func NewLoanCasesRepositoryWithInterface(repo interfaces.LoanCasesStoreInterface) *LoanCasesRepository {
	return &LoanCasesRepository{repo: repo}
}

// ListCases returns every case row, newest first.
func (r *LoanCasesRepository) ListCases(ctx context.Context) ([]models.LoanCaseRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	rows, err := r.repo.Find(ctx, bson.M{}, opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing loan cases", err)
		return nil, err
	}
	logger.CtxDebug(ctx, "Fetched loan cases", zap.Int("count", len(rows)))
	return rows, nil
}

// GetCase returns nil, nil when no row has the id.
func (r *LoanCasesRepository) GetCase(ctx context.Context, id string) (*models.LoanCaseRow, error) {
	row, err := r.repo.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxDebug(ctx, "No loan case found", zap.String("case_id", id))
			return nil, nil
		}
		logger.CtxError(ctx, "Error finding loan case", err, zap.String("case_id", id))
		return nil, err
	}
	return &row, nil
}

func (r *LoanCasesRepository) InsertCase(ctx context.Context, row models.LoanCaseRow) error {
	if _, err := r.repo.Create(ctx, row); err != nil {
		logger.CtxError(ctx, "Error inserting loan case", err, zap.String("case_id", row.ID))
		return err
	}
	return nil
}

// UpdateFields sets the given columns on one case.
func (r *LoanCasesRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.repo.UpdateOne(ctx, bson.M{"_id": id}, bson.M(fields)); err != nil {
		logger.CtxError(ctx, "Error updating loan case", err, zap.String("case_id", id))
		return err
	}
	return nil
}

// RenameFieldValue rewrites field from oldValue to newValue on every case and
// returns the number of cases changed.
func (r *LoanCasesRepository) RenameFieldValue(ctx context.Context, field, oldValue, newValue string) (int64, error) {
	result, err := r.repo.Update(ctx, bson.M{field: oldValue}, bson.M{"$set": bson.M{field: newValue}})
	if err != nil {
		logger.CtxError(ctx, "Error renaming loan case field", err, zap.String("field", field))
		return 0, err
	}
	return result.ModifiedCount, nil
}

// DistinctValues returns the distinct non-empty string values of field.
func (r *LoanCasesRepository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	values, err := r.repo.Distinct(ctx, field, bson.M{})
	if err != nil {
		logger.CtxError(ctx, "Error reading distinct loan case values", err, zap.String("field", field))
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected %T value for %s", v, field)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
