package app_configuration

import (
	"context"
	"errors"

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

type AppConfigurationRepository struct {
	repo interfaces.AppConfigurationStoreInterface
}

func NewAppConfigurationRepository(client *mongodb.MongoClient) *AppConfigurationRepository {
	collection := client.Database.Collection(consts.AppConfigurationCollection)
	repo := repository.NewMongoRepository[models.AppConfigurationRow](collection)
	return &AppConfigurationRepository{repo: repo}
}

func NewAppConfigurationRepositoryWithInterface(repo interfaces.AppConfigurationStoreInterface) *AppConfigurationRepository {
	return &AppConfigurationRepository{repo: repo}
}

// ListActive returns active rows ordered by category then display order.
func (r *AppConfigurationRepository) ListActive(ctx context.Context) ([]models.AppConfigurationRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "display_order", Value: 1}})
	rows, err := r.repo.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing app configuration", err)
		return nil, err
	}
	return rows, nil
}

// NextDisplayOrder returns one past the highest display order in category,
// or zero for an empty category.
func (r *AppConfigurationRepository) NextDisplayOrder(ctx context.Context, category string) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "display_order", Value: -1}})
	row, err := r.repo.FindOne(ctx, bson.M{"category": category}, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		logger.CtxError(ctx, "Error reading display order", err, zap.String("category", category))
		return 0, err
	}
	return row.DisplayOrder + 1, nil
}

func (r *AppConfigurationRepository) Insert(ctx context.Context, row models.AppConfigurationRow) error {
	if _, err := r.repo.Create(ctx, row); err != nil {
		logger.CtxError(ctx, "Error inserting app configuration", err,
			zap.String("category", row.Category),
			zap.String("value", row.Value),
		)
		return err
	}
	return nil
}

func (r *AppConfigurationRepository) InsertMany(ctx context.Context, rows []models.AppConfigurationRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := lo.Map(rows, func(row models.AppConfigurationRow, _ int) interface{} { return row })
	if _, err := r.repo.CreateMany(ctx, docs); err != nil {
		logger.CtxError(ctx, "Error seeding app configuration", err, zap.Int("count", len(rows)))
		return err
	}
	return nil
}

func (r *AppConfigurationRepository) Rename(ctx context.Context, category, oldValue, newValue string) error {
	filter := bson.M{"category": category, "value": oldValue}
	if err := r.repo.UpdateOne(ctx, filter, bson.M{"value": newValue}); err != nil {
		logger.CtxError(ctx, "Error renaming app configuration", err, zap.String("category", category))
		return err
	}
	return nil
}

// Delete removes the row and reports whether one existed.
func (r *AppConfigurationRepository) Delete(ctx context.Context, category, value string) (bool, error) {
	result, err := r.repo.DeleteOne(ctx, bson.M{"category": category, "value": value})
	if err != nil {
		logger.CtxError(ctx, "Error deleting app configuration", err, zap.String("category", category))
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *AppConfigurationRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.repo.CountDocuments(ctx, bson.M{})
	if err != nil {
		logger.CtxError(ctx, "Error counting app configuration", err)
		return 0, err
	}
	return count, nil
}
