package interfaces

import (
	"context"

	"loan-case-tracker/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LoanCasesStoreInterface interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.LoanCaseRow, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LoanCaseRow, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	Update(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error)
}

type CaseHistoryStoreInterface interface {
	CreateMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseHistoryRow, error)
}

type CaseDocumentsStoreInterface interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseDocumentRow, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.CaseDocumentRow, error)
	Upsert(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
}

type AppConfigurationStoreInterface interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	CreateMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AppConfigurationRow, error)
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.AppConfigurationRow, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}
