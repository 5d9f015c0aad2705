package postgres

import (
	"context"
	"fmt"
	"strings"

	"loan-case-tracker/internal/pkg/config"
	"loan-case-tracker/internal/pkg/logger"
	storemodels "loan-case-tracker/internal/pkg/store/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DialectorConstructor builds the gorm dialector for a DSN. Tests swap it for
// a sqlmock-backed dialector.
type DialectorConstructor func(dsn string) gorm.Dialector

type PostgresClient struct {
	DB *gorm.DB
}

// ConnectToPostgres opens the relational store, applies pool settings, pings
// it and optionally migrates the four tables. A nil constructor means postgres.Open.
func ConnectToPostgres(ctx context.Context, cfg config.PostgresConfig, newDialector DialectorConstructor) (*PostgresClient, error) {
	if newDialector == nil {
		newDialector = postgres.Open
	}

	logger.CtxInfo(ctx, "Connecting to Postgres", zap.Bool("auto_migrate", cfg.AutoMigrate))

	db, err := gorm.Open(newDialector(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		logger.CtxError(ctx, "Failed to open Postgres", err)
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get postgres handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.CtxError(ctx, "Postgres ping failed", err)
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(
			&storemodels.LoanCaseRow{},
			&storemodels.CaseHistoryRow{},
			&storemodels.CaseDocumentRow{},
			&storemodels.AppConfigurationRow{},
		); err != nil {
			logger.CtxError(ctx, "Postgres migration failed", err)
			return nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
		}
	}

	logger.CtxInfo(ctx, "Successfully connected to Postgres")

	return &PostgresClient{DB: db}, nil
}

func Disconnect(client *PostgresClient) error {
	sqlDB, err := client.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
